package gpkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/gpkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/hexgrid/hexagon"
	"github.com/pdok/hexgrid/processing"
	"github.com/pdok/hexgrid/srs"
)

func testLayer(t *testing.T) (*hexagon.Layer, processing.LayerDescription) {
	t.Helper()
	layer, err := hexagon.Generate(hexagon.Extent{0, 0, 1000, 600}, 100, hexagon.FlatTop)
	require.NoError(t, err)
	rd, err := srs.Resolve("EPSG:28992")
	require.NoError(t, err)
	return layer, processing.LayerDescription{Name: "hex_100", Schema: processing.HexagonSchema(), SRS: rd}
}

func writeLayer(t *testing.T, dir string, pagesize int) (*hexagon.Layer, string) {
	t.Helper()
	layer, desc := testLayer(t)
	target, err := NewTarget(dir, desc, false, pagesize)
	require.NoError(t, err)
	count, err := processing.WriteLayer(processing.LayerSource{Layer: layer}, target)
	require.NoError(t, err)
	assert.Equal(t, uint64(layer.Len()), count)
	assert.Equal(t, uint64(layer.Len()), target.Written())
	require.NoError(t, target.Close())
	return layer, filepath.Join(dir, "hex_100.gpkg")
}

func TestWriteFeatures(t *testing.T) {
	tests := map[string]struct {
		pagesize int
	}{
		"single page":      {pagesize: 1000},
		"many pages":       {pagesize: 7},
		"exact pages":      {pagesize: 1},
		"default pagesize": {pagesize: 0},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			layer, file := writeLayer(t, t.TempDir(), tt.pagesize)

			h, err := gpkg.Open(file)
			require.NoError(t, err)
			defer h.Close()

			var count int
			require.NoError(t, h.QueryRow(`SELECT count(*) FROM "hex_100"`).Scan(&count))
			assert.Equal(t, layer.Len(), count)

			rows, err := h.Query(`SELECT id, size, col, "row", zkey, uid, geom FROM "hex_100" ORDER BY fid`)
			require.NoError(t, err)
			defer rows.Close()
			i := 0
			for rows.Next() {
				var id, col, row, zkey int64
				var size float64
				var uid string
				var blob []byte
				require.NoError(t, rows.Scan(&id, &size, &col, &row, &zkey, &uid, &blob))
				want := layer.Hexagons[i]
				assert.Equal(t, int64(want.ID), id)
				assert.Equal(t, want.Size, size)
				assert.Equal(t, int64(want.Col), col)
				assert.Equal(t, int64(want.Row), row)
				assert.Equal(t, want.UID.String(), uid)
				z, ok := want.ZKey()
				require.True(t, ok)
				assert.Equal(t, int64(z), zkey)

				sb, err := gpkg.DecodeGeometry(blob)
				require.NoError(t, err)
				polygon, ok := sb.Geometry.(geom.Polygon)
				require.True(t, ok)
				require.Len(t, polygon, 1)
				// rings may come back closed
				require.GreaterOrEqual(t, len(polygon[0]), 6)
				for j, v := range want.Vertices {
					assert.InDelta(t, v[0], polygon[0][j][0], 1e-9)
					assert.InDelta(t, v[1], polygon[0][j][1], 1e-9)
				}
				i++
			}
			require.NoError(t, rows.Err())
			assert.Equal(t, layer.Len(), i)
		})
	}
}

func TestSpatialReferenceSystem(t *testing.T) {
	_, file := writeLayer(t, t.TempDir(), 100)

	h, err := gpkg.Open(file)
	require.NoError(t, err)
	defer h.Close()

	var organization string
	var coordsysID, srsID int
	require.NoError(t, h.QueryRow(`SELECT organization, organization_coordsys_id FROM gpkg_spatial_ref_sys WHERE srs_id = 28992`).
		Scan(&organization, &coordsysID))
	assert.Equal(t, "EPSG", organization)
	assert.Equal(t, 28992, coordsysID)

	require.NoError(t, h.QueryRow(`SELECT srs_id FROM gpkg_geometry_columns WHERE table_name = 'hex_100'`).Scan(&srsID))
	assert.Equal(t, 28992, srsID)
}

func TestOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, desc := testLayer(t)
	writeLayer(t, dir, 100)

	_, err := NewTarget(dir, desc, false, 100)
	assert.ErrorIs(t, err, processing.ErrIOFailure)

	target, err := NewTarget(dir, desc, true, 100)
	require.NoError(t, err)
	require.NoError(t, target.Close())
}

func TestNotWritable(t *testing.T) {
	_, desc := testLayer(t)
	dir := filepath.Join(t.TempDir(), "missing")
	_, err := NewTarget(dir, desc, false, 100)
	assert.ErrorIs(t, err, processing.ErrIOFailure)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSQL(t *testing.T) {
	_, desc := testLayer(t)
	tbl := newTable(desc)
	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS "hex_100"("fid" INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL, "id" INTEGER, "size" REAL, "col" INTEGER, "row" INTEGER, "zkey" INTEGER, "uid" TEXT, "geom" POLYGON);`,
		tbl.createSQL())
	assert.Equal(t,
		`INSERT INTO "hex_100"("id","size","col","row","zkey","uid","geom") VALUES(?,?,?,?,?,?,?)`,
		tbl.insertSQL())
}

func TestIdempotent(t *testing.T) {
	_, first := writeLayer(t, t.TempDir(), 7)
	_, second := writeLayer(t, t.TempDir(), 7)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	h, err := gpkg.Open(first)
	require.NoError(t, err)
	defer h.Close()
	var lastChange string
	require.NoError(t, h.QueryRow(`SELECT last_change FROM gpkg_contents WHERE table_name = 'hex_100'`).Scan(&lastChange))
	assert.Equal(t, LastChange, lastChange)
}
