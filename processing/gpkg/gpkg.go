// Package gpkg writes hexagon layers into GeoPackages, one feature table per file.
package gpkg

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/gpkg"

	"github.com/pdok/hexgrid/processing"
	"github.com/pdok/hexgrid/srs"
)

const (
	Extension       = "gpkg"
	DefaultPageSize = 1000

	// LastChange is the fixed gpkg_contents.last_change of every layer
	LastChange = "2000-01-01T00:00:00.000Z"

	geometryColumn = "geom"
	fidColumn      = "fid"
)

type column struct {
	name  string
	ctype processing.ColumnType
}

type table struct {
	name    string
	columns []column
	gcolumn string
	gtype   gpkg.GeometryType
	srs     gpkg.SpatialReferenceSystem
}

type TargetGeopackage struct {
	table    table
	pagesize int
	handle   *gpkg.Handle
	extent   *geom.Extent
	written  uint64
}

// NewTarget creates <dir>/<layer name>.gpkg with an empty feature table for the layer.
func NewTarget(dir string, layer processing.LayerDescription, overwrite bool, pagesize int) (*TargetGeopackage, error) {
	file := processing.OutputPath(dir, layer.Name, Extension)
	if err := processing.PrepareOutput(overwrite, file); err != nil {
		return nil, err
	}
	if pagesize < 1 {
		pagesize = DefaultPageSize
	}

	handle, err := gpkg.Open(file)
	if err != nil {
		return nil, processing.IOFailure(err, "error opening GeoPackage %s", file)
	}
	target := &TargetGeopackage{
		table:    newTable(layer),
		pagesize: pagesize,
		handle:   handle,
	}
	if err = target.createTable(); err != nil {
		_ = handle.Close()
		return nil, err
	}
	return target, nil
}

func newTable(layer processing.LayerDescription) table {
	t := table{
		name:    layer.Name,
		columns: []column{{name: fidColumn, ctype: processing.Integer}},
		gcolumn: geometryColumn,
		gtype:   gpkg.Polygon,
		srs:     spatialReferenceSystem(layer.SRS),
	}
	names, types := layer.Schema.Names(), layer.Schema.Types()
	for i := range names {
		t.columns = append(t.columns, column{name: names[i], ctype: types[i]})
	}
	return t
}

func spatialReferenceSystem(s *srs.SpatialReferenceSystem) gpkg.SpatialReferenceSystem {
	return gpkg.SpatialReferenceSystem{
		Name:                   s.Name,
		ID:                     s.Code,
		Organization:           s.Authority,
		OrganizationCoordsysID: s.Code,
		Definition:             s.WKT,
		Description:            s.Description,
	}
}

// Written is the number of committed features
func (target *TargetGeopackage) Written() uint64 {
	return target.written
}

func (target *TargetGeopackage) Close() error {
	return processing.IOFailure(target.handle.Close(), "error closing GeoPackage")
}

func (target *TargetGeopackage) createTable() error {
	if err := target.handle.UpdateSRS(target.table.srs); err != nil {
		return processing.IOFailure(err, "error registering %s", target.table.srs.Name)
	}
	return buildTable(target.handle, target.table)
}

// WriteFeatures inserts the features in pages of pagesize, one transaction per page
func (target *TargetGeopackage) WriteFeatures(features <-chan processing.Feature) error {
	page := make([]processing.Feature, 0, target.pagesize)
	for feature := range features {
		page = append(page, feature)
		if len(page) == target.pagesize {
			if err := target.writeFeatures(page); err != nil {
				return err
			}
			page = page[:0]
		}
	}
	if len(page) > 0 {
		if err := target.writeFeatures(page); err != nil {
			return err
		}
	}
	if target.extent != nil {
		err := target.handle.UpdateGeometryExtent(target.table.name, target.extent)
		if err != nil {
			return processing.IOFailure(err, "failed to update extent of %s", target.table.name)
		}
	}
	return target.pinLastChange()
}

// pinLastChange replaces the write time in gpkg_contents, equal layers give equal files
func (target *TargetGeopackage) pinLastChange() error {
	_, err := target.handle.Exec(`UPDATE gpkg_contents SET last_change = ? WHERE table_name = ?`,
		LastChange, target.table.name)
	return processing.IOFailure(err, "failed to set last_change of %s", target.table.name)
}

func (target *TargetGeopackage) writeFeatures(features []processing.Feature) error {
	tx, err := target.handle.Begin()
	if err != nil {
		return processing.IOFailure(err, "could not start a transaction")
	}

	stmt, err := tx.Prepare(target.table.insertSQL())
	if err != nil {
		_ = tx.Rollback()
		return processing.IOFailure(err, "could not prepare a statement")
	}

	for _, f := range features {
		g := f.Geometry()
		sb, err := gpkg.NewBinary(int32(target.table.srs.ID), g)
		if err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return processing.IOFailure(err, "could not create a binary geometry")
		}

		data := append(f.Columns(), sb)
		if _, err = stmt.Exec(data...); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			var id interface{} = "unknown"
			if len(data) > 1 {
				id = data[0]
			}
			return processing.IOFailure(err, "could not insert feature %v", id)
		}

		if target.extent == nil {
			target.extent, err = geom.NewExtentFromGeometry(g)
			if err != nil {
				target.extent = nil
				log.Println("Failed to create new extent:", err)
			}
		} else if err = target.extent.AddGeometry(g); err != nil {
			log.Println("Failed to extend extent:", err)
		}
	}
	if err = stmt.Close(); err != nil {
		_ = tx.Rollback()
		return processing.IOFailure(err, "could not close the statement")
	}
	if err = tx.Commit(); err != nil {
		return processing.IOFailure(err, "could not commit page")
	}
	target.written += uint64(len(features))
	return nil
}

// geometryTypeName returns the sql type of a numeric geometry type
func geometryTypeName(gtype gpkg.GeometryType) string {
	switch gtype {
	case gpkg.Point:
		return "POINT"
	case gpkg.Linestring:
		return "LINESTRING"
	case gpkg.Polygon:
		return "POLYGON"
	case gpkg.MultiPoint:
		return "MULTIPOINT"
	case gpkg.MultiLinestring:
		return "MULTILINESTRING"
	case gpkg.MultiPolygon:
		return "MULTIPOLYGON"
	case gpkg.GeometryCollection:
		return "GEOMETRYCOLLECTION"
	default:
		return "GEOMETRY"
	}
}

// createSQL creates a CREATE statement on the given table and column information
func (t table) createSQL() string {
	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%v"`, t.name)
	var columnparts []string
	for _, c := range t.columns {
		columnpart := `"` + c.name + `" ` + string(c.ctype)
		if c.name == fidColumn {
			columnpart = columnpart + ` PRIMARY KEY AUTOINCREMENT NOT NULL`
		}
		columnparts = append(columnparts, columnpart)
	}
	columnparts = append(columnparts, `"`+t.gcolumn+`" `+geometryTypeName(t.gtype))

	return create + `(` + strings.Join(columnparts, `, `) + `);`
}

// insertSQL used for writing the features, fid is left to sqlite
func (t table) insertSQL() string {
	var csql, vsql []string
	for _, c := range t.columns {
		if c.name == fidColumn {
			continue
		}
		csql = append(csql, `"`+c.name+`"`)
		vsql = append(vsql, `?`)
	}
	csql = append(csql, `"`+t.gcolumn+`"`)
	vsql = append(vsql, `?`)
	return `INSERT INTO "` + t.name + `"(` + strings.Join(csql, `,`) + `) VALUES(` + strings.Join(vsql, `,`) + `)`
}

// buildTable creates the feature table with the necessary gpkg_ information
func buildTable(h *gpkg.Handle, t table) error {
	if _, err := h.Exec(t.createSQL()); err != nil {
		return processing.IOFailure(err, "error building table in target GeoPackage")
	}

	err := h.AddGeometryTable(gpkg.TableDescription{
		Name:          t.name,
		ShortName:     t.name,
		Description:   t.name,
		GeometryField: t.gcolumn,
		GeometryType:  t.gtype,
		SRS:           int32(t.srs.ID),
		//
		Z: gpkg.Prohibited,
		M: gpkg.Prohibited,
	})
	return processing.IOFailure(err, "error adding geometry table in target GeoPackage")
}
