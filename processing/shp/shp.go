// Package shp writes hexagon layers as ESRI Shapefiles with a .prj sidecar.
package shp

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	ctgeom "github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/go-spatial/geom"

	"github.com/pdok/hexgrid/geomhelp"
	"github.com/pdok/hexgrid/processing"
)

const Extension = "shp"

// dbfDate is the fixed last update date (YY since 1900, MM, DD) in the dbf header: 2000-01-01
var dbfDate = []byte{100, 1, 1}

// the files making up one Shapefile
var sidecars = []string{"shp", "shx", "dbf", "prj"}

// record is the archetype of a row, the dbf columns follow processing.HexagonSchema
type record struct {
	Polygon ctgeom.Polygon
	ID      int     `shp:"id"`
	Size    float64 `shp:"size"`
	Col     int     `shp:"col"`
	Row     int     `shp:"row"`
	ZKey    int     `shp:"zkey"`
	UID     string  `shp:"uid"`
}

type TargetShapefile struct {
	encoder *shp.Encoder
	file    string
}

// NewTarget creates <dir>/<layer name>.shp and its sidecars.
func NewTarget(dir string, layer processing.LayerDescription, overwrite bool) (*TargetShapefile, error) {
	file := processing.OutputPath(dir, layer.Name, Extension)
	base := strings.TrimSuffix(file, "."+Extension)
	var paths []string
	for _, ext := range sidecars {
		paths = append(paths, base+"."+ext)
	}
	if err := processing.PrepareOutput(overwrite, paths...); err != nil {
		return nil, err
	}

	// .prj first, so an unwritable directory fails before the encoder creates anything
	if err := os.WriteFile(base+".prj", []byte(layer.SRS.WKT), 0o644); err != nil { //nolint:gosec
		return nil, processing.IOFailure(err, "could not write projection file")
	}
	encoder, err := shp.NewEncoder(file, record{})
	if err != nil {
		return nil, processing.IOFailure(err, "could not create Shapefile %s", file)
	}
	return &TargetShapefile{encoder: encoder, file: file}, nil
}

func (target *TargetShapefile) WriteFeatures(features <-chan processing.Feature) error {
	for feature := range features {
		r, err := newRecord(feature)
		if err != nil {
			return err
		}
		if err = target.encoder.Encode(r); err != nil {
			return processing.IOFailure(err, "could not write feature %d to %s", r.ID, target.file)
		}
	}
	return nil
}

func (target *TargetShapefile) Close() error {
	target.encoder.Close()
	return pinDBFDate(strings.TrimSuffix(target.file, "."+Extension) + ".dbf")
}

// pinDBFDate replaces the write date in the dbf header, equal layers give equal files
func pinDBFDate(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return processing.IOFailure(err, "could not open %s", path)
	}
	if _, err = f.WriteAt(dbfDate, 1); err != nil {
		_ = f.Close()
		return processing.IOFailure(err, "could not set the date of %s", path)
	}
	return processing.IOFailure(f.Close(), "could not close %s", path)
}

func newRecord(feature processing.Feature) (record, error) {
	polygon, ok := feature.Geometry().(geom.Polygon)
	if !ok || len(polygon) == 0 {
		return record{}, fmt.Errorf("%w: only polygons can be written, got %T", processing.ErrIOFailure, feature.Geometry())
	}
	c := feature.Columns()
	if len(c) != 6 {
		return record{}, fmt.Errorf("%w: expected 6 columns, got %d", processing.ErrIOFailure, len(c))
	}
	r := record{
		Polygon: geomhelp.ToShapePolygon(polygon[0]),
		ID:      asInt(c[0]),
		Size:    asFloat(c[1]),
		Col:     asInt(c[2]),
		Row:     asInt(c[3]),
		ZKey:    -1,
	}
	if c[4] != nil {
		r.ZKey = asInt(c[4])
	}
	r.UID, _ = c[5].(string)
	return r, nil
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func asFloat(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}
