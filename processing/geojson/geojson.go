// Package geojson writes hexagon layers as a single GeoJSON FeatureCollection.
package geojson

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-spatial/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/pdok/hexgrid/geomhelp"
	"github.com/pdok/hexgrid/processing"
	"github.com/pdok/hexgrid/srs"
)

const Extension = "geojson"

type TargetGeoJSON struct {
	file    *os.File
	columns []string
	crs     *srs.SpatialReferenceSystem
}

// NewTarget creates <dir>/<layer name>.geojson
func NewTarget(dir string, layer processing.LayerDescription, overwrite bool) (*TargetGeoJSON, error) {
	path := processing.OutputPath(dir, layer.Name, Extension)
	if err := processing.PrepareOutput(overwrite, path); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, processing.IOFailure(err, "could not create %s", path)
	}
	return &TargetGeoJSON{file: file, columns: layer.Schema.Names(), crs: layer.SRS}, nil
}

// WriteFeatures collects all features and writes the collection once the channel is closed.
// The output only depends on the features, writing the same layer twice gives identical files.
func (target *TargetGeoJSON) WriteFeatures(features <-chan processing.Feature) error {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{"crs": crsMember(target.crs)}
	var bound *orb.Bound

	for feature := range features {
		f, err := target.newFeature(feature)
		if err != nil {
			return err
		}
		b := f.Geometry.Bound()
		if bound == nil {
			bound = &b
		} else {
			*bound = bound.Union(b)
		}
		fc.Append(f)
	}
	if bound != nil {
		fc.BBox = geojson.NewBBox(*bound)
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return processing.IOFailure(err, "could not encode feature collection")
	}
	_, err = target.file.Write(append(data, '\n'))
	return processing.IOFailure(err, "could not write %s", target.file.Name())
}

func (target *TargetGeoJSON) Close() error {
	return processing.IOFailure(target.file.Close(), "could not close %s", target.file.Name())
}

func (target *TargetGeoJSON) newFeature(feature processing.Feature) (*geojson.Feature, error) {
	polygon, ok := feature.Geometry().(geom.Polygon)
	if !ok || len(polygon) == 0 {
		return nil, fmt.Errorf("%w: only polygons can be written, got %T", processing.ErrIOFailure, feature.Geometry())
	}
	f := geojson.NewFeature(geomhelp.ToOrbPolygon(polygon[0]))
	columns := feature.Columns()
	for i, name := range target.columns {
		if i < len(columns) {
			f.Properties[name] = columns[i]
		}
	}
	if len(columns) > 0 {
		f.ID = columns[0]
	}
	return f, nil
}

// crsMember is the (pre RFC 7946) named crs object
func crsMember(s *srs.SpatialReferenceSystem) map[string]interface{} {
	return map[string]interface{}{
		"type": "name",
		"properties": map[string]interface{}{
			"name": s.URN(),
		},
	}
}
