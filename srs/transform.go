package srs

import (
	"fmt"

	"github.com/ctessum/geom/proj"
)

// FromLonLat projects a WGS 84 position into this CRS.
func (srs *SpatialReferenceSystem) FromLonLat(lon, lat float64) ([2]float64, error) {
	transform, err := srs.fromWGS84()
	if err != nil {
		return [2]float64{}, err
	}
	x, y, err := transform(lon, lat)
	if err != nil {
		return [2]float64{}, fmt.Errorf("could not project (lon %v, lat %v) to %v: %w", lon, lat, srs, err)
	}
	return [2]float64{x, y}, nil
}

func (srs *SpatialReferenceSystem) fromWGS84() (proj.Transformer, error) {
	if srs.Proj4 == "" {
		return nil, fmt.Errorf("%w: %v has no proj4 definition to transform with", ErrUnsupportedCRS, srs)
	}
	src, err := proj.Parse(wgs84Proj4)
	if err != nil {
		return nil, err
	}
	dst, err := proj.Parse(srs.Proj4)
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse proj4 of %v: %v", ErrUnsupportedCRS, srs, err)
	}
	return src.NewTransform(dst)
}
