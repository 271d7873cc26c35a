package geomhelp

import (
	ctgeom "github.com/ctessum/geom"
	"github.com/go-spatial/geom"
	"github.com/paulmach/orb"

	"github.com/pdok/hexgrid/mapslicehelp"
)

// ToGeomPolygon turns a single ring into a go-spatial polygon, without closing point.
func ToGeomPolygon(ring [][2]float64) geom.Polygon {
	open := OpenRing(ring)
	r := make([][2]float64, len(open))
	copy(r, open)
	return geom.Polygon{r}
}

// ToOrbPolygon turns a single ring into a closed orb polygon (GeoJSON, RFC 7946 winding kept as given).
func ToOrbPolygon(ring [][2]float64) orb.Polygon {
	closed := CloseRing(ring)
	r := make(orb.Ring, len(closed))
	for i, p := range closed {
		r[i] = orb.Point(p)
	}
	return orb.Polygon{r}
}

// ToShapePolygon turns a single ring into a closed, clockwise github.com/ctessum/geom polygon,
// the winding order of outer rings in an ESRI Shapefile.
func ToShapePolygon(ring [][2]float64) ctgeom.Polygon {
	closed := CloseRing(ring)
	if IsCounterClockwise(closed) {
		closed = mapslicehelp.ReverseClone(closed)
	}
	r := make([]ctgeom.Point, len(closed))
	for i, p := range closed {
		r[i] = ctgeom.Point{X: p[0], Y: p[1]}
	}
	return ctgeom.Polygon{r}
}
