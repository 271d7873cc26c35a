package geomhelp

import (
	"math"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkt"
	"github.com/muesli/reflow/truncate"
)

// https://en.wikipedia.org/wiki/Shoelace_formula
func Shoelace(pts [][2]float64) float64 {
	return math.Abs(signedArea(pts))
}

func signedArea(pts [][2]float64) float64 {
	sum := 0.
	if len(pts) == 0 {
		return 0.
	}

	p0 := pts[len(pts)-1]
	for _, p1 := range pts {
		sum += p0[0]*p1[1] - p1[0]*p0[1]
		p0 = p1
	}
	return sum / 2
}

// IsCounterClockwise works for closed and unclosed rings.
func IsCounterClockwise(ring [][2]float64) bool {
	return signedArea(ring) > 0
}

// IsClosed reports whether the last point of the ring repeats the first.
func IsClosed(ring [][2]float64) bool {
	return len(ring) > 1 && ring[0] == ring[len(ring)-1]
}

// CloseRing returns a copy of the ring with the first point repeated at the end.
func CloseRing(ring [][2]float64) [][2]float64 {
	closed := make([][2]float64, len(ring), len(ring)+1)
	copy(closed, ring)
	if len(ring) > 0 && !IsClosed(ring) {
		closed = append(closed, ring[0])
	}
	return closed
}

// OpenRing drops the closing point, the convention of github.com/go-spatial/geom.
func OpenRing(ring [][2]float64) [][2]float64 {
	if IsClosed(ring) {
		return ring[:len(ring)-1]
	}
	return ring
}

// ConvexRingContains reports whether pt lies inside or on the boundary (within tol)
// of a convex ring in counterclockwise order. The ring may be closed or not.
func ConvexRingContains(ring [][2]float64, pt [2]float64, tol float64) bool {
	ring = OpenRing(ring)
	n := len(ring)
	if n < 3 {
		return false
	}
	for i := range ring {
		a, b := ring[i], ring[(i+1)%n]
		edge := vector2d{b[0] - a[0], b[1] - a[1]}
		toPt := vector2d{pt[0] - a[0], pt[1] - a[1]}
		// cross product, negative means right of the edge: outside
		if edge.cross(toPt) < -tol*edge.magnitude() {
			return false
		}
	}
	return true
}

// InteriorAngles returns the interior angle in degrees at each vertex of a convex ring.
func InteriorAngles(ring [][2]float64) []float64 {
	ring = OpenRing(ring)
	n := len(ring)
	angles := make([]float64, n)
	for i := range ring {
		prev, cur, next := ring[(i+n-1)%n], ring[i], ring[(i+1)%n]
		u := vector2d{prev[0] - cur[0], prev[1] - cur[1]}
		v := vector2d{next[0] - cur[0], next[1] - cur[1]}
		angles[i] = u.angleTo(v)
	}
	return angles
}

// Distance between two points
func Distance(a, b [2]float64) float64 {
	return vector2d{b[0] - a[0], b[1] - a[1]}.magnitude()
}

func WktMustEncode(g geom.Geometry, maxLen uint) string {
	if maxLen == 0 {
		return wkt.MustEncode(g)
	}
	return truncate.StringWithTail(wkt.MustEncode(g), maxLen, "...")
}
