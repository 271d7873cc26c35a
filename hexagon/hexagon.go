package hexagon

import (
	"math"

	"github.com/go-spatial/geom"
	"github.com/google/uuid"

	"github.com/pdok/hexgrid/geomhelp"
	"github.com/pdok/hexgrid/intgeom"
	"github.com/pdok/hexgrid/morton"
)

// Hexagon is a single regular hexagon of a Layer.
type Hexagon struct {
	// ID is sequential within the layer, starting at 0, in generation order.
	ID int
	// Col and Row are the position in the layer's lattice, (0,0) sits on the extent's lower left corner.
	Col, Row int
	// Size is the edge length, which equals the circumradius.
	Size        float64
	Orientation Orientation
	Center      [2]float64
	// Vertices are in counterclockwise order, starting at the orientation's rotation angle.
	Vertices [6][2]float64
	// UID is a name based UUID of the layer origin, size, orientation and lattice position.
	// Unlike ID it stays the same when the extent grows to the right or top.
	UID uuid.UUID

	corners [6]intgeom.Point
}

// Ring returns the closed ring: six vertices and the first one repeated.
func (h *Hexagon) Ring() [][2]float64 {
	ring := make([][2]float64, 0, 7)
	ring = append(ring, h.Vertices[:]...)
	return append(ring, h.Vertices[0])
}

// Polygon returns the hexagon as a go-spatial polygon (ring not closed, as that library expects).
func (h *Hexagon) Polygon() geom.Polygon {
	return geomhelp.ToGeomPolygon(h.Vertices[:])
}

// LatticeRing returns the vertices as lattice positions. Shared vertices of neighbours are equal.
func (h *Hexagon) LatticeRing() []intgeom.Point {
	return h.corners[:]
}

// Area of a regular hexagon: 3/2 * sqrt(3) * size^2
func (h *Hexagon) Area() float64 {
	return 1.5 * math.Sqrt(3) * h.Size * h.Size
}

// ZKey is the Morton key of the lattice position. Edge hexagons can lie at
// column or row -1, so the position is shifted by one.
func (h *Hexagon) ZKey() (morton.Z, bool) {
	return morton.FromCell(h.Col+1, h.Row+1)
}
