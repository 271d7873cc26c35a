// Package intgeom holds integer lattice coordinates for hexagon vertices.
//
// Every vertex of a regular hexagon tessellation lies on a rectangular lattice
// with a step of half the edge length along one axis and half the hexagon
// height along the other. Addressing vertices by their int64 lattice indices
// and converting them to floats in exactly one place means that neighbouring
// hexagons produce bit-identical coordinates for the vertices they share.
// Computing center + r*cos/sin per hexagon would not guarantee that.
package intgeom

import (
	"fmt"
	"math"

	"github.com/go-spatial/geom"
)

// M is short for measure.
// Used to indicate that an ordinate is a number of lattice steps.
type M = int64

// Point is a 2D lattice position (number of steps along x and y).
type Point [2]int64

// X is the x lattice index
func (p Point) X() M { return p[0] }

// Y is the y lattice index
func (p Point) Y() M { return p[1] }

// Add returns the sum of two lattice positions
func (p Point) Add(q Point) Point {
	return Point{p[0] + q[0], p[1] + q[1]}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d %d)", p[0], p[1])
}

// Lattice maps lattice positions onto planar coordinates.
type Lattice struct {
	Origin [2]float64
	Step   [2]float64
}

// NewLattice creates a Lattice. Steps must be positive and finite.
func NewLattice(origin [2]float64, stepX, stepY float64) (Lattice, error) {
	for _, s := range [2]float64{stepX, stepY} {
		if !(s > 0) || math.IsInf(s, 1) {
			return Lattice{}, fmt.Errorf("lattice step must be positive and finite, got %v", s)
		}
	}
	return Lattice{Origin: origin, Step: [2]float64{stepX, stepY}}, nil
}

// ToGeomOrd turns a lattice index along the given axis (0 for x, 1 for y) into a floating point ordinate
func (l Lattice) ToGeomOrd(o M, axis int) float64 {
	if o == 0 {
		return l.Origin[axis]
	}
	return l.Origin[axis] + float64(o)*l.Step[axis]
}

// ToGeomPoint turns a lattice position into a planar point
func (l Lattice) ToGeomPoint(p Point) geom.Point {
	return geom.Point{l.ToGeomOrd(p[0], 0), l.ToGeomOrd(p[1], 1)}
}

// FromGeomPoint returns the lattice position nearest to the planar point
func (l Lattice) FromGeomPoint(p geom.Point) Point {
	return Point{
		int64(math.Round((p[0] - l.Origin[0]) / l.Step[0])),
		int64(math.Round((p[1] - l.Origin[1]) / l.Step[1])),
	}
}
