package hexagon

import (
	"fmt"

	"github.com/go-spatial/geom"

	"github.com/pdok/hexgrid/mathhelp"
)

// Extent represents the minx, miny, maxx and maxy of a rectangle
// in a projected coordinate reference system (meters).
type Extent [4]float64

// NewExtentFromCorners builds an Extent from any two opposite corners.
func NewExtentFromCorners(a, b [2]float64) Extent {
	minX, maxX := mathhelp.MinMax(a[0], b[0])
	minY, maxY := mathhelp.MinMax(a[1], b[1])
	return Extent{minX, minY, maxX, maxY}
}

// Validate returns an ErrInvalidInput when an ordinate is not finite
// or when the extent has no area.
func (e Extent) Validate() error {
	for i, o := range e {
		if !mathhelp.IsFinite(o) {
			return fmt.Errorf("%w: extent ordinate %d is not a finite number: %v", ErrInvalidInput, i, o)
		}
	}
	if !(e.MinX() < e.MaxX()) {
		return fmt.Errorf("%w: extent min x (%v) must be smaller than max x (%v)", ErrInvalidInput, e.MinX(), e.MaxX())
	}
	if !(e.MinY() < e.MaxY()) {
		return fmt.Errorf("%w: extent min y (%v) must be smaller than max y (%v)", ErrInvalidInput, e.MinY(), e.MaxY())
	}
	return nil
}

func (e Extent) ToGeomExtent() geom.Extent {
	return geom.Extent(e)
}

// Vertices return the vertices of the Bounding Box. The vertices are ordered in the following manner.
// (minx,miny), (maxx,miny), (maxx,maxy), (minx,maxy)
func (e Extent) Vertices() [4][2]float64 {
	return [4][2]float64{
		{e.MinX(), e.MinY()},
		{e.MaxX(), e.MinY()},
		{e.MaxX(), e.MaxY()},
		{e.MinX(), e.MaxY()},
	}
}

// ContainsPoint includes the boundary
func (e Extent) ContainsPoint(pt [2]float64) bool {
	return mathhelp.BetweenInc(pt[0], e.MinX(), e.MaxX()) && mathhelp.BetweenInc(pt[1], e.MinY(), e.MaxY())
}

// Add grows the extent to also cover pt.
func (e Extent) Add(pt [2]float64) Extent {
	e[0], _ = mathhelp.MinMax(e[0], pt[0])
	e[1], _ = mathhelp.MinMax(e[1], pt[1])
	_, e[2] = mathhelp.MinMax(e[2], pt[0])
	_, e[3] = mathhelp.MinMax(e[3], pt[1])
	return e
}

// MaxX is the larger of the x values.
func (e Extent) MaxX() float64 {
	return e[2]
}

// MinX  is the smaller of the x values.
func (e Extent) MinX() float64 {
	return e[0]
}

// MaxY is the larger of the y values.
func (e Extent) MaxY() float64 {
	return e[3]
}

// MinY is the smaller of the y values.
func (e Extent) MinY() float64 {
	return e[1]
}

// XSpan is the distance of the Extent in X
func (e Extent) XSpan() float64 {
	return e[2] - e[0]
}

// YSpan is the distance of the Extent in Y
func (e Extent) YSpan() float64 {
	return e[3] - e[1]
}

func (e Extent) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", e[0], e[1], e[2], e[3])
}
