// Package hexagon generates layers of regular hexagons that tessellate a rectangular extent.
//
// The hexagons of a layer are laid out on a lattice anchored on the lower left
// corner of the extent. Flat-top hexagons are stacked in columns 1.5*size apart,
// with odd columns shifted up by half a hexagon height (sqrt(3)*size).
// Pointy-top hexagons are stacked in rows 1.5*size apart, with odd rows
// shifted right by half a hexagon width. Every hexagon that intersects the
// extent, even if only along its boundary, is kept whole, so a layer always
// covers the extent and usually reaches beyond it. Clipping is left to the
// consumer.
package hexagon

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/pdok/hexgrid/intgeom"
	"github.com/pdok/hexgrid/mathhelp"
)

// ErrInvalidInput is returned for non-positive sizes, degenerate extents and unknown orientations.
var ErrInvalidInput = errors.New("invalid input")

const (
	// MaxHexagons limits the number of candidate hexagons of a single layer.
	// A layer is held in memory, at the limit that is about half a gigabyte.
	MaxHexagons = 2_000_000

	// relative to the size, widens the overlap test so touching survives rounding
	touchTolerance = 1e-9
)

var (
	uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/pdok/hexgrid"))

	// vertex offsets from the center in lattice steps, counterclockwise from the rotation angle
	flatTopCorners   = [6]intgeom.Point{{2, 0}, {1, 1}, {-1, 1}, {-2, 0}, {-1, -1}, {1, -1}}
	pointyTopCorners = [6]intgeom.Point{{1, 1}, {0, 2}, {-1, 1}, {-1, -1}, {0, -2}, {1, -1}}
)

// Generate tessellates the extent with hexagons of the given size (edge length) and orientation.
// The hexagons are ordered by row, bottom to top, and by column, left to right.
func Generate(extent Extent, size float64, orientation Orientation) (*Layer, error) {
	if !(size > 0) || !mathhelp.IsFinite(size) {
		return nil, fmt.Errorf("%w: hexagon size must be a positive number, got %v", ErrInvalidInput, size)
	}
	if err := extent.Validate(); err != nil {
		return nil, err
	}
	if err := orientation.Validate(); err != nil {
		return nil, err
	}

	g, err := newGrid(extent, size, orientation)
	if err != nil {
		return nil, err
	}
	colMin, colMax, rowMin, rowMax, err := g.ranges(extent)
	if err != nil {
		return nil, err
	}

	layer := &Layer{
		Size:        size,
		Orientation: orientation,
		Extent:      extent,
		Hexagons:    make([]Hexagon, 0, (colMax-colMin+1)*(rowMax-rowMin+1)),
	}
	tol := size * touchTolerance
	for row := rowMin; row <= rowMax; row++ {
		for col := colMin; col <= colMax; col++ {
			h := g.hexagon(col, row)
			if !g.overlaps(&h, extent, tol) {
				continue
			}
			h.ID = len(layer.Hexagons)
			h.UID = g.uid(col, row)
			layer.Hexagons = append(layer.Hexagons, h)
		}
	}
	return layer, nil
}

type grid struct {
	orientation Orientation
	size        float64
	lattice     intgeom.Lattice
	colSpacing  float64
	rowSpacing  float64
	corners     [6]intgeom.Point
	// unit normals of three non-parallel edges
	normals [3][2]float64
}

func newGrid(extent Extent, size float64, orientation Orientation) (grid, error) {
	height := math.Sqrt(3) * size
	g := grid{orientation: orientation, size: size}

	var stepX, stepY float64
	switch orientation {
	case PointyTop:
		stepX, stepY = height/2, size/2
		g.colSpacing, g.rowSpacing = height, 1.5*size
		g.corners = pointyTopCorners
	default:
		stepX, stepY = size/2, height/2
		g.colSpacing, g.rowSpacing = 1.5*size, height
		g.corners = flatTopCorners
	}

	var err error
	g.lattice, err = intgeom.NewLattice([2]float64{extent.MinX(), extent.MinY()}, stepX, stepY)
	if err != nil {
		return g, fmt.Errorf("%w: hexagon size %v: %v", ErrInvalidInput, size, err)
	}

	for i := range g.normals {
		angle := (orientation.Rotation() + 30 + 60*float64(i)) * math.Pi / 180
		g.normals[i] = [2]float64{math.Cos(angle), math.Sin(angle)}
	}
	return g, nil
}

// ranges returns the inclusive lattice index ranges of the candidate hexagons.
// One extra column and row on every side makes sure partial edge hexagons are candidates too.
func (g grid) ranges(extent Extent) (colMin, colMax, rowMin, rowMax int, err error) {
	cols := math.Ceil(extent.XSpan()/g.colSpacing) + 3
	rows := math.Ceil(extent.YSpan()/g.rowSpacing) + 3
	if cols*rows > MaxHexagons {
		return 0, 0, 0, 0, fmt.Errorf("%w: hexagon size %v is too small for extent %v, it would take about %.0f hexagons (max %d)",
			ErrInvalidInput, g.size, extent, cols*rows, MaxHexagons)
	}
	return -1, int(cols) - 2, -1, int(rows) - 2, nil
}

func (g grid) center(col, row int) intgeom.Point {
	if g.orientation == PointyTop {
		return intgeom.Point{int64(2*col + mathhelp.Bool2int(mathhelp.IsOdd(row))), int64(3 * row)}
	}
	return intgeom.Point{int64(3 * col), int64(2*row + mathhelp.Bool2int(mathhelp.IsOdd(col)))}
}

func (g grid) hexagon(col, row int) Hexagon {
	c := g.center(col, row)
	h := Hexagon{
		Col:         col,
		Row:         row,
		Size:        g.size,
		Orientation: g.orientation,
		Center:      g.lattice.ToGeomPoint(c),
	}
	for i, offset := range g.corners {
		h.corners[i] = c.Add(offset)
		h.Vertices[i] = g.lattice.ToGeomPoint(h.corners[i])
	}
	return h
}

// overlaps is a separating axis test between the hexagon and the extent.
// Touching counts as overlapping, a shared edge or vertex keeps the hexagon.
func (g grid) overlaps(h *Hexagon, extent Extent, tol float64) bool {
	rect := extent.Vertices()
	axes := [5][2]float64{{1, 0}, {0, 1}, g.normals[0], g.normals[1], g.normals[2]}
	for _, axis := range axes {
		hexMin, hexMax := project(h.Vertices[:], axis)
		rectMin, rectMax := project(rect[:], axis)
		if hexMax < rectMin-tol || rectMax < hexMin-tol {
			return false
		}
	}
	return true
}

func project(pts [][2]float64, axis [2]float64) (lo, hi float64) {
	for i, p := range pts {
		d := p[0]*axis[0] + p[1]*axis[1]
		if i == 0 || d < lo {
			lo = d
		}
		if i == 0 || d > hi {
			hi = d
		}
	}
	return lo, hi
}

func (g grid) uid(col, row int) uuid.UUID {
	name := formatFloat(g.lattice.Origin[0]) + "/" + formatFloat(g.lattice.Origin[1]) + "/" +
		formatFloat(g.size) + "/" + string(g.orientation) + "/" + strconv.Itoa(col) + "/" + strconv.Itoa(row)
	return uuid.NewSHA1(uidNamespace, []byte(name))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
