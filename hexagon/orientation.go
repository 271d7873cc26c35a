package hexagon

import (
	"fmt"
	"strings"
)

// Orientation of the hexagons in a layer.
type Orientation string

const (
	// FlatTop hexagons have a horizontal top edge and a vertex pointing east.
	FlatTop Orientation = "flat-top"
	// PointyTop hexagons have a vertex pointing north.
	PointyTop Orientation = "pointy-top"
)

// Orientations lists the supported orientations
var Orientations = []Orientation{FlatTop, PointyTop}

// ParseOrientation is case insensitive and also accepts "flat" and "pointy".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(FlatTop), "flat", "flattop":
		return FlatTop, nil
	case string(PointyTop), "pointy", "pointytop":
		return PointyTop, nil
	}
	return "", fmt.Errorf("%w: unsupported orientation %q, use one of %v", ErrInvalidInput, s, Orientations)
}

func (o Orientation) Validate() error {
	switch o {
	case FlatTop, PointyTop:
		return nil
	}
	return fmt.Errorf("%w: unsupported orientation %q, use one of %v", ErrInvalidInput, string(o), Orientations)
}

// Rotation is the angle in degrees of the first vertex, counterclockwise from east.
func (o Orientation) Rotation() float64 {
	if o == PointyTop {
		return 30
	}
	return 0
}
