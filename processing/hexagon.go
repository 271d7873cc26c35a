package processing

import (
	"github.com/go-spatial/geom"

	"github.com/pdok/hexgrid/hexagon"
)

// LayerSource is a Source for the hexagons of a generated layer.
type LayerSource struct {
	Layer *hexagon.Layer
}

func (s LayerSource) ReadFeatures(features chan<- Feature) {
	for i := range s.Layer.Hexagons {
		features <- hexagonFeature{&s.Layer.Hexagons[i]}
	}
	close(features)
}

type hexagonFeature struct {
	h *hexagon.Hexagon
}

// Columns follows HexagonSchema
func (f hexagonFeature) Columns() []interface{} {
	var zkey interface{}
	if z, ok := f.h.ZKey(); ok {
		zkey = int64(z)
	}
	return []interface{}{
		int64(f.h.ID),
		f.h.Size,
		int64(f.h.Col),
		int64(f.h.Row),
		zkey,
		f.h.UID.String(),
	}
}

func (f hexagonFeature) Geometry() geom.Geometry {
	return f.h.Polygon()
}
