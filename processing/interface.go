package processing

import (
	"github.com/go-spatial/geom"

	"github.com/pdok/hexgrid/srs"
)

type Feature interface {
	// Columns holds the attribute values, in the order of the layer's Schema.
	Columns() []interface{}
	Geometry() geom.Geometry
}

type Source interface {
	// ReadFeatures sends all features and closes the channel.
	ReadFeatures(chan<- Feature)
}

type Target interface {
	// WriteFeatures consumes features until the channel is closed or writing fails.
	WriteFeatures(<-chan Feature) error
	// Close releases the dataset. It is called on success and on failure.
	Close() error
}

// LayerDescription is what a Target needs to know before the first feature arrives.
type LayerDescription struct {
	// Name identifies the layer, it is used for the file and table names
	Name   string
	Schema *Schema
	SRS    *srs.SpatialReferenceSystem
}
