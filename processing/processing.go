// Package processing takes care of the logistics around streaming features into a Target.
// Not the generation of the features itself.
package processing

import (
	"errors"
	"log"

	"github.com/go-spatial/geom"
)

// ErrIOFailure is returned when an output dataset can not be created or written.
var ErrIOFailure = errors.New("i/o failure")

// WriteLayer streams all features of the source into the target
// and returns the number of features the target was offered.
func WriteLayer(source Source, target Target) (uint64, error) {
	featuresIn := make(chan Feature)
	featuresOut := make(chan Feature)

	go source.ReadFeatures(featuresIn)

	var count, polygonCount uint64
	go func() {
		for feature := range featuresIn {
			count++
			if _, ok := feature.Geometry().(geom.Polygon); ok {
				polygonCount++
			}
			featuresOut <- feature
		}
		close(featuresOut)
	}()

	err := target.WriteFeatures(featuresOut)
	// the target may have stopped early, drain so the source can finish
	for range featuresOut { //nolint:revive
	}
	if err != nil {
		return count, err
	}

	log.Printf("    total features: %d", count)
	if count != polygonCount {
		log.Printf("      non-polygons: %d", count-polygonCount)
	}
	return count, nil
}
