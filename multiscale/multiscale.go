// Package multiscale generates and writes one hexagon layer per requested size.
package multiscale

import (
	"fmt"
	"log"
	"strconv"

	"github.com/pdok/hexgrid/geomhelp"
	"github.com/pdok/hexgrid/hexagon"
	"github.com/pdok/hexgrid/mathhelp"
	"github.com/pdok/hexgrid/processing"
)

const (
	DefaultPrefix = "hex"

	// max length of geometries in log lines
	logWktLength = 120
)

type Options struct {
	Extent      hexagon.Extent
	Sizes       []float64
	Orientation hexagon.Orientation
	// Prefix of the layer names, DefaultPrefix when empty
	Prefix string
}

// LayerInfo identifies one layer of a run
type LayerInfo struct {
	// Index is the position of the size in Options.Sizes
	Index int
	Size  float64
	// Name like hex_100, hex_12.5 or hex_100_1 for the second layer of size 100
	Name string
}

// OpenTargetFunc acquires the dataset a layer is written to. The target is closed by Run.
type OpenTargetFunc func(LayerInfo) (processing.Target, error)

type Result struct {
	LayerInfo
	Count  uint64
	Bounds hexagon.Extent
}

// SizeError tells which size of a run failed
type SizeError struct {
	Size  float64
	Index int
	Err   error
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("hexagon size %v (#%d): %v", e.Size, e.Index+1, e.Err)
}

func (e *SizeError) Unwrap() error {
	return e.Err
}

// Layers validates the sizes and names the layers, without generating anything.
func Layers(prefix string, sizes []float64) ([]LayerInfo, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: at least one hexagon size is required", hexagon.ErrInvalidInput)
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	seen := make(map[float64]int, len(sizes))
	layers := make([]LayerInfo, 0, len(sizes))
	for i, size := range sizes {
		if !(size > 0) || !mathhelp.IsFinite(size) {
			return nil, &SizeError{Size: size, Index: i,
				Err: fmt.Errorf("%w: hexagon size must be a positive number", hexagon.ErrInvalidInput)}
		}
		name := prefix + "_" + FormatSize(size)
		if n := seen[size]; n > 0 {
			name += "_" + strconv.Itoa(n)
		}
		seen[size]++
		layers = append(layers, LayerInfo{Index: i, Size: size, Name: name})
	}
	return layers, nil
}

// FormatSize gives the shortest decimal that reads back as the size, 100 or 12.5
func FormatSize(size float64) string {
	return strconv.FormatFloat(size, 'f', -1, 64)
}

// Run writes the layers strictly in the order of the sizes and stops at the first failure.
// Layers written before a failure are left as they are.
func Run(opts Options, open OpenTargetFunc) ([]Result, error) {
	if err := opts.Extent.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Orientation.Validate(); err != nil {
		return nil, err
	}
	layers, err := Layers(opts.Prefix, opts.Sizes)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(layers))
	for _, info := range layers {
		log.Printf("  generating %s", info.Name)
		result, err := runLayer(opts, info, open)
		if err != nil {
			return results, &SizeError{Size: info.Size, Index: info.Index, Err: err}
		}
		log.Printf("  finished %s: %d hexagons, bounds %s", info.Name, result.Count, result.Bounds)
		results = append(results, result)
	}
	return results, nil
}

func runLayer(opts Options, info LayerInfo, open OpenTargetFunc) (Result, error) {
	layer, err := hexagon.Generate(opts.Extent, info.Size, opts.Orientation)
	if err != nil {
		return Result{}, err
	}
	if layer.Len() > 0 {
		first := layer.Hexagons[0]
		log.Printf("    first hexagon: %s", geomhelp.WktMustEncode(first.Polygon(), logWktLength))
	}

	target, err := open(info)
	if err != nil {
		return Result{}, err
	}
	count, err := processing.WriteLayer(processing.LayerSource{Layer: layer}, target)
	closeErr := target.Close()
	if err != nil {
		return Result{}, err
	}
	if closeErr != nil {
		return Result{}, closeErr
	}
	return Result{LayerInfo: info, Count: count, Bounds: layer.Bounds()}, nil
}
