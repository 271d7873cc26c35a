package multiscale

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/hexgrid/hexagon"
	"github.com/pdok/hexgrid/processing"
)

var errWrite = errors.New("write failed")

type fakeTarget struct {
	info   LayerInfo
	count  int
	fail   bool
	closed bool
}

func (f *fakeTarget) WriteFeatures(features <-chan processing.Feature) error {
	for range features {
		if f.fail {
			return errWrite
		}
		f.count++
	}
	return nil
}

func (f *fakeTarget) Close() error {
	f.closed = true
	return nil
}

type recorder struct {
	targets []*fakeTarget
	failAt  map[int]bool
	openErr map[int]error
}

func (r *recorder) open(info LayerInfo) (processing.Target, error) {
	if err := r.openErr[info.Index]; err != nil {
		return nil, err
	}
	t := &fakeTarget{info: info, fail: r.failAt[info.Index]}
	r.targets = append(r.targets, t)
	return t, nil
}

func testOptions(sizes ...float64) Options {
	return Options{
		Extent:      hexagon.Extent{0, 0, 1000, 800},
		Sizes:       sizes,
		Orientation: hexagon.FlatTop,
	}
}

func TestRun(t *testing.T) {
	r := &recorder{}
	results, err := Run(testOptions(200, 50, 100), r.open)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Len(t, r.targets, 3)

	for i, size := range []float64{200, 50, 100} {
		assert.Equal(t, i, results[i].Index)
		assert.Equal(t, size, results[i].Size)
		assert.Equal(t, size, r.targets[i].info.Size)
		assert.True(t, r.targets[i].closed)
		assert.Equal(t, uint64(r.targets[i].count), results[i].Count)
		assert.Positive(t, results[i].Count)
	}
	assert.Equal(t, "hex_200", results[0].Name)
	assert.Equal(t, "hex_50", results[1].Name)
	assert.Equal(t, "hex_100", results[2].Name)
	assert.Less(t, results[0].Count, results[2].Count)
	assert.Less(t, results[2].Count, results[1].Count)
}

func TestRunDuplicates(t *testing.T) {
	r := &recorder{}
	opts := testOptions(100, 100)
	opts.Prefix = "grid"
	results, err := Run(opts, r.open)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "grid_100", results[0].Name)
	assert.Equal(t, "grid_100_1", results[1].Name)
	assert.Equal(t, results[0].Count, results[1].Count)
}

func TestRunFailFast(t *testing.T) {
	tests := map[string]struct {
		recorder  *recorder
		wantIndex int
		wantErr   error
		opened    int
	}{
		"write fails": {
			recorder:  &recorder{failAt: map[int]bool{1: true}},
			wantIndex: 1,
			wantErr:   errWrite,
			opened:    2,
		},
		"open fails": {
			recorder:  &recorder{openErr: map[int]error{0: processing.ErrIOFailure}},
			wantIndex: 0,
			wantErr:   processing.ErrIOFailure,
			opened:    0,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			results, err := Run(testOptions(200, 100, 50), tt.recorder.open)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var sizeErr *SizeError
			require.ErrorAs(t, err, &sizeErr)
			assert.Equal(t, tt.wantIndex, sizeErr.Index)
			assert.Len(t, results, tt.wantIndex)
			require.Len(t, tt.recorder.targets, tt.opened)
			for _, target := range tt.recorder.targets {
				assert.True(t, target.closed)
			}
		})
	}
}

func TestRunValidatesUpFront(t *testing.T) {
	tests := map[string]struct {
		opts Options
	}{
		"zero size":      {opts: testOptions(100, 0)},
		"negative size":  {opts: testOptions(-5, 100)},
		"no sizes":       {opts: testOptions()},
		"bad extent":     {opts: Options{Extent: hexagon.Extent{10, 0, 0, 10}, Sizes: []float64{1}, Orientation: hexagon.FlatTop}},
		"bad orient":     {opts: Options{Extent: hexagon.Extent{0, 0, 10, 10}, Sizes: []float64{1}, Orientation: "round"}},
		"too many cells": {opts: testOptions(100, 0.001)},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := &recorder{}
			_, err := Run(tt.opts, r.open)
			assert.ErrorIs(t, err, hexagon.ErrInvalidInput)
			if name != "too many cells" {
				assert.Empty(t, r.targets)
			}
		})
	}
}

func TestSizeError(t *testing.T) {
	_, err := Layers("hex", []float64{100, 0})
	var sizeErr *SizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, 1, sizeErr.Index)
	assert.Equal(t, 0.0, sizeErr.Size)
	assert.Contains(t, err.Error(), "hexagon size 0 (#2)")
}

func TestFormatSize(t *testing.T) {
	tests := map[float64]string{
		100:    "100",
		12.5:   "12.5",
		0.1:    "0.1",
		1e6:    "1000000",
		2500.0: "2500",
	}
	for size, want := range tests {
		assert.Equal(t, want, FormatSize(size))
	}
}
