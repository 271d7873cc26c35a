package main

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/hexgrid/config"
	"github.com/pdok/hexgrid/hexagon"
	"github.com/pdok/hexgrid/multiscale"
	"github.com/pdok/hexgrid/processing"
	"github.com/pdok/hexgrid/srs"
)

type flags map[string]string

func (f flags) IsSet(name string) bool {
	_, ok := f[name]
	return ok
}

func (f flags) String(name string) string {
	return f[name]
}

func (f flags) Bool(name string) bool {
	b, _ := strconv.ParseBool(f[name])
	return b
}

func (f flags) Int(name string) int {
	i, _ := strconv.Atoi(f[name])
	return i
}

func TestConfigFromContext(t *testing.T) {
	file := filepath.Join(t.TempDir(), "hexgrid.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
extent: [0, 0, 1000, 1000]
sizes: [100]
crs: EPSG:28992
name: grid
`), 0o600))

	tests := map[string]struct {
		flags   flags
		check   func(t *testing.T, cfg *config.Config)
		wantErr bool
	}{
		"flags only": {
			flags: flags{EXTENT: "[1,2,11,7]", SIZES: "[2, 3.5]", CRS: "EPSG:28992", FORMAT: "SHP", PAGESIZE: "10", OVERWRITE: "true"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, []float64{1, 2, 11, 7}, cfg.Extent)
				assert.Equal(t, []float64{2, 3.5}, cfg.Sizes)
				assert.Equal(t, config.Shapefile, cfg.Format)
				assert.Equal(t, 10, cfg.PageSize)
				assert.True(t, cfg.Overwrite)
				assert.Equal(t, "hex", cfg.Name)
			},
		},
		"config file": {
			flags: flags{CONFIG: file},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, []float64{100}, cfg.Sizes)
				assert.Equal(t, "grid", cfg.Name)
				assert.Equal(t, config.GeoPackage, cfg.Format)
			},
		},
		"flags override config file": {
			flags: flags{CONFIG: file, SIZES: "[20,50]", NAME: "cells", ORIENTATION: "pointy-top"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, []float64{20, 50}, cfg.Sizes)
				assert.Equal(t, "cells", cfg.Name)
				assert.Equal(t, hexagon.PointyTop, cfg.HexagonOrientation())
				assert.Equal(t, "EPSG:28992", cfg.CRS)
			},
		},
		"bad json":       {flags: flags{EXTENT: "[1,2,", SIZES: "[1]", CRS: "EPSG:28992"}, wantErr: true},
		"missing sizes":  {flags: flags{EXTENT: "[1,2,11,7]", CRS: "EPSG:28992"}, wantErr: true},
		"unknown format": {flags: flags{EXTENT: "[1,2,11,7]", SIZES: "[1]", CRS: "EPSG:28992", FORMAT: "kml"}, wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := configFromContext(tt.flags)
			if tt.wantErr {
				assert.ErrorIs(t, err, hexagon.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestResolveExtent(t *testing.T) {
	cfg := config.New()
	cfg.Extent = []float64{120000, 480000, 121000, 481000}
	cfg.CRS = "urn:ogc:def:crs:EPSG::28992"
	extent, crs, err := resolveExtent(cfg)
	require.NoError(t, err)
	assert.Equal(t, hexagon.Extent{120000, 480000, 121000, 481000}, extent)
	assert.Equal(t, 28992, crs.Code)

	cfg.CRS = "EPSG:4326"
	_, _, err = resolveExtent(cfg)
	assert.ErrorIs(t, err, srs.ErrUnsupportedCRS)

	cfg.CRS = "EPSG:28992"
	cfg.Extent = []float64{121000, 480000, 120000, 481000}
	_, _, err = resolveExtent(cfg)
	assert.ErrorIs(t, err, hexagon.ErrInvalidInput)
}

func TestResolveExtentLonLat(t *testing.T) {
	cfg := config.New()
	cfg.LonLat = true
	// corners in any order
	cfg.Extent = []float64{153.140228, -27.365941, 152.955269, -27.541362}
	extent, crs, err := resolveExtent(cfg)
	require.NoError(t, err)
	assert.Equal(t, 32756, crs.Code)
	assert.InDelta(t, 513900, extent.MaxX(), 1500)
	assert.InDelta(t, 6972700, extent.MaxY(), 3000)
	assert.InDelta(t, 18300, extent.XSpan(), 1000)
	assert.InDelta(t, 19450, extent.YSpan(), 1000)
	assert.Less(t, extent.MinY(), extent.MaxY())
}

func TestRun(t *testing.T) {
	for _, format := range config.Formats {
		t.Run(string(format), func(t *testing.T) {
			cfg := config.New()
			cfg.Extent = []float64{120000, 480000, 121000, 480800}
			cfg.Sizes = []float64{200, 100, 200}
			cfg.CRS = "EPSG:28992"
			cfg.Format = format
			cfg.OutputDirectory = filepath.Join(t.TempDir(), "out")
			require.NoError(t, cfg.Validate())

			results, err := run(cfg)
			require.NoError(t, err)
			require.Len(t, results, 3)
			for _, name := range []string{"hex_200", "hex_100", "hex_200_1"} {
				_, err := os.Stat(processing.OutputPath(cfg.OutputDirectory, name, extension(format)))
				assert.NoError(t, err, name)
			}
			assert.Equal(t, results[0].Count, results[2].Count)
			assert.Less(t, results[0].Count, results[1].Count)

			// second run without overwrite stops at the first size
			_, err = run(cfg)
			assert.ErrorIs(t, err, processing.ErrIOFailure)
			var sizeErr *multiscale.SizeError
			require.ErrorAs(t, err, &sizeErr)
			assert.Equal(t, 0, sizeErr.Index)
			assert.Equal(t, 200.0, sizeErr.Size)

			cfg.Overwrite = true
			_, err = run(cfg)
			assert.NoError(t, err)
		})
	}
}

func TestRunNamesInvalidSize(t *testing.T) {
	cfg, err := configFromContext(flags{EXTENT: "[0,0,1000,1000]", SIZES: "[100, 0]", CRS: "EPSG:28992"})
	require.NoError(t, err)
	cfg.OutputDirectory = t.TempDir()

	_, err = run(cfg)
	require.ErrorIs(t, err, hexagon.ErrInvalidInput)
	var sizeErr *multiscale.SizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, 1, sizeErr.Index)
	assert.Equal(t, 0.0, sizeErr.Size)
	assert.Contains(t, err.Error(), "hexagon size 0 (#2)")

	// validated before the first layer is written
	entries, err := os.ReadDir(cfg.OutputDirectory)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
