// Package config holds the settings of a hexgrid run, read from a YAML file and/or the command line.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pdok/hexgrid/hexagon"
)

type Format string

const (
	GeoPackage Format = "gpkg"
	Shapefile  Format = "shp"
	GeoJSON    Format = "geojson"
)

var Formats = []Format{GeoPackage, Shapefile, GeoJSON}

type Config struct {
	// [minX, minY, maxX, maxY], or two lon/lat corners in any order when LonLat is set
	Extent []float64 `yaml:"extent" validate:"required,len=4"`
	// hexagon sizes (edge length) in metres, one layer each. The values are
	// checked by multiscale.Layers, which names the failing size.
	Sizes       []float64 `yaml:"sizes" validate:"required,min=1"`
	Orientation string    `yaml:"orientation" default:"flat-top" validate:"required"`

	OutputDirectory string `yaml:"outputDirectory" default:"." validate:"required"`
	// projected CRS of the extent, like EPSG:28992
	CRS    string `yaml:"crs" validate:"required_without=LonLat"`
	LonLat bool   `yaml:"lonlat"`

	Format    Format `yaml:"format" default:"gpkg" validate:"oneof=gpkg shp geojson"`
	Name      string `yaml:"name" default:"hex" validate:"required,excludesall=/\\"`
	Overwrite bool   `yaml:"overwrite"`
	// features per GeoPackage transaction
	PageSize int `yaml:"pagesize" default:"1000" validate:"gt=0"`
}

// New returns a Config with all defaults set
func New() *Config {
	c := &Config{}
	_ = defaults.Set(c) // static tags, can not fail
	return c
}

// Load reads a YAML config file. Unknown keys are an error, missing keys get their default.
// The result is not validated yet, flags may still complete it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	c := New()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: config: %v", hexagon.ErrInvalidInput, err)
	}
	return c, nil
}

// Validate checks the complete configuration, failures are an hexagon.ErrInvalidInput
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: config: %v", hexagon.ErrInvalidInput, err)
	}
	if _, err := hexagon.ParseOrientation(c.Orientation); err != nil {
		return err
	}
	if c.LonLat && c.CRS != "" {
		return fmt.Errorf("%w: config: crs and lonlat exclude each other, with lonlat the UTM zone is the crs", hexagon.ErrInvalidInput)
	}
	return nil
}

func (c *Config) HexagonOrientation() hexagon.Orientation {
	o, err := hexagon.ParseOrientation(c.Orientation)
	if err != nil {
		return hexagon.FlatTop
	}
	return o
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown format %q, expected one of %v", hexagon.ErrInvalidInput, s, Formats)
}
