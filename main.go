package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/iancoleman/strcase"
	"github.com/urfave/cli/v2"

	"github.com/pdok/hexgrid/config"
	"github.com/pdok/hexgrid/hexagon"
	"github.com/pdok/hexgrid/mathhelp"
	"github.com/pdok/hexgrid/multiscale"
	"github.com/pdok/hexgrid/processing"
	"github.com/pdok/hexgrid/processing/geojson"
	"github.com/pdok/hexgrid/processing/gpkg"
	"github.com/pdok/hexgrid/processing/shp"
	"github.com/pdok/hexgrid/srs"
)

const CONFIG string = `config`
const EXTENT string = `extent`
const SIZES string = `sizes`
const ORIENTATION string = `orientation`
const OUTPUTDIRECTORY string = `outputDirectory`
const CRS string = `crs`
const LONLAT string = `lonlat`
const FORMAT string = `format`
const NAME string = `name`
const OVERWRITE string = `overwrite`
const PAGESIZE string = `pagesize`

//nolint:funlen
func main() {
	app := cli.NewApp()
	app.Name = "hexgrid"
	app.Usage = "A Golang multi-scale hexagon grid generator"
	app.Version = versioninfo.Short()

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    CONFIG,
			Aliases: []string{"c"},
			Usage:   "YAML config file. Flags that are set override its values",
			EnvVars: []string{strcase.ToScreamingSnake(CONFIG)},
		},
		&cli.StringFlag{
			Name:    EXTENT,
			Aliases: []string{"e"},
			Usage:   `Extent to cover. JSON array [minX,minY,maxX,maxY]. E.g.: [120000,480000,130000,490000]`,
			EnvVars: []string{strcase.ToScreamingSnake(EXTENT)},
		},
		&cli.StringFlag{
			Name:    SIZES,
			Aliases: []string{"s"},
			Usage:   `Hexagon sizes (edge length) in metres, one output per size. JSON array of numbers. E.g.: [20,50,100,200]`,
			EnvVars: []string{strcase.ToScreamingSnake(SIZES)},
		},
		&cli.StringFlag{
			Name:    ORIENTATION,
			Aliases: []string{"r"},
			Usage:   "flat-top or pointy-top",
			Value:   string(hexagon.FlatTop),
			EnvVars: []string{strcase.ToScreamingSnake(ORIENTATION)},
		},
		&cli.StringFlag{
			Name:    OUTPUTDIRECTORY,
			Aliases: []string{"o"},
			Usage:   "Directory the datasets are written to, created when missing",
			Value:   ".",
			EnvVars: []string{strcase.ToScreamingSnake(OUTPUTDIRECTORY)},
		},
		&cli.StringFlag{
			Name:    CRS,
			Usage:   `Projected CRS of the extent. E.g.: EPSG:28992 or urn:ogc:def:crs:EPSG::32656`,
			EnvVars: []string{strcase.ToScreamingSnake(CRS)},
		},
		&cli.BoolFlag{
			Name:    LONLAT,
			Aliases: []string{"l"},
			Usage:   "The extent holds two WGS 84 lon/lat corners, the hexagons are made in the UTM zone of the upper right one",
			EnvVars: []string{strcase.ToScreamingSnake(LONLAT)},
		},
		&cli.StringFlag{
			Name:    FORMAT,
			Aliases: []string{"f"},
			Usage:   "Output format: gpkg, shp or geojson",
			Value:   string(config.GeoPackage),
			EnvVars: []string{strcase.ToScreamingSnake(FORMAT)},
		},
		&cli.StringFlag{
			Name:    NAME,
			Aliases: []string{"n"},
			Usage:   "Name prefix of the datasets. The size is appended. E.g.: hex_100.gpkg",
			Value:   multiscale.DefaultPrefix,
			EnvVars: []string{strcase.ToScreamingSnake(NAME)},
		},
		&cli.BoolFlag{
			Name:    OVERWRITE,
			Aliases: []string{"w"},
			Usage:   "Overwrite a target dataset if it exists",
			EnvVars: []string{strcase.ToScreamingSnake(OVERWRITE)},
		},
		&cli.IntFlag{
			Name:    PAGESIZE,
			Aliases: []string{"p"},
			Usage:   "Page Size, how many features are written per transaction to a target GPKG",
			Value:   gpkg.DefaultPageSize,
			EnvVars: []string{strcase.ToScreamingSnake(PAGESIZE)},
		},
	}

	app.Action = func(c *cli.Context) error {
		cfg, err := configFromContext(c)
		if err != nil {
			return err
		}
		_, err = run(cfg)
		return err
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

// flagSetter is the part of cli.Context needed to merge flags into a config
type flagSetter interface {
	IsSet(name string) bool
	String(name string) string
	Bool(name string) bool
	Int(name string) int
}

func configFromContext(c flagSetter) (*config.Config, error) {
	cfg := config.New()
	if c.IsSet(CONFIG) {
		var err error
		if cfg, err = config.Load(c.String(CONFIG)); err != nil {
			return nil, err
		}
	}

	if c.IsSet(EXTENT) {
		if err := json.Unmarshal([]byte(c.String(EXTENT)), &cfg.Extent); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", hexagon.ErrInvalidInput, EXTENT, err)
		}
	}
	if c.IsSet(SIZES) {
		if err := json.Unmarshal([]byte(c.String(SIZES)), &cfg.Sizes); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", hexagon.ErrInvalidInput, SIZES, err)
		}
	}
	if c.IsSet(FORMAT) {
		format, err := config.ParseFormat(c.String(FORMAT))
		if err != nil {
			return nil, err
		}
		cfg.Format = format
	}
	if c.IsSet(ORIENTATION) {
		cfg.Orientation = c.String(ORIENTATION)
	}
	if c.IsSet(OUTPUTDIRECTORY) {
		cfg.OutputDirectory = c.String(OUTPUTDIRECTORY)
	}
	if c.IsSet(CRS) {
		cfg.CRS = c.String(CRS)
	}
	if c.IsSet(LONLAT) {
		cfg.LonLat = c.Bool(LONLAT)
	}
	if c.IsSet(NAME) {
		cfg.Name = c.String(NAME)
	}
	if c.IsSet(OVERWRITE) {
		cfg.Overwrite = c.Bool(OVERWRITE)
	}
	if c.IsSet(PAGESIZE) {
		cfg.PageSize = c.Int(PAGESIZE)
	}
	return cfg, cfg.Validate()
}

func run(cfg *config.Config) ([]multiscale.Result, error) {
	extent, crs, err := resolveExtent(cfg)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(cfg.OutputDirectory, 0o755); err != nil {
		return nil, processing.IOFailure(err, "could not create output directory")
	}

	log.Println("=== start generating ===")
	log.Printf("  extent %s in %s", extent, crs)

	opts := multiscale.Options{
		Extent:      extent,
		Sizes:       cfg.Sizes,
		Orientation: cfg.HexagonOrientation(),
		Prefix:      cfg.Name,
	}
	results, err := multiscale.Run(opts, func(info multiscale.LayerInfo) (processing.Target, error) {
		return openTarget(cfg, crs, info)
	})
	if err != nil {
		return results, err
	}

	log.Println("=== done generating ===")
	for _, r := range results {
		log.Printf("  %s: %d hexagons", processing.OutputPath(cfg.OutputDirectory, r.Name, extension(cfg.Format)), r.Count)
	}
	return results, nil
}

// resolveExtent returns the planar extent and its CRS.
// Lon/lat corners are projected into the UTM zone of the upper right corner.
func resolveExtent(cfg *config.Config) (hexagon.Extent, *srs.SpatialReferenceSystem, error) {
	e := cfg.Extent
	if len(e) != 4 {
		return hexagon.Extent{}, nil, fmt.Errorf("%w: extent needs 4 numbers, got %d", hexagon.ErrInvalidInput, len(e))
	}
	if !cfg.LonLat {
		crs, err := srs.Resolve(cfg.CRS)
		if err != nil {
			return hexagon.Extent{}, nil, err
		}
		extent := hexagon.Extent{e[0], e[1], e[2], e[3]}
		return extent, crs, extent.Validate()
	}

	_, maxLon := mathhelp.MinMax(e[0], e[2])
	_, maxLat := mathhelp.MinMax(e[1], e[3])
	crs, err := srs.ForLonLat(maxLon, maxLat)
	if err != nil {
		return hexagon.Extent{}, nil, err
	}
	a, err := crs.FromLonLat(e[0], e[1])
	if err != nil {
		return hexagon.Extent{}, nil, err
	}
	b, err := crs.FromLonLat(e[2], e[3])
	if err != nil {
		return hexagon.Extent{}, nil, err
	}
	extent := hexagon.NewExtentFromCorners(a, b)
	return extent, crs, extent.Validate()
}

func openTarget(cfg *config.Config, crs *srs.SpatialReferenceSystem, info multiscale.LayerInfo) (processing.Target, error) {
	layer := processing.LayerDescription{
		Name:   info.Name,
		Schema: processing.HexagonSchema(),
		SRS:    crs,
	}
	// no typed nil pointers in the returned interface
	switch cfg.Format {
	case config.Shapefile:
		target, err := shp.NewTarget(cfg.OutputDirectory, layer, cfg.Overwrite)
		if err != nil {
			return nil, err
		}
		return target, nil
	case config.GeoJSON:
		target, err := geojson.NewTarget(cfg.OutputDirectory, layer, cfg.Overwrite)
		if err != nil {
			return nil, err
		}
		return target, nil
	default:
		target, err := gpkg.NewTarget(cfg.OutputDirectory, layer, cfg.Overwrite, cfg.PageSize)
		if err != nil {
			return nil, err
		}
		return target, nil
	}
}

func extension(format config.Format) string {
	switch format {
	case config.Shapefile:
		return shp.Extension
	case config.GeoJSON:
		return geojson.Extension
	default:
		return gpkg.Extension
	}
}
