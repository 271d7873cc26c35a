// Package srs resolves the projected coordinate reference system the hexagons are generated in.
// Definitions come from embedded JSON files, WGS 84 / UTM zones are generated.
package srs

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/perimeterx/marshmallow"
)

// ErrUnsupportedCRS is returned when an identifier can not be resolved to a projected CRS.
var ErrUnsupportedCRS = errors.New("unsupported coordinate reference system")

const EPSG = "EPSG"

var (
	//go:embed definitions/*.json
	embeddedDefinitionsFS    embed.FS
	embeddedDefinitionsCache = make(map[int]*SpatialReferenceSystem)
)

var (
	crsURIRegexURL   = regexp.MustCompile("^https?://.+/def/crs/(?P<authority>[^/]+)/[^/]+/(?P<code>[^/]+)$")
	crsURIRegexURN   = regexp.MustCompile("^urn:ogc:def:crs:(?P<authority>[^:]+):[^:]*:(?P<code>[^:]+)$")
	crsURIRegexShort = regexp.MustCompile("^(?P<authority>[A-Za-z]+):(?P<code>[0-9]+)$")
)

// SpatialReferenceSystem is a definition of a coordinate reference system
// with everything the output formats need to describe it.
type SpatialReferenceSystem struct {
	// Authority, like EPSG
	Authority string `validate:"required" json:"-"`
	// Code given by the authority
	Code int `validate:"required,gt=0" json:"-"`
	// Name of the CRS, normally used for display to a human
	Name string `validate:"required" json:"name"`
	// Brief narrative description
	Description string `json:"description,omitempty"`
	// Whether the coordinates are planar, geographic systems are not supported for generating hexagons
	Projected bool `json:"projected"`
	// Unit of the coordinates
	Units string `default:"metre" validate:"required" json:"units"`
	// Area of use in WGS 84 (minLon, minLat, maxLon, maxLat)
	AreaOfUse []float64 `validate:"omitempty,len=4" json:"areaOfUse,omitempty"`
	// OGC WKT 1 definition, also used for the Shapefile .prj
	WKT string `validate:"required,startswith=PROJCS|startswith=GEOGCS" json:"wkt"`
	// PROJ.4 definition, used for transformations
	Proj4 string `validate:"omitempty,startswith=+proj" json:"proj4,omitempty"`
}

func (srs *SpatialReferenceSystem) UnmarshalJSON(data []byte) error {
	err := defaults.Set(srs)
	if err != nil {
		return err
	}

	specials, err := marshmallow.Unmarshal(data, srs, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}

	rawURI, ok := specials["uri"]
	if !ok {
		return fmt.Errorf(`missing key "uri"`)
	}
	uri, ok := rawURI.(string)
	if !ok {
		return fmt.Errorf(`uri property is not a string but a %T`, rawURI)
	}
	srs.Authority, srs.Code, err = ParseIdentifier(uri)
	if err != nil {
		return err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(srs)
}

func (srs *SpatialReferenceSystem) MarshalJSON() ([]byte, error) {
	type plain SpatialReferenceSystem // no MarshalJSON, prevents recursion
	return json.Marshal(struct {
		URI string `json:"uri"`
		plain
	}{
		URI:   srs.URI(),
		plain: plain(*srs),
	})
}

// Identifier like EPSG:28992
func (srs *SpatialReferenceSystem) Identifier() string {
	return srs.Authority + ":" + strconv.Itoa(srs.Code)
}

// URI like http://www.opengis.net/def/crs/EPSG/0/28992
func (srs *SpatialReferenceSystem) URI() string {
	return "http://www.opengis.net/def/crs/" + srs.Authority + "/0/" + strconv.Itoa(srs.Code)
}

// URN like urn:ogc:def:crs:EPSG::28992
func (srs *SpatialReferenceSystem) URN() string {
	return "urn:ogc:def:crs:" + srs.Authority + "::" + strconv.Itoa(srs.Code)
}

func (srs *SpatialReferenceSystem) String() string {
	return srs.Identifier() + " (" + srs.Name + ")"
}

// ParseIdentifier accepts EPSG:28992, a bare code, an OGC URN or an OGC URI.
func ParseIdentifier(id string) (authority string, code int, err error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", 0, fmt.Errorf("%w: no crs given", ErrUnsupportedCRS)
	}
	if c, err := strconv.Atoi(id); err == nil {
		return checkIdentifier(EPSG, c, id)
	}
	for _, re := range []*regexp.Regexp{crsURIRegexURL, crsURIRegexURN, crsURIRegexShort} {
		parts := re.FindStringSubmatch(id)
		if parts == nil {
			continue
		}
		c, err := strconv.Atoi(parts[re.SubexpIndex("code")])
		if err != nil {
			return "", 0, fmt.Errorf("%w: crs code in %q is not a number", ErrUnsupportedCRS, id)
		}
		return checkIdentifier(strings.ToUpper(parts[re.SubexpIndex("authority")]), c, id)
	}
	return "", 0, fmt.Errorf("%w: could not parse crs %q", ErrUnsupportedCRS, id)
}

func checkIdentifier(authority string, code int, id string) (string, int, error) {
	if authority != EPSG {
		return "", 0, fmt.Errorf("%w: only EPSG codes are supported, got %q", ErrUnsupportedCRS, id)
	}
	if code <= 0 {
		return "", 0, fmt.Errorf("%w: invalid crs code in %q", ErrUnsupportedCRS, id)
	}
	return authority, code, nil
}

// Resolve returns the projected CRS for the identifier, see ParseIdentifier.
func Resolve(id string) (*SpatialReferenceSystem, error) {
	_, code, err := ParseIdentifier(id)
	if err != nil {
		return nil, err
	}
	srs, err := lookup(code)
	if err != nil {
		return nil, err
	}
	if !srs.Projected {
		return nil, fmt.Errorf("%w: %v is not a projected crs, hexagon sizes are in metres", ErrUnsupportedCRS, srs)
	}
	return srs, nil
}

// Known returns the codes of the embedded definitions.
func Known() ([]int, error) {
	entries, err := embeddedDefinitionsFS.ReadDir("definitions")
	if err != nil {
		return nil, err
	}
	codes := make([]int, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(strings.TrimPrefix(e.Name(), EPSG+"_"), ".json")
		code, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func lookup(code int) (*SpatialReferenceSystem, error) {
	if zone, south, ok := utmZoneFromCode(code); ok {
		return NewUTM(zone, south)
	}
	return loadEmbeddedDefinition(code)
}

func loadEmbeddedDefinition(code int) (*SpatialReferenceSystem, error) {
	cached, ok := embeddedDefinitionsCache[code]
	if ok {
		return cached, nil
	}
	definitionJSON, err := embeddedDefinitionsFS.ReadFile("definitions/" + EPSG + "_" + strconv.Itoa(code) + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: no definition for %s:%d", ErrUnsupportedCRS, EPSG, code)
	}
	var srs SpatialReferenceSystem
	err = json.Unmarshal(definitionJSON, &srs)
	if err != nil {
		return nil, fmt.Errorf("%w: definition for %s:%d: %v", ErrUnsupportedCRS, EPSG, code, err)
	}
	if srs.Code != code {
		return nil, fmt.Errorf("%w: definition file for %s:%d describes %s", ErrUnsupportedCRS, EPSG, code, srs.Identifier())
	}
	embeddedDefinitionsCache[code] = &srs
	return &srs, nil
}
