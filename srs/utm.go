package srs

import (
	"fmt"
	"math"
	"strconv"
)

const (
	utmNorthBase = 32600
	utmSouthBase = 32700

	wgs84GeogCS = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AUTHORITY["EPSG","4326"]]`
	wgs84Proj4  = "+proj=longlat +datum=WGS84 +no_defs"
)

// NewUTM generates the definition of WGS 84 / UTM zone N (EPSG:326NN) or S (EPSG:327NN).
func NewUTM(zone int, south bool) (*SpatialReferenceSystem, error) {
	if zone < 1 || zone > 60 {
		return nil, fmt.Errorf("%w: utm zone must be between 1 and 60, got %d", ErrUnsupportedCRS, zone)
	}
	hemisphere, base, falseNorthing, proj4South := "N", utmNorthBase, 0, ""
	if south {
		hemisphere, base, falseNorthing, proj4South = "S", utmSouthBase, 10000000, " +south"
	}
	code := base + zone
	name := "WGS 84 / UTM zone " + strconv.Itoa(zone) + hemisphere
	centralMeridian := zone*6 - 183
	minLon := float64(centralMeridian - 3)
	areaOfUse := []float64{minLon, 0, minLon + 6, 84}
	if south {
		areaOfUse[1], areaOfUse[3] = -80, 0
	}

	return &SpatialReferenceSystem{
		Authority: EPSG,
		Code:      code,
		Name:      name,
		Projected: true,
		Units:     "metre",
		AreaOfUse: areaOfUse,
		WKT: fmt.Sprintf(`PROJCS["%s",%s,PROJECTION["Transverse_Mercator"],PARAMETER["latitude_of_origin",0],`+
			`PARAMETER["central_meridian",%d],PARAMETER["scale_factor",0.9996],PARAMETER["false_easting",500000],`+
			`PARAMETER["false_northing",%d],UNIT["metre",1,AUTHORITY["EPSG","9001"]],AXIS["Easting",EAST],`+
			`AXIS["Northing",NORTH],AUTHORITY["EPSG","%d"]]`, name, wgs84GeogCS, centralMeridian, falseNorthing, code),
		Proj4: fmt.Sprintf("+proj=utm +zone=%d%s +datum=WGS84 +units=m +no_defs", zone, proj4South),
	}, nil
}

func utmZoneFromCode(code int) (zone int, south bool, ok bool) {
	switch {
	case code > utmNorthBase && code <= utmNorthBase+60:
		return code - utmNorthBase, false, true
	case code > utmSouthBase && code <= utmSouthBase+60:
		return code - utmSouthBase, true, true
	}
	return 0, false, false
}

// UTMZone returns the zone number for a WGS 84 position,
// including the exceptions for south-west Norway and Svalbard.
func UTMZone(lon, lat float64) (int, error) {
	if math.IsNaN(lon) || math.IsNaN(lat) || lon < -180 || lon > 180 || lat < -80 || lat > 84 {
		return 0, fmt.Errorf("%w: position (lon %v, lat %v) is outside the UTM domain", ErrUnsupportedCRS, lon, lat)
	}
	if lon == 180 {
		lon = -180
	}
	zone := int(math.Floor((lon+180)/6)) + 1

	if lat >= 56 && lat < 64 && lon >= 3 && lon < 12 {
		return 32, nil
	}
	if lat >= 72 && lat <= 84 && lon >= 0 {
		switch {
		case lon < 9:
			return 31, nil
		case lon < 21:
			return 33, nil
		case lon < 33:
			return 35, nil
		case lon < 42:
			return 37, nil
		}
	}
	return zone, nil
}

// ForLonLat returns the UTM definition of the zone of a WGS 84 position.
// The northern hemisphere includes the equator.
func ForLonLat(lon, lat float64) (*SpatialReferenceSystem, error) {
	zone, err := UTMZone(lon, lat)
	if err != nil {
		return nil, err
	}
	return NewUTM(zone, lat < 0)
}
