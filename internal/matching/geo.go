package matching

import (
	"math"
	"regexp"
	"strconv"
)

const earthRadiusKm = 6371

// Coordinates is a lat/lon pair in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// coordPattern matches the first "<float>,<float>" pair embedded in free
// text. Signs and decimal parts are optional.
var coordPattern = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)`)

// ParseLocation extracts literal coordinates from a free-text location
// string. Addresses without an embedded "lat,lon" pair yield nil; no
// geocoding happens here.
func ParseLocation(text string) *Coordinates {
	m := coordPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}
	return &Coordinates{Lat: lat, Lon: lon}
}

// DistanceKm returns the great-circle distance between two points using the
// Haversine formula.
func DistanceKm(a, b Coordinates) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
