package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/wanderflow/wanderflow/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// Positions are kept in EPSG:4326 (lng/lat degrees) everywhere in the engine, matching what
// map surfaces consume. EPSG:3857 is only used to measure distances.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ParseLngLat parses a string in the format "long,lat" into a position.
func ParseLngLat(coords string) (core.LngLat, error) {
	// split the string into its components
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) != 2 {
		return core.LngLat{}, ErrInvalidCoordinates
	}
	// parse the longitude
	lng, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return core.LngLat{}, ErrInvalidCoordinates
	}
	// parse the latitude
	lat, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return core.LngLat{}, ErrInvalidCoordinates
	}
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return core.LngLat{}, ErrInvalidCoordinates
	}
	return core.LngLat{Lng: lng, Lat: lat}, nil
}

// ToWebMercator projects a longitude and latitude to an EPSG:3857 point
func ToWebMercator(p core.LngLat) geom.Point {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(p.Lng, p.Lat, 0)
	return geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{X: x, Y: y},
		},
	)
}

// GroundDistance approximates the distance in meters between two positions.
// The mercator distance is scaled by the cosine of the mean latitude, which is
// accurate enough for the city-scale hops an itinerary animates.
func GroundDistance(a, b core.LngLat) float64 {
	pa, _ := ToWebMercator(a).Coordinates()
	pb, _ := ToWebMercator(b).Coordinates()
	projected := math.Hypot(pb.X-pa.X, pb.Y-pa.Y)
	meanLat := (a.Lat + b.Lat) / 2 * math.Pi / 180
	return projected * math.Cos(meanLat)
}
