package geo

import (
	"github.com/wanderflow/wanderflow/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// DistanceProperty is the feature property holding the line's ground length in meters.
const DistanceProperty = "distance_m"

// StraightRoute builds a feature collection with a single two-point line from a to b.
func StraightRoute(a, b core.LngLat) geom.GeoJSONFeatureCollection {
	seq := geom.NewSequence([]float64{a.Lng, a.Lat, b.Lng, b.Lat}, geom.DimXY)
	ls := geom.NewLineString(seq)

	return geom.GeoJSONFeatureCollection{
		{
			Geometry: ls.AsGeometry(),
			Properties: map[string]interface{}{
				DistanceProperty: GroundDistance(a, b),
			},
		},
	}
}

// RouteEndpoints returns the first and last coordinates of the first line in a route.
func RouteEndpoints(route geom.GeoJSONFeatureCollection) (start, end core.LngLat, ok bool) {
	for _, feature := range route {
		ls, isLine := feature.Geometry.AsLineString()
		if !isLine || ls.IsEmpty() {
			continue
		}
		s, _ := ls.StartPoint().Coordinates()
		e, _ := ls.EndPoint().Coordinates()
		return core.LngLat{Lng: s.X, Lat: s.Y}, core.LngLat{Lng: e.X, Lat: e.Y}, true
	}
	return core.LngLat{}, core.LngLat{}, false
}
