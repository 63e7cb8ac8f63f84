package geo

import (
	"math"
	"net/url"
	"strconv"

	"github.com/rubiojr/petrolprice/pkg/api"
	"github.com/tkrajina/gpxgo/gpx"
)

const (
	metersPerKm        = 1000.0
	directionsEndpoint = "https://www.google.com/maps/dir/"
)

// DistanceKm returns the haversine distance between two points in kilometres.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	return gpx.Distance2D(lat1, lng1, lat2, lng2, true) / metersPerKm
}

// RoundKm rounds a distance to two decimal places.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// DirectionsURL builds a Google Maps directions link. Origin and destination
// are either "lat,lng" pairs or free-text addresses.
func DirectionsURL(origin, destination string) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", origin)
	q.Set("destination", destination)
	return directionsEndpoint + "?" + q.Encode()
}

// LatLng formats a coordinate pair for DirectionsURL.
func LatLng(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

// StationDirections returns the best available directions link for a
// station: suburb centre to station coordinates, then the backend link,
// then the searched suburb to the station address. Empty when none apply.
func StationDirections(s api.Station, origin api.SuburbCandidate) string {
	lat, lng, hasStation := s.Coordinates()
	cLat, cLng, hasCenter := s.Center()
	switch {
	case hasStation && hasCenter:
		return DirectionsURL(LatLng(cLat, cLng), LatLng(lat, lng))
	case s.MapsURL != "":
		return s.MapsURL
	case s.Address != "" && origin.Suburb != "":
		return DirectionsURL(origin.String(), s.Address)
	default:
		return ""
	}
}
