package calculator

import (
	"math"
)

// Mean earth radius in meters; map auto-zoom measures the point extent with it.
const earthRadius = 6371000.0

// toRadians converts degrees of latitude or longitude.
func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Haversine is the great-circle distance in meters between two coordinates
// given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lon1Rad := toRadians(lon1)
	lat2Rad := toRadians(lat2)
	lon2Rad := toRadians(lon2)

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// HaversineKm is Haversine in kilometers, the unit HubDist is stored in.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	return Haversine(lat1, lon1, lat2, lon2) / 1000
}
