// Package geodist provides great-circle distance primitives and the static
// reference geography used for proximity features.
package geodist

import (
	"math"

	"github.com/twpayne/go-geom"
)

// EarthRadiusKM is the mean earth radius used by the spherical approximation.
const EarthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance in kilometers between two
// (latitude, longitude) pairs. Invalid (NaN) coordinates propagate as NaN;
// callers downstream of feature engineering must guard against them.
func HaversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * EarthRadiusKM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceToKM returns the distance from (lat, lng) to a reference point.
// Coords follow go-geom ordering: X is longitude, Y is latitude.
func DistanceToKM(lat, lng float64, p geom.Coord) float64 {
	return HaversineKM(lat, lng, p.Y(), p.X())
}

// NearestKM returns the minimum distance from (lat, lng) to any point in the
// set. Used where a single fixed point is not representative of a corridor
// (metro network, river, coastline modeled as discrete points). An empty set
// yields NaN.
func NearestKM(lat, lng float64, set []geom.Coord) float64 {
	min := math.NaN()
	for _, p := range set {
		d := HaversineKM(lat, lng, p.Y(), p.X())
		if math.IsNaN(min) || d < min {
			min = d
		}
	}
	return min
}
