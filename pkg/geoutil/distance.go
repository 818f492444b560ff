package geoutil

import "math"

// EarthRadiusKm is the mean sphere radius used for great-circle distances.
const EarthRadiusKm = 6372.8

// Distance returns the great-circle distance in kilometers between two
// points given in degrees, computed with the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// WithinBounds reports whether two points fall inside the same rectangular
// window of diff degrees on both axes. It is a cheap pre-filter in front of
// Distance.
func WithinBounds(lat1, lon1, lat2, lon2, diff float64) bool {
	return math.Abs(lat1-lat2) < diff && math.Abs(lon1-lon2) < diff
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
