package geo

import "math"

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Asin(math.Sqrt(a))
	return earthRadiusKm * c
}

// BearingDeg returns the initial bearing from the first point to the second,
// in degrees clockwise from north [0, 360).
func BearingDeg(lat1, lng1, lat2, lng2 float64) float64 {
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	y := math.Sin(dLng) * math.Cos(rLat2)
	x := math.Cos(rLat1)*math.Sin(rLat2) - math.Sin(rLat1)*math.Cos(rLat2)*math.Cos(dLng)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}
