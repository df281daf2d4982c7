package route

import "backend-schoolbus/internal/shared/geo"

// avgSpeedKmh is the assumed in-city travel speed when a live speed sample
// is unavailable or implausibly low.
const avgSpeedKmh = 30.0

// OrderByNearestNeighbor returns the stops reordered by a greedy
// nearest-neighbor walk from the start position. The input slice is not
// modified.
func OrderByNearestNeighbor(stops []Stop, startLat, startLng float64) []Stop {
	remaining := make([]Stop, len(stops))
	copy(remaining, stops)

	ordered := make([]Stop, 0, len(stops))
	curLat, curLng := startLat, startLng
	for len(remaining) > 0 {
		best := 0
		bestDist := geo.HaversineKm(curLat, curLng, remaining[0].Lat, remaining[0].Lng)
		for i := 1; i < len(remaining); i++ {
			if d := geo.HaversineKm(curLat, curLng, remaining[i].Lat, remaining[i].Lng); d < bestDist {
				best, bestDist = i, d
			}
		}
		next := remaining[best]
		ordered = append(ordered, next)
		remaining = append(remaining[:best], remaining[best+1:]...)
		curLat, curLng = next.Lat, next.Lng
	}
	return ordered
}

// EstimateDurationMinutes sums travel time between consecutive stops plus the
// per-stop dwell time.
func EstimateDurationMinutes(stops []Stop) int {
	if len(stops) < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < len(stops)-1; i++ {
		distKm := geo.HaversineKm(stops[i].Lat, stops[i].Lng, stops[i+1].Lat, stops[i+1].Lng)
		total += (distKm / avgSpeedKmh) * 60
		dwell := stops[i].StopDuration
		if dwell == 0 {
			dwell = 2
		}
		total += float64(dwell)
	}
	return int(total)
}

// EstimateETAMinutes estimates minutes from the current position to the target
// stop, travelling through any intermediate stops in order. speedKmh below a
// walking pace falls back to the city average.
func EstimateETAMinutes(curLat, curLng, speedKmh float64, remainingStops []Stop, targetStopID string) float64 {
	if speedKmh < 5 {
		speedKmh = avgSpeedKmh
	}

	totalKm := 0.0
	lat, lng := curLat, curLng
	for _, st := range remainingStops {
		totalKm += geo.HaversineKm(lat, lng, st.Lat, st.Lng)
		lat, lng = st.Lat, st.Lng
		if st.ID == targetStopID {
			break
		}
	}
	return (totalKm / speedKmh) * 60
}
