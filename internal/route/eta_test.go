package route

import "testing"

func TestOrderByNearestNeighbor(t *testing.T) {
	stops := []Stop{
		{ID: "far", Lat: 10.90, Lng: 106.80},
		{ID: "near", Lat: 10.77, Lng: 106.67},
		{ID: "mid", Lat: 10.82, Lng: 106.72},
	}

	ordered := OrderByNearestNeighbor(stops, 10.762, 106.660)
	if len(ordered) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(ordered))
	}
	if ordered[0].ID != "near" || ordered[1].ID != "mid" || ordered[2].ID != "far" {
		t.Fatalf("unexpected order: %s %s %s", ordered[0].ID, ordered[1].ID, ordered[2].ID)
	}

	// Input slice untouched.
	if stops[0].ID != "far" {
		t.Fatalf("input slice was reordered")
	}
}

func TestOrderByNearestNeighborEmpty(t *testing.T) {
	if got := OrderByNearestNeighbor(nil, 0, 0); len(got) != 0 {
		t.Fatalf("expected empty result")
	}
}

func TestEstimateDurationMinutes(t *testing.T) {
	if d := EstimateDurationMinutes([]Stop{{Lat: 10, Lng: 106}}); d != 0 {
		t.Fatalf("single stop should be zero, got %d", d)
	}

	// Two stops ~11 km apart: 11/30*60 ≈ 22 min travel + 2 min dwell.
	stops := []Stop{
		{Lat: 10.762, Lng: 106.660},
		{Lat: 10.862, Lng: 106.660},
	}
	d := EstimateDurationMinutes(stops)
	if d < 20 || d > 30 {
		t.Fatalf("unexpected duration: %d", d)
	}
}

func TestEstimateETAMinutes(t *testing.T) {
	stops := []Stop{
		{ID: "s1", Lat: 10.80, Lng: 106.660},
		{ID: "s2", Lat: 10.85, Lng: 106.660},
	}

	// ~4.2 km to s1 at 30 km/h ≈ 8.5 min.
	eta := EstimateETAMinutes(10.762, 106.660, 30, stops, "s1")
	if eta < 6 || eta > 12 {
		t.Fatalf("unexpected eta to s1: %v", eta)
	}

	// Target further along the route accumulates distance via s1.
	etaFar := EstimateETAMinutes(10.762, 106.660, 30, stops, "s2")
	if etaFar <= eta {
		t.Fatalf("eta to s2 should exceed eta to s1: %v <= %v", etaFar, eta)
	}

	// Implausibly low speed falls back to the city average rather than
	// producing a runaway ETA.
	etaSlow := EstimateETAMinutes(10.762, 106.660, 0.5, stops, "s1")
	if etaSlow != eta {
		t.Fatalf("expected fallback speed eta %v, got %v", eta, etaSlow)
	}
}
