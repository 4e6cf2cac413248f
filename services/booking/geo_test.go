package booking

import (
	"math"
	"testing"
)

func TestHaversineKmZeroDistance(t *testing.T) {
	p := Coordinates{Latitude: 52.5200, Longitude: 13.4050}
	if d := HaversineKm(p, p); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}
}

func TestHaversineKmOneDegreeLatitude(t *testing.T) {
	a := Coordinates{Latitude: 0, Longitude: 0}
	b := Coordinates{Latitude: 1, Longitude: 0}
	d := HaversineKm(a, b)
	// One degree of latitude is roughly 111.2 km on a 6371 km sphere.
	if math.Abs(d-111.19) > 0.1 {
		t.Errorf("one degree latitude = %f km, want ~111.19", d)
	}
}

func TestHaversineKmKnownCityPair(t *testing.T) {
	paris := Coordinates{Latitude: 48.8566, Longitude: 2.3522}
	london := Coordinates{Latitude: 51.5074, Longitude: -0.1278}
	d := HaversineKm(paris, london)
	if math.Abs(d-343.5) > 2 {
		t.Errorf("Paris-London = %f km, want ~343.5", d)
	}
}

func TestHaversineKmSymmetric(t *testing.T) {
	a := Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	b := Coordinates{Latitude: 34.0522, Longitude: -118.2437}
	if d1, d2 := HaversineKm(a, b), HaversineKm(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("asymmetric distances: %f vs %f", d1, d2)
	}
}

func TestHaversineKmShortRange(t *testing.T) {
	// Two points ~500 m apart; relevant to the proximity gate.
	a := Coordinates{Latitude: 52.52000, Longitude: 13.40500}
	b := Coordinates{Latitude: 52.52450, Longitude: 13.40500}
	d := HaversineKm(a, b)
	if d < 0.4 || d > 0.6 {
		t.Errorf("short range distance = %f km, want ~0.5", d)
	}
}
