package core

import (
	"math"
	"testing"

	"github.com/groundsight/orbitcam/model"
)

func TestGreatCircleIdenticalPointsExactlyZero(t *testing.T) {
	points := []model.GeoPoint{
		{LatDeg: 0, LonDeg: 0},
		{LatDeg: 31.8, LonDeg: 35.2},
		{LatDeg: -89.9, LonDeg: 179.9},
		{LatDeg: 51.6, LonDeg: -0.1, AltKm: 420},
	}
	for _, p := range points {
		if d := GreatCircleKm(p, p); d != 0 {
			t.Errorf("GreatCircleKm(%v, %v) = %v, want exactly 0", p, p, d)
		}
	}
}

func TestGreatCircleSymmetry(t *testing.T) {
	a := model.GeoPoint{LatDeg: 31.8, LonDeg: 35.2}
	b := model.GeoPoint{LatDeg: -12.5, LonDeg: 130.8}
	if d1, d2 := GreatCircleKm(a, b), GreatCircleKm(b, a); d1 != d2 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestGreatCircleKnownDistances(t *testing.T) {
	// One degree of longitude along the equator spans R*pi/180.
	a := model.GeoPoint{LatDeg: 0, LonDeg: 0}
	b := model.GeoPoint{LatDeg: 0, LonDeg: 1}
	want := EarthRadiusKm * math.Pi / 180
	if d := GreatCircleKm(a, b); math.Abs(d-want) > 0.01 {
		t.Errorf("equator degree = %v km, want %v", d, want)
	}

	// Antipodal points span half the circumference; the clamp keeps the
	// haversine residual from going NaN.
	c := model.GeoPoint{LatDeg: 0, LonDeg: 0}
	d := model.GeoPoint{LatDeg: 0, LonDeg: 180}
	want = EarthRadiusKm * math.Pi
	if got := GreatCircleKm(c, d); math.IsNaN(got) || math.Abs(got-want) > 0.01 {
		t.Errorf("antipodal distance = %v km, want %v", got, want)
	}
}

func TestGreatCircleAltitudeIgnored(t *testing.T) {
	a := model.GeoPoint{LatDeg: 10, LonDeg: 20, AltKm: 400}
	b := model.GeoPoint{LatDeg: 30, LonDeg: 40}
	if d1, d2 := GreatCircleKm(a, b), GreatCircleKm(a.GroundProjection(), b); d1 != d2 {
		t.Errorf("altitude affected ground distance: %v vs %v", d1, d2)
	}
}

func TestInitialBearingCardinalDirections(t *testing.T) {
	origin := model.GeoPoint{LatDeg: 0, LonDeg: 0}
	cases := []struct {
		name string
		to   model.GeoPoint
		want float64
	}{
		{"north", model.GeoPoint{LatDeg: 1, LonDeg: 0}, 0},
		{"east", model.GeoPoint{LatDeg: 0, LonDeg: 1}, 90},
		{"south", model.GeoPoint{LatDeg: -1, LonDeg: 0}, 180},
		{"west", model.GeoPoint{LatDeg: 0, LonDeg: -1}, 270},
	}
	for _, tc := range cases {
		if got := InitialBearingDeg(origin, tc.to); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s bearing = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestInitialBearingRange(t *testing.T) {
	points := []model.GeoPoint{
		{LatDeg: 0, LonDeg: 0},
		{LatDeg: 45, LonDeg: -120},
		{LatDeg: -60, LonDeg: 60},
		{LatDeg: 89, LonDeg: 179},
		{LatDeg: -89, LonDeg: -179},
	}
	for _, a := range points {
		for _, b := range points {
			got := InitialBearingDeg(a, b)
			if got < 0 || got >= 360 {
				t.Errorf("bearing %v -> %v = %v, want [0, 360)", a, b, got)
			}
		}
	}
}

func TestInitialBearingDegenerate(t *testing.T) {
	p := model.GeoPoint{LatDeg: 31.8, LonDeg: 35.2}
	if got := InitialBearingDeg(p, p); got != 0 {
		t.Errorf("coincident bearing = %v, want 0", got)
	}
}

func TestSlantRangeStraightUp(t *testing.T) {
	sat := model.GeoPoint{LatDeg: 10, LonDeg: 20, AltKm: 400}
	ground := model.GeoPoint{LatDeg: 10, LonDeg: 20}
	if d := SlantRangeKm(sat, ground); math.Abs(d-400) > 1e-9 {
		t.Errorf("vertical slant range = %v km, want 400", d)
	}
}

func TestSlantRangeVersusApproximation(t *testing.T) {
	sat := model.GeoPoint{LatDeg: 0, LonDeg: 0, AltKm: 400}
	ground := model.GeoPoint{LatDeg: 3, LonDeg: 3}

	exact := SlantRangeKm(sat, ground)
	approx := ApproxSlantRangeKm(sat, ground)

	// At a few hundred km of ground separation the flat shortcut stays
	// within a few percent of the Cartesian form, and never below it by
	// more than rounding.
	if exact <= 0 || approx <= 0 {
		t.Fatalf("non-positive ranges: exact=%v approx=%v", exact, approx)
	}
	if rel := math.Abs(exact-approx) / exact; rel > 0.05 {
		t.Errorf("approximation diverges by %.1f%% (exact=%v approx=%v)", rel*100, exact, approx)
	}
}

func TestDestinationPointRoundTrip(t *testing.T) {
	origin := model.GeoPoint{LatDeg: 40, LonDeg: -74}
	const bearing = 65.0
	const dist = 120.0

	dest := DestinationPoint(origin, bearing, dist)
	if d := GreatCircleKm(origin, dest); math.Abs(d-dist) > 0.01 {
		t.Errorf("distance to destination = %v km, want %v", d, dist)
	}
	if b := InitialBearingDeg(origin, dest); math.Abs(b-bearing) > 0.01 {
		t.Errorf("bearing to destination = %v, want %v", b, bearing)
	}
}

func TestLineOfSight(t *testing.T) {
	sat := model.GeoPoint{LatDeg: 0, LonDeg: 0, AltKm: 400}
	below := model.GeoPoint{LatDeg: 0, LonDeg: 0}
	if !LineOfSight(sat, below) {
		t.Errorf("expected clear line of sight straight down")
	}

	farSide := model.GeoPoint{LatDeg: 0, LonDeg: 180}
	if LineOfSight(sat, farSide) {
		t.Errorf("expected Earth to block the far side of the globe")
	}
}

func TestECEFRadius(t *testing.T) {
	p := model.GeoPoint{LatDeg: 37, LonDeg: -122, AltKm: 500}
	if r := ECEF(p).Norm(); math.Abs(r-(EarthRadiusKm+500)) > 1e-9 {
		t.Errorf("ECEF radius = %v, want %v", r, EarthRadiusKm+500)
	}
}
