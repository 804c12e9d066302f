package core

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/groundsight/orbitcam/model"
)

// trackPropagator walks due east along the equator, one degree of
// longitude per minute, at a fixed altitude.
func trackPropagator(start time.Time) Propagator {
	return PropagatorFunc(func(t time.Time) (model.GeoPoint, error) {
		minutes := t.Sub(start).Minutes()
		return model.GeoPoint{LatDeg: 0, LonDeg: minutes, AltKm: 420}, nil
	})
}

func TestGenerateTargetsCountAndProjection(t *testing.T) {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	targets, err := GenerateTargets(trackPropagator(start), start, 5400*time.Second, 60*time.Second)
	if err != nil {
		t.Fatalf("GenerateTargets: %v", err)
	}
	if len(targets) != 90 {
		t.Fatalf("got %d targets, want 90", len(targets))
	}
	for i, target := range targets {
		if target.AltKm != 0 {
			t.Fatalf("target %d altitude = %v, want 0", i, target.AltKm)
		}
	}
	// Points follow the sampled track in order.
	if targets[0].LonDeg != 0 || targets[1].LonDeg != 1 {
		t.Errorf("unexpected leading targets: %v, %v", targets[0], targets[1])
	}
}

func TestGenerateTargetsInvalidInterval(t *testing.T) {
	start := time.Now().UTC()
	if _, err := GenerateTargets(trackPropagator(start), start, time.Hour, 0); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}

func TestGenerateTargetsPropagationErrorSurfaces(t *testing.T) {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	boom := &PropagationError{Time: start, Msg: "SGP4 output is NaN/Inf"}
	failing := PropagatorFunc(func(t time.Time) (model.GeoPoint, error) {
		if t.After(start.Add(2 * time.Minute)) {
			return model.GeoPoint{}, boom
		}
		return model.GeoPoint{LatDeg: 0, LonDeg: 0}, nil
	})

	_, err := GenerateTargets(failing, start, time.Hour, time.Minute)
	var perr *PropagationError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *PropagationError to surface unmodified, got %v", err)
	}
	if perr != boom {
		t.Fatalf("propagation error was reinterpreted: %v", perr)
	}
}

func TestGenerateShiftedTargetsZeroProbabilityIdentical(t *testing.T) {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	plain, err := GenerateTargets(trackPropagator(start), start, time.Hour, time.Minute)
	if err != nil {
		t.Fatalf("GenerateTargets: %v", err)
	}

	shifted, err := GenerateShiftedTargets(trackPropagator(start), start, time.Hour, time.Minute, 50, 0, nil)
	if err != nil {
		t.Fatalf("GenerateShiftedTargets: %v", err)
	}
	if len(shifted) != len(plain) {
		t.Fatalf("length mismatch: %d vs %d", len(shifted), len(plain))
	}
	for i := range plain {
		if shifted[i] != plain[i] {
			t.Errorf("point %d differs with shift_prob=0: %v vs %v", i, shifted[i], plain[i])
		}
	}
}

func TestGenerateShiftedTargetsReproducibleWithSeed(t *testing.T) {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	a, err := GenerateShiftedTargets(trackPropagator(start), start, time.Hour, time.Minute, 50, 0.5, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := GenerateShiftedTargets(trackPropagator(start), start, time.Hour, time.Minute, 50, 0.5, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("point %d differs between identically seeded runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGenerateShiftedTargetsBoundedDisplacement(t *testing.T) {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	const maxShiftKm = 25.0

	plain, err := GenerateTargets(trackPropagator(start), start, time.Hour, time.Minute)
	if err != nil {
		t.Fatalf("GenerateTargets: %v", err)
	}
	shifted, err := GenerateShiftedTargets(trackPropagator(start), start, time.Hour, time.Minute, maxShiftKm, 1.0, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("GenerateShiftedTargets: %v", err)
	}

	if shifted[0] != plain[0] {
		t.Errorf("first point must never be displaced: %v vs %v", shifted[0], plain[0])
	}
	for i := 1; i < len(plain); i++ {
		d := GreatCircleKm(plain[i], shifted[i])
		if d > maxShiftKm+0.01 {
			t.Errorf("point %d displaced %v km, want <= %v", i, d, maxShiftKm)
		}
		if shifted[i].AltKm != 0 {
			t.Errorf("point %d altitude = %v, want 0", i, shifted[i].AltKm)
		}
	}
}

func TestGenerateShiftedTargetsRequiresRNG(t *testing.T) {
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	if _, err := GenerateShiftedTargets(trackPropagator(start), start, time.Hour, time.Minute, 50, 0.5, nil); err == nil {
		t.Fatalf("expected error when shift_prob > 0 with nil rng")
	}
}
