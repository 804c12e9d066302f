package core

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/groundsight/orbitcam/model"
)

// Propagator produces the satellite's geodetic position at a given time.
// Orbital mechanics live entirely behind this interface; the targeting
// layer treats the implementation as a black box.
type Propagator interface {
	Propagate(t time.Time) (model.GeoPoint, error)
}

// PropagatorFunc adapts a plain function to the Propagator interface.
type PropagatorFunc func(t time.Time) (model.GeoPoint, error)

// Propagate calls f.
func (f PropagatorFunc) Propagate(t time.Time) (model.GeoPoint, error) {
	return f(t)
}

// PropagationError reports a failed orbital propagation. It is surfaced
// unmodified to the caller; the targeting layer never catches or
// reinterprets it.
type PropagationError struct {
	Time time.Time
	Msg  string
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("propagation at %s failed: %s", e.Time.Format(time.RFC3339), e.Msg)
}

// FixedPropagator always returns the same point. Useful for ground assets
// and tests.
type FixedPropagator struct {
	Point model.GeoPoint
}

// Propagate returns the fixed point regardless of time.
func (p *FixedPropagator) Propagate(time.Time) (model.GeoPoint, error) {
	return p.Point, nil
}

// SGP4Propagator propagates a single satellite from its two-line element
// set using go-satellite, converting the ECI state to geodetic
// latitude/longitude/altitude.
type SGP4Propagator struct {
	sat satellite.Satellite
}

// NewSGP4Propagator builds a propagator from TLE lines. The lines are
// pre-validated because go-satellite calls log.Fatal on malformed input.
func NewSGP4Propagator(line1, line2 string) (*SGP4Propagator, error) {
	if err := validateTLELines(line1, line2); err != nil {
		return nil, fmt.Errorf("invalid TLE: %w", err)
	}
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS84)
	return &SGP4Propagator{sat: sat}, nil
}

// Propagate returns the geodetic position at t. Propagation failures are
// detected by NaN/Inf output and implausible orbit radii, and reported as
// *PropagationError.
func (p *SGP4Propagator) Propagate(t time.Time) (model.GeoPoint, error) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(p.sat, year, int(month), day, hour, min, sec)
	if math.IsNaN(posECI.X) || math.IsNaN(posECI.Y) || math.IsNaN(posECI.Z) ||
		math.IsInf(posECI.X, 0) || math.IsInf(posECI.Y, 0) || math.IsInf(posECI.Z, 0) {
		return model.GeoPoint{}, &PropagationError{Time: t, Msg: "SGP4 output is NaN/Inf"}
	}

	mag := math.Sqrt(posECI.X*posECI.X + posECI.Y*posECI.Y + posECI.Z*posECI.Z)
	if mag < 6200 || mag > 50000 {
		return model.GeoPoint{}, &PropagationError{
			Time: t,
			Msg:  fmt.Sprintf("implausible orbit radius %.1f km", mag),
		}
	}

	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	altKm, _, llRad := satellite.ECIToLLA(posECI, gmst)
	ll := satellite.LatLongDeg(llRad)

	return model.GeoPoint{
		LatDeg: ll.Latitude,
		LonDeg: ll.Longitude,
		AltKm:  altKm,
	}, nil
}

func validateTLELines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 {
		return fmt.Errorf("line 1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line 2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line 1 must start with '1', got %q", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line 2 must start with '2', got %q", line2[0])
	}
	return nil
}
