package core

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/groundsight/orbitcam/model"
)

// GenerateTargets samples the propagator at fixed intervals across the
// window and projects each position to the ground, producing the ordered
// candidate set a live session selects among. The number of points is
// floor(window/interval). Propagation errors abort generation and surface
// unmodified.
func GenerateTargets(p Propagator, start time.Time, window, interval time.Duration) (model.TargetSet, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("target sampling interval must be positive, got %s", interval)
	}
	if window < 0 {
		return nil, fmt.Errorf("target window must be non-negative, got %s", window)
	}

	n := int(window / interval)
	targets := make(model.TargetSet, 0, n)
	for i := 0; i < n; i++ {
		pt, err := p.Propagate(start.Add(time.Duration(i) * interval))
		if err != nil {
			return nil, err
		}
		targets = append(targets, pt.GroundProjection())
	}
	return targets, nil
}

// GenerateShiftedTargets is GenerateTargets with a bounded random lateral
// displacement. For each point after the first, with probability shiftProb
// the point is moved perpendicular to the local track (±90° off the bearing
// from the previous unshifted point) by a distance drawn uniformly from
// [0, maxShiftKm].
//
// rng must be supplied by the caller so runs are reproducible under a fixed
// seed. It may be nil only when shiftProb is zero, in which case the output
// is identical to GenerateTargets.
func GenerateShiftedTargets(p Propagator, start time.Time, window, interval time.Duration, maxShiftKm, shiftProb float64, rng *rand.Rand) (model.TargetSet, error) {
	if shiftProb < 0 || shiftProb > 1 {
		return nil, fmt.Errorf("shift probability must be in [0, 1], got %g", shiftProb)
	}
	if maxShiftKm < 0 {
		return nil, fmt.Errorf("max shift must be non-negative, got %g km", maxShiftKm)
	}

	track, err := GenerateTargets(p, start, window, interval)
	if err != nil {
		return nil, err
	}
	if shiftProb == 0 {
		return track, nil
	}
	if rng == nil {
		return nil, fmt.Errorf("shift probability %g requires a random source", shiftProb)
	}

	shifted := track.Clone()
	for i := 1; i < len(track); i++ {
		if rng.Float64() >= shiftProb {
			continue
		}
		// Bearing along the unshifted track, so one displaced point does
		// not skew the direction of the next.
		trackBearing := InitialBearingDeg(track[i-1], track[i])
		side := 90.0
		if rng.Intn(2) == 1 {
			side = -90.0
		}
		offsetKm := rng.Float64() * maxShiftKm
		shifted[i] = DestinationPoint(track[i], normalizeBearing(trackBearing+side), offsetKm)
	}
	return shifted, nil
}

func normalizeBearing(deg float64) float64 {
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return deg
}
