package core

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/groundsight/orbitcam/model"
)

// ErrInvalidInterval indicates a rate computation with non-increasing
// timestamps. That is a caller bug (clock skew or duplicate sampling), not
// something a retry can fix.
var ErrInvalidInterval = errors.New("non-increasing observation timestamps")

// WrapMode controls how heading differences are measured across the
// 0°/360° seam.
type WrapMode int

const (
	// WrapNaive takes the plain absolute difference between headings. A
	// camera swinging from 359° to 1° reads as a 358° move. This matches
	// the historical behaviour and remains the default.
	WrapNaive WrapMode = iota
	// WrapShortestArc folds the difference into [0, 180], so 359° to 1°
	// reads as a 2° move.
	WrapShortestArc
)

// EnergyModel estimates actuation power from angular rates as a linear
// combination of the heading and tilt rates.
type EnergyModel struct {
	HeadingCoeff float64
	TiltCoeff    float64
}

// DefaultEnergyModel returns the placeholder coefficients used by the
// simulation display: 0.4 W per deg/s of heading, 0.6 W per deg/s of tilt.
func DefaultEnergyModel() EnergyModel {
	return EnergyModel{HeadingCoeff: 0.4, TiltCoeff: 0.6}
}

// Estimate returns the modelled power draw in watts.
func (m EnergyModel) Estimate(headingRateDegS, tiltRateDegS float64) float64 {
	return m.HeadingCoeff*headingRateDegS + m.TiltCoeff*tiltRateDegS
}

// ComputeRate derives the per-second rate of change between two timestamped
// camera poses. It returns ErrInvalidInterval when currT is not strictly
// after prevT. The energy estimate uses the provided model.
func ComputeRate(prev model.CameraView, prevT time.Time, curr model.CameraView, currT time.Time, mode WrapMode, energy EnergyModel) (model.RateSample, error) {
	dt := currT.Sub(prevT).Seconds()
	if dt <= 0 {
		return model.RateSample{}, ErrInvalidInterval
	}

	dHeading := math.Abs(curr.HeadingDeg - prev.HeadingDeg)
	if mode == WrapShortestArc && dHeading > 180 {
		dHeading = 360 - dHeading
	}
	dTilt := math.Abs(curr.TiltDeg - prev.TiltDeg)

	headingRate := dHeading / dt
	tiltRate := dTilt / dt
	return model.RateSample{
		HeadingRateDegS: headingRate,
		TiltRateDegS:    tiltRate,
		EnergyUseW:      energy.Estimate(headingRate, tiltRate),
		Timestamp:       currT,
	}, nil
}

// RateTracker carries the single most recent pose between observations.
// The previous pose is overwritten after every successful computation; the
// first observation after construction or Reset produces no rate.
//
// Safe for concurrent use.
type RateTracker struct {
	mu      sync.Mutex
	mode    WrapMode
	energy  EnergyModel
	hasPrev bool
	prev    model.CameraView
	prevT   time.Time
}

// NewRateTracker constructs a tracker with the given wrap mode and energy
// model.
func NewRateTracker(mode WrapMode, energy EnergyModel) *RateTracker {
	return &RateTracker{mode: mode, energy: energy}
}

// Observe records a new pose and returns the rate relative to the previous
// one. ok is false when there is no prior pose to diff against. On
// ErrInvalidInterval the stored pose is left unchanged.
func (rt *RateTracker) Observe(view model.CameraView, t time.Time) (sample model.RateSample, ok bool, err error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if !rt.hasPrev {
		rt.prev = view
		rt.prevT = t
		rt.hasPrev = true
		return model.RateSample{}, false, nil
	}

	sample, err = ComputeRate(rt.prev, rt.prevT, view, t, rt.mode, rt.energy)
	if err != nil {
		return model.RateSample{}, false, err
	}
	rt.prev = view
	rt.prevT = t
	return sample, true, nil
}

// Reset drops the stored pose; the next Observe starts a fresh sequence.
func (rt *RateTracker) Reset() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.hasPrev = false
	rt.prev = model.CameraView{}
	rt.prevT = time.Time{}
}
