package model

import "time"

// CameraView is a virtual-camera pose looking from the satellite toward a
// ground target. Heading is degrees clockwise from true north in [0, 360);
// tilt is degrees from nadir in [0, 90] (0 = straight down, 90 = horizon);
// range is metres along the line of sight, always positive.
//
// Views are derived values: recomputed per request, never persisted.
type CameraView struct {
	HeadingDeg float64
	TiltDeg    float64
	RangeM     float64
	LookAt     GeoPoint
}

// RateSample is the per-second rate of change between two consecutive
// camera poses, plus the estimated actuation energy draw. It is transient:
// computed, reported, discarded.
type RateSample struct {
	HeadingRateDegS float64
	TiltRateDegS    float64
	EnergyUseW      float64
	Timestamp       time.Time
}
