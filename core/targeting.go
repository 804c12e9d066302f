package core

import (
	"errors"
	"math"

	"github.com/groundsight/orbitcam/model"
)

// ErrEmptyTargetSet indicates target selection was attempted with no
// candidates. Callers must repopulate the target set before retrying.
var ErrEmptyTargetSet = errors.New("empty target set")

// SelectNearestTarget returns the candidate closest to the satellite's
// ground projection by great-circle distance. Altitude is ignored for
// ranking even though it participates in the rendered range. Ties keep the
// first occurrence in iteration order.
func SelectNearestTarget(sat model.GeoPoint, targets []model.GeoPoint) (model.GeoPoint, error) {
	if len(targets) == 0 {
		return model.GeoPoint{}, ErrEmptyTargetSet
	}

	best := targets[0]
	bestDist := GreatCircleKm(sat, best)
	for _, candidate := range targets[1:] {
		if d := GreatCircleKm(sat, candidate); d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best, nil
}

// ComputeCameraView derives the camera pose looking from the satellite
// toward the target. rangeOffsetM pulls the camera in along the line of
// sight; the resulting range is floored at 1 metre so an oversized offset
// cannot produce a degenerate zero or negative range.
//
// The function is pure: identical inputs yield bit-identical output.
//
// When the satellite sits directly over the target the bearing is undefined
// and elevation has no horizontal component; the degenerate case looks
// straight down (heading 0, tilt 0) with range equal to the satellite
// altitude in metres, minus the offset.
func ComputeCameraView(sat, target model.GeoPoint, rangeOffsetM float64) model.CameraView {
	distKm := GreatCircleKm(sat, target)
	heading := InitialBearingDeg(sat, target)

	elevationDeg := 90.0
	if distKm > 0 {
		elevationDeg = math.Atan2(sat.AltKm, distKm) * radToDeg
	}
	tilt := clamp(90.0-elevationDeg, 0.0, 90.0)

	rangeM := SlantRangeKm(sat, target)*1000.0 - rangeOffsetM
	if rangeM < 1.0 {
		rangeM = 1.0
	}

	return model.CameraView{
		HeadingDeg: heading,
		TiltDeg:    tilt,
		RangeM:     rangeM,
		LookAt:     target,
	}
}
