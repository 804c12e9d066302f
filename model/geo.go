package model

import "time"

// GeoPoint is a geodetic position on a spherical Earth. Latitude and
// longitude are in degrees, altitude in kilometres above the surface.
// Values are copied everywhere; a GeoPoint is never mutated after creation.
type GeoPoint struct {
	LatDeg float64
	LonDeg float64
	AltKm  float64
}

// GroundProjection returns the point with altitude forced to zero.
func (p GeoPoint) GroundProjection() GeoPoint {
	return GeoPoint{LatDeg: p.LatDeg, LonDeg: p.LonDeg}
}

// PositionSample is a GeoPoint tagged with its acquisition order and time.
// Samples live in an append-only history owned by the tracking session.
type PositionSample struct {
	Seq      int
	Point    GeoPoint
	Acquired time.Time
}

// TargetSet is an ordered sequence of candidate ground points. All points
// have zero altitude.
type TargetSet []GeoPoint

// Clone returns an independent copy of the target set.
func (ts TargetSet) Clone() TargetSet {
	if ts == nil {
		return nil
	}
	out := make(TargetSet, len(ts))
	copy(out, ts)
	return out
}
