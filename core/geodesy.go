package core

import (
	"math"

	"github.com/groundsight/orbitcam/model"
)

// EarthRadiusKm is the mean Earth radius used for all geometry in the
// targeting layer (kilometres).
const EarthRadiusKm = 6371.0

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Vec3 is an ECEF-style vector in kilometres.
type Vec3 struct {
	X, Y, Z float64
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// ECEF converts a geodetic point to Earth-centred Cartesian coordinates on
// the spherical Earth model, with radial distance EarthRadiusKm + altitude.
func ECEF(p model.GeoPoint) Vec3 {
	r := EarthRadiusKm + p.AltKm
	lat := p.LatDeg * degToRad
	lon := p.LonDeg * degToRad
	return Vec3{
		X: r * math.Cos(lat) * math.Cos(lon),
		Y: r * math.Cos(lat) * math.Sin(lon),
		Z: r * math.Sin(lat),
	}
}

// GreatCircleKm returns the haversine great-circle distance between the
// ground projections of a and b, in kilometres. Altitude is ignored.
// Identical points return exactly 0.
func GreatCircleKm(a, b model.GeoPoint) float64 {
	if a.LatDeg == b.LatDeg && a.LonDeg == b.LonDeg {
		return 0
	}
	phi1 := a.LatDeg * degToRad
	phi2 := b.LatDeg * degToRad
	dPhi := phi2 - phi1
	dLambda := (b.LonDeg - a.LonDeg) * degToRad

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	h := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	// Floating error can push h a hair outside [0, 1]; clamp before the
	// inverse functions so antipodal and coincident points stay finite.
	if h < 0 {
		h = 0
	} else if h > 1 {
		h = 1
	}
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// InitialBearingDeg returns the forward azimuth from a toward b, in degrees
// clockwise from true north, normalised into [0, 360).
//
// When a and b share a ground projection the bearing is undefined; the
// degenerate case returns 0 by convention.
func InitialBearingDeg(a, b model.GeoPoint) float64 {
	if a.LatDeg == b.LatDeg && a.LonDeg == b.LonDeg {
		return 0
	}
	phi1 := a.LatDeg * degToRad
	phi2 := b.LatDeg * degToRad
	dLambda := (b.LonDeg - a.LonDeg) * degToRad

	x := math.Sin(dLambda) * math.Cos(phi2)
	y := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	theta := math.Atan2(x, y) * radToDeg

	theta = math.Mod(theta+360, 360)
	if theta == 360 {
		theta = 0
	}
	return theta
}

// SlantRangeKm returns the straight-line 3-D distance between two points,
// converting both to Earth-centred Cartesian coordinates and taking the
// vector norm. This is the canonical slant range; the target's altitude
// participates (zero for ground projections).
func SlantRangeKm(sat, ground model.GeoPoint) float64 {
	return ECEF(sat).DistanceTo(ECEF(ground))
}

// ApproxSlantRangeKm combines horizontal great-circle distance and altitude
// difference with the Pythagorean shortcut. It ignores Earth curvature along
// the line of sight and is kept only for comparison against SlantRangeKm;
// new call sites should use the canonical form.
func ApproxSlantRangeKm(sat, ground model.GeoPoint) float64 {
	horiz := GreatCircleKm(sat, ground)
	dAlt := sat.AltKm - ground.AltKm
	return math.Sqrt(horiz*horiz + dAlt*dAlt)
}

// DestinationPoint returns the point reached by travelling distanceKm from
// origin along the given initial bearing on the sphere. Altitude is dropped;
// the result is a ground projection.
func DestinationPoint(origin model.GeoPoint, bearingDeg, distanceKm float64) model.GeoPoint {
	phi1 := origin.LatDeg * degToRad
	lambda1 := origin.LonDeg * degToRad
	theta := bearingDeg * degToRad
	delta := distanceKm / EarthRadiusKm

	sinPhi2 := math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta)
	phi2 := math.Asin(clamp(sinPhi2, -1, 1))
	lambda2 := lambda1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*sinPhi2,
	)

	lonDeg := math.Mod(lambda2*radToDeg+540, 360) - 180
	return model.GeoPoint{LatDeg: phi2 * radToDeg, LonDeg: lonDeg}
}

// LineOfSight reports whether the straight segment between the two points
// clears the Earth sphere. A segment that dips inside the sphere is blocked.
func LineOfSight(a, b model.GeoPoint) bool {
	p1 := ECEF(a)
	p2 := ECEF(b)

	v := p2.Sub(p1)
	denom := v.Dot(v)
	if denom == 0 {
		// Same point: clear if it sits outside the sphere.
		return p1.Dot(p1) > EarthRadiusKm*EarthRadiusKm
	}

	// Closest point on the segment to the Earth's centre (origin).
	t := -p1.Dot(v) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := Vec3{
		X: p1.X + v.X*t,
		Y: p1.Y + v.Y*t,
		Z: p1.Z + v.Z*t,
	}
	return closest.Dot(closest) > EarthRadiusKm*EarthRadiusKm
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
