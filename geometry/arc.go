package geometry

import (
	"math"

	"github.com/golang/geo/r3"
)

// StraightCurvatureThreshold is the |kappa| below which an arc is treated
// as a straight line (spec section 9: "part of the behavior", not to be
// changed casually).
const StraightCurvatureThreshold = 1e-2

// IsStraight reports whether kappa is small enough that the straight-line
// branch of the arc evaluator applies.
func IsStraight(kappa float64) bool {
	return math.Abs(kappa) < StraightCurvatureThreshold
}

// ArcRadius returns 1/|kappa|, the radius of the constant-curvature arc.
// Callers must not invoke this for a curvature that IsStraight.
func ArcRadius(kappa float64) float64 {
	return 1 / math.Abs(kappa)
}

// ReflectY flips a point's y coordinate. Right turns (kappa < 0) are
// analyzed by reflecting the cloud across y=0 and running the same
// left-turn geometry, halving the amount of case analysis the arc
// evaluator needs.
func ReflectY(p r3.Vector) r3.Vector {
	return r3.Vector{X: p.X, Y: -p.Y}
}

// AdvancePose returns the robot's pose, relative to its pose at the start
// of the arc, after sweeping arc angle phi along a circle of radius R
// centered at (0, R) -- the instantaneous center of rotation for a left
// turn. This is the forward ICR transform of section 4.B.
func AdvancePose(radius, phi float64) Pose {
	s, c := math.Sin(phi), math.Cos(phi)
	return Pose{
		X:     radius * s,
		Y:     radius * (1 - c),
		Theta: phi,
	}
}

// ArcAngleForLength returns the arc angle phi swept by traveling arc length
// length along a circle of radius R.
func ArcAngleForLength(radius, length float64) float64 {
	return length / radius
}

// PointInTorus reports whether point p (in the body frame, with the ICR at
// (0, icrY)) lies within a radial band [rMin, rMax] of the ICR -- the generalized swept-footprint test that collision
// conditions 1-3 specialize by choosing rMin/rMax from the vehicle's swept
// radii.
func PointInTorus(p r3.Vector, icrY, rMin, rMax float64) bool {
	r := PointRadiusFromICR(p, icrY)
	return r >= rMin && r <= rMax
}

// PointRadiusFromICR returns the distance from point p to the ICR at
// (0, icrY).
func PointRadiusFromICR(p r3.Vector, icrY float64) float64 {
	dy := icrY - p.Y
	return math.Hypot(p.X, dy)
}

// PointAngleFromICR returns the bearing (theta) of point p as seen from the
// ICR at (0, icrY), via atan2(px, R-py): zero straight ahead of the ICR,
// increasing as the point sweeps forward along the turn.
func PointAngleFromICR(p r3.Vector, icrY float64) float64 {
	return math.Atan2(p.X, icrY-p.Y)
}
