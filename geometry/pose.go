package geometry

import (
	"math"

	"github.com/golang/geo/r3"
)

// Pose is a 2D rigid transform (x, y, heading) in the body frame convention
// used throughout this module: +x forward, +y left, theta measured
// counter-clockwise from +x. It plays the analogous role to a 3D
// spatialmath.Pose, specialized to the planar case this controller needs.
type Pose struct {
	X, Y, Theta float64
}

// NewPoseFromPoint builds a pose at the given planar translation with zero
// heading, mirroring spatialmath.NewPoseFromPoint(r3.Vector).
func NewPoseFromPoint(p r3.Vector) Pose {
	return Pose{X: p.X, Y: p.Y}
}

// Point returns the pose's translation as an r3.Vector with Z pinned to 0.
func (p Pose) Point() r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y}
}

// matrix returns the 3x3 homogeneous transform matrix for this pose, row
// major, that maps a point expressed in this pose's local frame into the
// frame this pose is itself expressed in.
func (p Pose) matrix() [3][3]float64 {
	c, s := math.Cos(p.Theta), math.Sin(p.Theta)
	return [3][3]float64{
		{c, -s, p.X},
		{s, c, p.Y},
		{0, 0, 1},
	}
}

// Transform maps a point from this pose's local frame into the frame this
// pose is expressed in (i.e. applies the forward homogeneous transform).
func (p Pose) Transform(pt r3.Vector) r3.Vector {
	m := p.matrix()
	return r3.Vector{
		X: m[0][0]*pt.X + m[0][1]*pt.Y + m[0][2],
		Y: m[1][0]*pt.X + m[1][1]*pt.Y + m[1][2],
	}
}

// Invert returns the pose whose matrix is the inverse of this pose's
// matrix: the transform that maps points from the frame this pose is
// expressed in back into this pose's local frame.
func (p Pose) Invert() Pose {
	c, s := math.Cos(p.Theta), math.Sin(p.Theta)
	// Inverse of a planar rotation+translation: rotate by -theta, then
	// translate by the rotated negated translation.
	ix := -(c*p.X + s*p.Y)
	iy := -(-s*p.X + c*p.Y)
	return Pose{X: ix, Y: iy, Theta: -p.Theta}
}

// TransformInverse maps a point from the frame this pose is expressed in
// into this pose's local frame, by applying p.Invert().Transform(pt).
func (p Pose) TransformInverse(pt r3.Vector) r3.Vector {
	return p.Invert().Transform(pt)
}
