package geometry

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestPoseTransformRoundTrip(t *testing.T) {
	p := Pose{X: 1, Y: 2, Theta: math.Pi / 4}
	pt := r3.Vector{X: 3, Y: -1}

	transformed := p.Transform(pt)
	back := p.TransformInverse(transformed)

	test.That(t, back.X, test.ShouldAlmostEqual, pt.X)
	test.That(t, back.Y, test.ShouldAlmostEqual, pt.Y)
}

func TestPoseIdentity(t *testing.T) {
	p := Pose{}
	pt := r3.Vector{X: 5, Y: -7}
	test.That(t, p.Transform(pt), test.ShouldResemble, pt)
	test.That(t, p.TransformInverse(pt), test.ShouldResemble, pt)
}

func TestNewPoseFromPoint(t *testing.T) {
	p := NewPoseFromPoint(r3.Vector{X: 1, Y: 2})
	test.That(t, p.Theta, test.ShouldEqual, 0.0)
	test.That(t, p.Point(), test.ShouldResemble, r3.Vector{X: 1, Y: 2})
}

func TestPoseInvertPureTranslation(t *testing.T) {
	p := Pose{X: 2, Y: -3}
	inv := p.Invert()
	test.That(t, inv.X, test.ShouldAlmostEqual, -2.0)
	test.That(t, inv.Y, test.ShouldAlmostEqual, 3.0)
	test.That(t, inv.Theta, test.ShouldAlmostEqual, 0.0)
}
