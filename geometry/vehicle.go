// Package geometry holds the vehicle's static dimensions and kinematic
// limits, and the 2D pose/arc primitives the rest of the controller builds
// on.
package geometry

import "github.com/pkg/errors"

// Vehicle is an immutable, borrowed-by-reference description of a car-like
// ground vehicle's footprint and motion limits. Every downstream component
// holds a non-owning pointer to one Vehicle for its whole lifetime.
type Vehicle struct {
	// Width is the full body width in meters.
	Width float64
	// Length is the full body length in meters.
	Length float64
	// Wheelbase is the distance between front and rear axles in meters.
	// Must satisfy Wheelbase <= Length.
	Wheelbase float64

	// MaxSpeed is the maximum forward speed in m/s.
	MaxSpeed float64
	// MaxAcceleration is the maximum magnitude of speed change in m/s^2.
	MaxAcceleration float64
	// MaxCurvature is the maximum magnitude of curvature in 1/m.
	MaxCurvature float64
}

// Validate checks the invariants from the data model: positive dimensions,
// wheelbase no larger than length, and strictly positive limits.
func (v Vehicle) Validate() error {
	if v.Width <= 0 {
		return errors.Errorf("vehicle width must be > 0, got %v", v.Width)
	}
	if v.Length <= 0 {
		return errors.Errorf("vehicle length must be > 0, got %v", v.Length)
	}
	if v.Wheelbase <= 0 {
		return errors.Errorf("vehicle wheelbase must be > 0, got %v", v.Wheelbase)
	}
	if v.Wheelbase > v.Length {
		return errors.Errorf("vehicle wheelbase (%v) must be <= length (%v)", v.Wheelbase, v.Length)
	}
	if v.MaxSpeed <= 0 {
		return errors.Errorf("vehicle max speed must be > 0, got %v", v.MaxSpeed)
	}
	if v.MaxAcceleration <= 0 {
		return errors.Errorf("vehicle max acceleration must be > 0, got %v", v.MaxAcceleration)
	}
	if v.MaxCurvature <= 0 {
		return errors.Errorf("vehicle max curvature must be > 0, got %v", v.MaxCurvature)
	}
	return nil
}

// FrontOverhang is half the sum of length and wheelbase: the distance from
// the rear axle to the front bumper along the body's centerline, as used
// throughout the arc evaluator's free-path-length math.
func (v Vehicle) FrontOverhang() float64 {
	return (v.Length + v.Wheelbase) / 2
}

// RearOverhang is half the difference of length and wheelbase: the distance
// from the rear axle to the rear bumper.
func (v Vehicle) RearOverhang() float64 {
	return (v.Length - v.Wheelbase) / 2
}

// HalfWidth is half the vehicle width.
func (v Vehicle) HalfWidth() float64 {
	return v.Width / 2
}
