package planner

import (
	"github.com/viam-labs/obstacleavoid/geometry"
	"github.com/viam-labs/obstacleavoid/obstacle"
)

// SpeedSnapThreshold is how close current speed must be to the vehicle's
// max speed to be snapped to it before classification.
const SpeedSnapThreshold = 0.05

// timeOptimalSpeed implements the 1D time-optimal speed rule: given the current speed
// and the winning arc's free path length, choose the next commanded speed.
// The returned error is non-nil exactly when the fallback (imminent
// collision) branch fires; the returned speed is always clamped to
// [0, MaxSpeed] regardless.
func timeOptimalSpeed(currentSpeed, freePathLength float64, veh geometry.Vehicle, dt float64) (float64, error) {
	v := currentSpeed
	if v > veh.MaxSpeed-SpeedSnapThreshold && v < veh.MaxSpeed+SpeedSnapThreshold {
		v = veh.MaxSpeed
	}

	vMax := veh.MaxSpeed
	aMax := veh.MaxAcceleration
	brakingDistance := v * v / (2 * aMax)

	var speed float64
	var err error

	switch {
	case v < vMax && freePathLength >= v*dt+0.5*aMax*dt*dt+(v+aMax*dt)*(v+aMax*dt)/(2*aMax):
		speed = v + aMax*dt
	case v == vMax && freePathLength >= v*dt+vMax*vMax/(2*aMax):
		speed = v
	case freePathLength < 0:
		speed = v - aMax*dt
		err = &obstacle.ErrImminentCollision{FreePathLength: freePathLength}
	case freePathLength < brakingDistance:
		speed = v - aMax*dt
	default:
		// Neither accelerating nor braking is warranted: hold the current
		// (snapped) speed.
		speed = v
	}

	return geometry.Clamp(speed, 0, vMax), err
}
