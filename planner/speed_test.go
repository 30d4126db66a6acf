package planner

import (
	"testing"

	"go.viam.com/test"

	"github.com/viam-labs/obstacleavoid/geometry"
)

func testVehicle() geometry.Vehicle {
	return geometry.Vehicle{
		Width: 0.28, Length: 0.5, Wheelbase: 0.32,
		MaxSpeed: 1.0, MaxAcceleration: 4.0, MaxCurvature: 1.0,
	}
}

// TestTimeOptimalSpeedScenarios encodes reference scenarios S1-S3.
func TestTimeOptimalSpeedScenarios(t *testing.T) {
	veh := testVehicle()
	dt := 0.05

	for _, tc := range []struct {
		name           string
		currentSpeed   float64
		freePathLength float64
		expectSpeed    float64
		expectErr      bool
	}{
		{"S1 empty cloud accelerates from rest", 0, 9.54, 0.2, false},
		{"S2 single point ahead accelerates", 0.5, 0.54, 0.7, false},
		{"S3 single point too close triggers fallback", 1.0, 0.15 - veh.FrontOverhang() - 0.05, 0.8, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			speed, err := timeOptimalSpeed(tc.currentSpeed, tc.freePathLength, veh, dt)
			test.That(t, speed, test.ShouldAlmostEqual, tc.expectSpeed, 1e-9)
			if tc.expectErr {
				test.That(t, err, test.ShouldNotBeNil)
			} else {
				test.That(t, err, test.ShouldBeNil)
			}
		})
	}
}

func TestTimeOptimalSpeedClampsToLimits(t *testing.T) {
	veh := testVehicle()
	dt := 0.05

	speed, _ := timeOptimalSpeed(veh.MaxSpeed, 100, veh, dt)
	test.That(t, speed, test.ShouldBeLessThanOrEqualTo, veh.MaxSpeed)

	speed, _ = timeOptimalSpeed(0, -100, veh, dt)
	test.That(t, speed, test.ShouldBeGreaterThanOrEqualTo, 0.0)
}

func TestTimeOptimalSpeedSnapsNearMax(t *testing.T) {
	veh := testVehicle()
	dt := 0.05
	// Within SpeedSnapThreshold of max speed: cruise branch must be
	// reachable even though currentSpeed != MaxSpeed exactly.
	nearMax := veh.MaxSpeed - SpeedSnapThreshold/2
	speed, err := timeOptimalSpeed(nearMax, 100, veh, dt)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, speed, test.ShouldAlmostEqual, veh.MaxSpeed)
}

// TestRateLimitedSpeedChange covers the rate-limited speed change invariant.
func TestRateLimitedSpeedChange(t *testing.T) {
	veh := testVehicle()
	dt := 0.05
	for _, freePathLength := range []float64{-1, 0, 0.01, 0.1, 1, 10} {
		speed, _ := timeOptimalSpeed(0.5, freePathLength, veh, dt)
		test.That(t, speed, test.ShouldBeBetween, 0.5-veh.MaxAcceleration*dt-1e-9, 0.5+veh.MaxAcceleration*dt+1e-9)
	}
}
