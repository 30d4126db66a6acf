package planner

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/viam-labs/obstacleavoid/geometry"
	"github.com/viam-labs/obstacleavoid/internal/obslog"
)

func testConfig() Config {
	return Config{
		ControlInterval:           0.05,
		Margin:                    0.05,
		MaxClearance:              0.5,
		CurvatureSamplingInterval: 0.05,
	}
}

func newTestSampler(t *testing.T) *Sampler {
	t.Helper()
	veh := testVehicle()
	s, err := NewSampler(&veh, testConfig(), obslog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return s
}

func TestNewSamplerRejectsInvalidVehicle(t *testing.T) {
	bad := geometry.Vehicle{}
	_, err := NewSampler(&bad, testConfig(), nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewSamplerRejectsInvalidConfig(t *testing.T) {
	veh := testVehicle()
	cfg := testConfig()
	cfg.ControlInterval = 0
	_, err := NewSampler(&veh, cfg, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

// TestEmptyCloudPicksStraightCurvature covers the empty-cloud-picks-straight invariant.
func TestEmptyCloudPicksStraightCurvature(t *testing.T) {
	s := newTestSampler(t)
	cmd, err := s.GenerateCommand(nil, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, math.Abs(cmd.Curvature), test.ShouldBeLessThanOrEqualTo, s.config.CurvatureSamplingInterval/2+1e-9)
}

// TestS1Scenario covers reference scenario S1.
func TestS1Scenario(t *testing.T) {
	s := newTestSampler(t)
	cmd, err := s.GenerateCommand(nil, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cmd.Velocity, test.ShouldAlmostEqual, 0.2, 1e-9)
}

// TestS4Scenario covers reference scenario S4: two symmetric
// points outside the body width, straight path is clear, expect cruise.
func TestS4Scenario(t *testing.T) {
	s := newTestSampler(t)
	cloud := []r3.Vector{{X: 2.0, Y: 0.2}, {X: 2.0, Y: -0.2}}
	cmd, err := s.GenerateCommand(cloud, 1.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cmd.Velocity, test.ShouldAlmostEqual, 1.0, 1e-9)
}

func TestGenerateCommandRejectsNegativeSpeed(t *testing.T) {
	s := newTestSampler(t)
	cmd, err := s.GenerateCommand(nil, -1)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, cmd.Velocity, test.ShouldEqual, 0.0)
	test.That(t, cmd.Curvature, test.ShouldEqual, 0.0)
}

func TestGenerateCommandRejectsNonFiniteCloud(t *testing.T) {
	s := newTestSampler(t)
	cloud := []r3.Vector{{X: math.NaN(), Y: 0}}
	cmd, err := s.GenerateCommand(cloud, 1.0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, cmd.Velocity, test.ShouldBeLessThanOrEqualTo, 1.0)
	test.That(t, cmd.Curvature, test.ShouldEqual, 0.0)
}

// TestInvariantsHold covers the universal speed/curvature bound invariant.
func TestInvariantsHold(t *testing.T) {
	s := newTestSampler(t)
	clouds := [][]r3.Vector{
		nil,
		{{X: 1, Y: 0}},
		{{X: 0.2, Y: 0.05}},
		{{X: 3, Y: -0.5}, {X: 1.5, Y: 0.3}},
	}
	for _, cloud := range clouds {
		cmd, _ := s.GenerateCommand(cloud, 0.4)
		test.That(t, cmd.Velocity, test.ShouldBeGreaterThanOrEqualTo, 0.0)
		test.That(t, cmd.Velocity, test.ShouldBeLessThanOrEqualTo, s.vehicle.MaxSpeed)
		test.That(t, math.Abs(cmd.Curvature), test.ShouldBeLessThanOrEqualTo, s.vehicle.MaxCurvature+1e-9)
	}
}

func TestCandidateCount(t *testing.T) {
	s := newTestSampler(t)
	_, candidates, err := s.GenerateCommandWithCandidates(nil, 0)
	test.That(t, err, test.ShouldBeNil)
	expected := int(2*s.vehicle.MaxCurvature/s.config.CurvatureSamplingInterval) + 1
	test.That(t, len(candidates), test.ShouldEqual, expected)
}

func TestGoalDistanceStraightVsArc(t *testing.T) {
	goal := r3.Vector{X: 10}
	straight := goalDistance(0, 1.0, 0.05, goal)
	arc := goalDistance(0.5, 1.0, 0.05, goal)
	// Straight travel covers more ground toward a goal directly ahead than
	// any arc over the same short horizon, so it should be no farther from
	// the goal.
	test.That(t, straight, test.ShouldBeLessThanOrEqualTo, arc)
}

func TestGoalDistanceReflectionSymmetric(t *testing.T) {
	goal := r3.Vector{X: 10}
	for _, kappa := range []float64{0.1, 0.3, 0.7, 1.0} {
		left := goalDistance(kappa, 1.0, 0.05, goal)
		right := goalDistance(-kappa, 1.0, 0.05, goal)
		test.That(t, right, test.ShouldAlmostEqual, left, 1e-9)
	}
}

// TestGenerateCommandReflectionSymmetric covers the full command-selection
// reflection-symmetry invariant: reflecting the cloud across y=0 negates the
// winning curvature and leaves speed unchanged.
func TestGenerateCommandReflectionSymmetric(t *testing.T) {
	s := newTestSampler(t)
	cloud := []r3.Vector{{X: 3.0, Y: 0.6}, {X: 2.0, Y: -1.5}}
	reflected := make([]r3.Vector, len(cloud))
	for i, p := range cloud {
		reflected[i] = r3.Vector{X: p.X, Y: -p.Y}
	}

	cmd, err := s.GenerateCommand(cloud, 0.4)
	test.That(t, err, test.ShouldBeNil)
	reflectedCmd, err := s.GenerateCommand(reflected, 0.4)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, reflectedCmd.Velocity, test.ShouldAlmostEqual, cmd.Velocity, 1e-9)
	test.That(t, reflectedCmd.Curvature, test.ShouldAlmostEqual, -cmd.Curvature, 1e-9)
}
