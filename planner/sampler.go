// Package planner implements the path sampler and the 1D time-optimal
// speed rule: enumerating
// constant-curvature arcs, scoring each against a point cloud, and turning
// the winning arc's free path length into a speed command.
package planner

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"github.com/viam-labs/obstacleavoid/geometry"
	"github.com/viam-labs/obstacleavoid/internal/obslog"
	"github.com/viam-labs/obstacleavoid/obstacle"
)

// Scoring weights, fixed.
const (
	clearanceWeight = 8.0
	goalWeight      = -0.5
)

// DefaultGoal is the process-wide fixed forward goal:
// a point on the +x axis representing a short horizon.
var DefaultGoal = r3.Vector{X: 10, Y: 0}

// Config holds the controller parameters, immutable
// for the lifetime of a Sampler.
type Config struct {
	ControlInterval           float64
	Margin                    float64
	MaxClearance              float64
	CurvatureSamplingInterval float64

	// Goal overrides DefaultGoal when non-zero, for a host that supplies
	// its own forward goal instead of the fixed short-horizon point.
	Goal r3.Vector

	// Obstacle carries the arc evaluator's own tunables (horizon, the
	// corrected-clearance-formula flag).
	Obstacle obstacle.Config
}

func (c Config) Validate() error {
	if c.ControlInterval <= 0 {
		return errors.Errorf("control interval must be > 0, got %v", c.ControlInterval)
	}
	if c.Margin < 0 {
		return errors.Errorf("margin must be >= 0, got %v", c.Margin)
	}
	if c.MaxClearance <= 0 {
		return errors.Errorf("max clearance must be > 0, got %v", c.MaxClearance)
	}
	if c.CurvatureSamplingInterval <= 0 {
		return errors.Errorf("curvature sampling interval must be > 0, got %v", c.CurvatureSamplingInterval)
	}
	return nil
}

func (c Config) goal() r3.Vector {
	if c.Goal == (r3.Vector{}) {
		return DefaultGoal
	}
	return c.Goal
}

// Sampler holds a non-owning reference to a Vehicle and the controller
// parameters, and samples arcs against a point cloud on every call.
type Sampler struct {
	vehicle *geometry.Vehicle
	config  Config
	logger  obslog.Logger
}

// NewSampler constructs a Sampler. vehicle is borrowed, not owned: it must
// outlive the Sampler.
func NewSampler(vehicle *geometry.Vehicle, config Config, logger obslog.Logger) (*Sampler, error) {
	if err := vehicle.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid vehicle")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid sampler config")
	}
	if logger == nil {
		logger = obslog.NewBlankLogger()
	}
	return &Sampler{vehicle: vehicle, config: config, logger: logger}, nil
}

// curvatures returns the sampled curvature sweep over [-maxCurvature,
// maxCurvature] at step sampling interval, inclusive of both endpoints.
func curvatures(maxCurvature, step float64) []float64 {
	n := int(floats.Round(2*maxCurvature/step, 0)) + 1
	out := make([]float64, 0, n)
	for k := -maxCurvature; k <= maxCurvature+step/2; k += step {
		out = append(out, k)
	}
	return out
}

// goalDistance projects the robot forward by maxSpeed*dt along the arc of
// curvature kappa and returns its distance to the goal. Right turns
// (kappa < 0) reuse the left-turn geometry via geometry.ReflectY, the same
// idiom the arc evaluator uses, rather than negating radius -- radius must
// stay positive for AdvancePose's trig to come out right.
func goalDistance(kappa, maxSpeed, dt float64, goal r3.Vector) float64 {
	var projected r3.Vector
	if geometry.IsStraight(kappa) {
		projected = r3.Vector{X: maxSpeed * dt, Y: 0}
	} else {
		radius := geometry.ArcRadius(kappa)
		phi := geometry.ArcAngleForLength(radius, maxSpeed*dt)
		pose := geometry.AdvancePose(radius, phi)
		projected = r3.Vector{X: pose.X, Y: pose.Y}
		if kappa < 0 {
			projected = geometry.ReflectY(projected)
		}
	}
	return goal.Sub(projected).Norm()
}

// GenerateCommand samples curvatures at the configured interval, scores
// each against cloud, and returns the 1D time-optimal command along the
// winning arc. A non-nil error is the non-fatal imminent collision
// warning or an input-range rejection (negative speed, non-finite cloud
// point); the returned command is always valid.
func (s *Sampler) GenerateCommand(cloud []r3.Vector, currentSpeed float64) (Command, error) {
	cmd, _, err := s.GenerateCommandWithCandidates(cloud, currentSpeed)
	return cmd, err
}

// GenerateCommandWithCandidates is GenerateCommand plus the full sampled
// candidate slice, for offline analysis and testing.
func (s *Sampler) GenerateCommandWithCandidates(cloud []r3.Vector, currentSpeed float64) (Command, []PathCandidate, error) {
	if currentSpeed < 0 {
		s.logger.Warnw("rejecting negative current speed", "speed", currentSpeed)
		return Command{Velocity: 0, Curvature: 0}, nil, obstacle.ErrNegativeSpeed
	}
	if err := obstacle.ValidateCloud(cloud); err != nil {
		s.logger.Warnw("rejecting cloud with non-finite points; emitting safe braking command", "error", err)
		return s.safeBrakingCommand(currentSpeed), nil, err
	}

	candidates := make([]PathCandidate, 0, int(2*s.vehicle.MaxCurvature/s.config.CurvatureSamplingInterval)+1)

	for _, kappa := range curvatures(s.vehicle.MaxCurvature, s.config.CurvatureSamplingInterval) {
		result := obstacle.Evaluate(cloud, kappa, *s.vehicle, s.config.Margin, s.config.MaxClearance, s.config.Obstacle, nil)
		d := goalDistance(kappa, s.vehicle.MaxSpeed, s.config.ControlInterval, s.config.goal())

		candidates = append(candidates, PathCandidate{
			Curvature:      kappa,
			FreePathLength: result.FreePathLength,
			Clearance:      result.Clearance,
			GoalDistance:   d,
			Score:          result.FreePathLength + clearanceWeight*result.Clearance + goalWeight*d,
		})
	}

	// Prepend the sentinel so lo.MaxBy's collection[0]-as-initial-max never
	// picks a real candidate as its seed; ">" keeps ties resolved in favor
	// of the first-seen (most negative) curvature.
	best := lo.MaxBy(append([]PathCandidate{sentinelCandidate()}, candidates...), func(item, max PathCandidate) bool {
		return item.Score > max.Score
	})

	speed, speedErr := timeOptimalSpeed(currentSpeed, best.FreePathLength, *s.vehicle, s.config.ControlInterval)
	if speedErr != nil {
		s.logger.Warnw("imminent collision", "free_path_length", best.FreePathLength, "curvature", best.Curvature)
	}

	return Command{Velocity: speed, Curvature: best.Curvature}, candidates, speedErr
}

func (s *Sampler) safeBrakingCommand(currentSpeed float64) Command {
	v := currentSpeed - s.vehicle.MaxAcceleration*s.config.ControlInterval
	if v < 0 {
		v = 0
	}
	return Command{Velocity: v, Curvature: 0}
}
