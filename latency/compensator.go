// Package latency implements the latency compensator: it maintains a
// history of not-yet-observed commands, forward simulates the vehicle's
// state over that history, transforms an incoming point cloud into the
// predicted frame, and delegates to an owned sampler for the actual arc
// selection and speed rule.
package latency

import (
	"math"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/viam-labs/obstacleavoid/geometry"
	"github.com/viam-labs/obstacleavoid/internal/obslog"
	"github.com/viam-labs/obstacleavoid/obstacle"
	"github.com/viam-labs/obstacleavoid/planner"
)

// Compensator owns a sampler and a command history exclusively; no other
// component may read or mutate either.
type Compensator struct {
	vehicle        *geometry.Vehicle
	sampler        *planner.Sampler
	plannerConfig  planner.Config
	latencySeconds float64
	clock          clock.Clock
	logger         obslog.Logger

	history []CommandStamped
}

// NewCompensator constructs a Compensator owning a fresh inner Sampler.
// vehicle is borrowed, not owned, by both the Compensator and its Sampler;
// it must outlive both. clk may be nil, in which case the system clock is
// used; tests pass a *clock.Mock for deterministic timing.
func NewCompensator(
	vehicle *geometry.Vehicle,
	samplerConfig planner.Config,
	latencySeconds float64,
	logger obslog.Logger,
	clk clock.Clock,
) (*Compensator, error) {
	if latencySeconds <= 0 {
		return nil, errors.Errorf("latency must be > 0, got %v", latencySeconds)
	}
	if logger == nil {
		logger = obslog.NewBlankLogger()
	}
	if clk == nil {
		clk = clock.New()
	}
	sampler, err := planner.NewSampler(vehicle, samplerConfig, logger)
	if err != nil {
		return nil, errors.Wrap(err, "constructing compensator's inner sampler")
	}
	return &Compensator{
		vehicle:        vehicle,
		sampler:        sampler,
		plannerConfig:  samplerConfig,
		latencySeconds: latencySeconds,
		clock:          clk,
		logger:         logger,
	}, nil
}

func (c *Compensator) nowSeconds() float64 {
	return float64(c.clock.Now().UnixNano()) / 1e9
}

// History returns a read-only snapshot of the surviving command history,
// oldest first.
func (c *Compensator) History() []CommandStamped {
	out := make([]CommandStamped, len(c.history))
	copy(out, c.history)
	return out
}

// RecordCommand appends cmd to the history at timestamp ts. A clock
// monotonicity violation (ts earlier than the current tail) is clamped to
// the tail's timestamp rather than rejected.
func (c *Compensator) RecordCommand(cmd planner.Command, ts float64) {
	if n := len(c.history); n > 0 && ts < c.history[n-1].Timestamp {
		c.logger.Warnw("clock monotonicity violation on record; clamping timestamp",
			"requested", ts, "tail", c.history[n-1].Timestamp)
		ts = c.history[n-1].Timestamp
	}
	c.history = append(c.history, CommandStamped{Command: cmd, Timestamp: ts, ID: uuid.New()})
}

// pruneHistory drops every head entry whose age has reached latency,
// preserving the relative order of survivors.
func (c *Compensator) pruneHistory(now float64) {
	i := 0
	for i < len(c.history) && now-c.history[i].Timestamp >= c.latencySeconds {
		i++
	}
	if i > 0 {
		c.history = c.history[i:]
	}
}

// projectState forward-simulates the command history onto a seed state of
// ((0,0), 0, seedSpeed). When the history is empty, it returns the seed
// state unchanged (the Empty state of the command-history state machine).
func (c *Compensator) projectState(seedSpeed, now float64) State2D {
	c.pruneHistory(now)

	state := State2D{Position: r3.Vector{}, Heading: 0, Speed: seedSpeed}
	if len(c.history) == 0 {
		return state
	}

	for _, cs := range c.history {
		delta := cs.Command.Velocity * c.plannerConfig.ControlInterval
		if geometry.IsStraight(cs.Command.Curvature) {
			state.Position.X += delta
		} else {
			radius := 1 / cs.Command.Curvature
			dTheta := delta / radius
			state.Position.X += delta * math.Cos(dTheta)
			state.Position.Y += delta * math.Sin(dTheta)
			state.Heading += dTheta
		}
		state.Speed = cs.Command.Velocity
	}
	return state
}

// transformCloud builds the homogeneous transform for state's pose and
// applies its inverse to every point, returning a freshly owned copy; the
// caller's cloud is never mutated.
func (c *Compensator) transformCloud(cloud []r3.Vector, state State2D) []r3.Vector {
	pose := geometry.Pose{X: state.Position.X, Y: state.Position.Y, Theta: state.Heading}
	out := make([]r3.Vector, len(cloud))
	for i, p := range cloud {
		out[i] = pose.TransformInverse(p)
	}
	return out
}

// GenerateCommand is the generate_command operation: project state,
// transform the cloud, delegate to the inner sampler, record the emitted
// command at the current time, and return it. sensorTs is informational
// only on this path; now() is used exclusively for projection and
// pruning.
func (c *Compensator) GenerateCommand(cloud []r3.Vector, currentSpeed, sensorTs float64) (planner.Command, error) {
	_ = sensorTs
	now := c.nowSeconds()
	state := c.projectState(currentSpeed, now)
	transformed := c.transformCloud(cloud, state)

	cmd, err := c.sampler.GenerateCommand(transformed, state.Speed)
	c.RecordCommand(cmd, c.nowSeconds())
	return cmd, err
}

// CalculateFreePathLength is the probe entry point: it projects with seed
// speed 0, transforms cloud, and returns the sampler's
// free path length for curvature kappa, for diagnostics and fallback
// control. sensorTs is accepted for interface symmetry with
// GenerateCommand but, like there, now() drives projection.
func (c *Compensator) CalculateFreePathLength(cloud []r3.Vector, kappa, sensorTs float64) (float64, error) {
	_ = sensorTs
	if err := obstacle.ValidateCloud(cloud); err != nil {
		return obstacle.DefaultHorizon, err
	}
	state := c.projectState(0, c.nowSeconds())
	transformed := c.transformCloud(cloud, state)
	result := obstacle.Evaluate(transformed, kappa, *c.vehicle, c.plannerConfig.Margin, c.plannerConfig.MaxClearance, c.plannerConfig.Obstacle, nil)
	return result.FreePathLength, nil
}
