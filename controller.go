// Package obstacleavoid is the public entry point to the reactive motion
// controller: a constructor and thin method wrapper pair for each of the
// sampler and the latency compensator, mirroring the shape of a base
// driver's public API in the rest of this codebase.
package obstacleavoid

import (
	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"

	"github.com/viam-labs/obstacleavoid/geometry"
	"github.com/viam-labs/obstacleavoid/internal/obslog"
	"github.com/viam-labs/obstacleavoid/latency"
	"github.com/viam-labs/obstacleavoid/planner"
)

// Command is the motion command returned on every tick: a forward speed
// paired with the curvature of the arc it is to be driven along.
type Command = planner.Command

// SamplerParams bundles the parameters new_sampler takes as params.
type SamplerParams struct {
	ControlInterval           float64
	Margin                    float64
	MaxClearance              float64
	CurvatureSamplingInterval float64

	// Goal overrides the fixed (10, 0) forward goal when non-zero.
	Goal r3.Vector
}

// ToPlannerConfig converts to the planner package's internal config shape.
func (p SamplerParams) ToPlannerConfig() planner.Config {
	return planner.Config{
		ControlInterval:           p.ControlInterval,
		Margin:                    p.Margin,
		MaxClearance:              p.MaxClearance,
		CurvatureSamplingInterval: p.CurvatureSamplingInterval,
		Goal:                      p.Goal,
	}
}

// Sampler is the handle returned by NewSampler: the time-optimal 1D path
// sampler, with no latency compensation.
type Sampler struct {
	inner *planner.Sampler
}

// NewSampler is the new_sampler operation: it validates vehicle and
// params and returns an immutable sampler handle. logger may be nil, in
// which case diagnostics are discarded.
func NewSampler(vehicle *geometry.Vehicle, params SamplerParams, logger obslog.Logger) (*Sampler, error) {
	inner, err := planner.NewSampler(vehicle, params.ToPlannerConfig(), logger)
	if err != nil {
		return nil, err
	}
	return &Sampler{inner: inner}, nil
}

// GenerateCommand is the sampler.generate_command operation: given a
// cloud in the body frame and the current forward speed, it returns the
// next command. A non-nil error is the non-fatal imminent-collision
// warning or an input-range rejection; the returned command is always a
// valid, safe command.
func (s *Sampler) GenerateCommand(cloud []r3.Vector, currentSpeed float64) (Command, error) {
	return s.inner.GenerateCommand(cloud, currentSpeed)
}

// Compensator is the handle returned by NewCompensator: the latency
// compensator, which owns an inner sampler and a command history.
type Compensator struct {
	inner *latency.Compensator
}

// CompensatorParams bundles new_compensator's params: the sampler's own
// params plus the compensation latency.
type CompensatorParams struct {
	SamplerParams
	Latency float64
}

// NewCompensator is the new_compensator operation. clk is optional;
// passing nil uses the system clock. A non-nil clk is intended for tests
// that need deterministic timing.
func NewCompensator(vehicle *geometry.Vehicle, params CompensatorParams, logger obslog.Logger, clk clock.Clock) (*Compensator, error) {
	inner, err := latency.NewCompensator(vehicle, params.ToPlannerConfig(), params.Latency, logger, clk)
	if err != nil {
		return nil, err
	}
	return &Compensator{inner: inner}, nil
}

// GenerateCommand is the compensator.generate_command operation: it
// projects state, transforms the cloud into the predicted future frame,
// delegates to the inner sampler, records the emitted command, and
// returns it.
func (c *Compensator) GenerateCommand(cloud []r3.Vector, currentSpeed, sensorTs float64) (Command, error) {
	return c.inner.GenerateCommand(cloud, currentSpeed, sensorTs)
}

// CalculateFreePathLength is the probe entry point, used by diagnostics
// and fallback control outside the primary tick.
func (c *Compensator) CalculateFreePathLength(cloud []r3.Vector, kappa, sensorTs float64) (float64, error) {
	return c.inner.CalculateFreePathLength(cloud, kappa, sensorTs)
}

// History returns a read-only snapshot of the compensator's surviving
// command history, oldest first.
func (c *Compensator) History() []latency.CommandStamped {
	return c.inner.History()
}
