// Package obstacle implements the arc evaluator: for
// a single constant-curvature arc, compute the free path length and
// lateral clearance against a point cloud expressed in the robot body
// frame.
package obstacle

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/viam-labs/obstacleavoid/geometry"
)

// DefaultHorizon is the hard-coded forward distance (meters) beyond which
// no obstacle is considered.
const DefaultHorizon = 10.0

// Config holds the tunables the arc evaluator needs beyond the vehicle and
// controller parameters already carried by its caller.
type Config struct {
	// Horizon is the maximum distance considered free of obstacles absent
	// any evidence otherwise. Defaults to DefaultHorizon when zero.
	Horizon float64
	// CorrectedClearanceFormula switches the arc clearance-along-the-sweep
	// term from the source's imprecise |r*cos(theta) - R| - w/2 - m to the
	// geometrically correct |r - R| - w/2 - m.
	CorrectedClearanceFormula bool
}

func (c Config) horizon() float64 {
	if c.Horizon == 0 {
		return DefaultHorizon
	}
	return c.Horizon
}

// Condition names the collision condition that produced the binding
// constraint on free path length, for diagnostics only.
type Condition string

const (
	ConditionNone       Condition = "none"
	ConditionStraight   Condition = "straight"
	ConditionInnerSide  Condition = "inner_side"
	ConditionFrontStrike Condition = "front_strike"
	ConditionOuterRear  Condition = "outer_rear"
)

// Diagnostics reports which cloud point (if any) produced the returned
// free path length, and under which collision condition. It is purely
// additive: callers that pass a nil *Diagnostics pay nothing for it.
type Diagnostics struct {
	PointIndex int
	Condition  Condition
}

// Result is the output of evaluating one arc against one cloud.
type Result struct {
	FreePathLength float64
	Clearance      float64
}

// ValidateCloud rejects a cloud containing a non-finite coordinate,
// aggregating every offending point into a single multierr-wrapped error.
func ValidateCloud(cloud []r3.Vector) error {
	var errs error
	for i, p := range cloud {
		if !finite(p.X) || !finite(p.Y) {
			errs = multierr.Append(errs, errors.Wrapf(ErrNonFiniteCloudPoint, "cloud point %d", i))
		}
	}
	return errs
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Evaluate computes the free path length and clearance of the constant
// curvature arc kappa against cloud. margin is the
// additive lateral safety buffer and maxClearance caps the clearance
// search. diag, if non-nil, is populated with which point bound the
// returned free path length.
func Evaluate(
	cloud []r3.Vector,
	kappa float64,
	veh geometry.Vehicle,
	margin, maxClearance float64,
	cfg Config,
	diag *Diagnostics,
) Result {
	if diag != nil {
		*diag = Diagnostics{PointIndex: -1, Condition: ConditionNone}
	}
	if geometry.IsStraight(kappa) {
		return evaluateStraight(cloud, veh, margin, maxClearance, cfg, diag)
	}
	return evaluateArc(cloud, kappa, veh, margin, maxClearance, cfg, diag)
}

func straightHorizon(veh geometry.Vehicle, margin float64, cfg Config) float64 {
	return cfg.horizon() - (margin + veh.FrontOverhang())
}

func evaluateStraight(
	cloud []r3.Vector,
	veh geometry.Vehicle,
	margin, maxClearance float64,
	cfg Config,
	diag *Diagnostics,
) Result {
	freePathLength := straightHorizon(veh, margin, cfg)
	clearance := maxClearance
	sideLimit := veh.HalfWidth() + margin

	for i, p := range cloud {
		if math.Abs(p.Y) <= sideLimit && p.X > 0 {
			candidate := p.X - (margin + veh.FrontOverhang())
			if candidate < freePathLength {
				freePathLength = candidate
				if diag != nil {
					diag.PointIndex = i
					diag.Condition = ConditionStraight
				}
			}
		}
	}
	if freePathLength < 0 {
		freePathLength = 0
	}

	for _, p := range cloud {
		absY := math.Abs(p.Y)
		if absY >= sideLimit && absY <= maxClearance && p.X >= 0 && p.X <= freePathLength+veh.Wheelbase {
			contribution := absY - veh.Wheelbase/2 - margin
			if contribution < clearance {
				clearance = contribution
			}
		}
	}
	clearance = geometry.Clamp(clearance, 0, maxClearance)

	return Result{FreePathLength: freePathLength, Clearance: clearance}
}

// swept holds the five footprint-swept radii of section 4.C, all measured
// from the ICR at (0, R).
type swept struct {
	innerRear, innerFront, outerFront, outerRear, outerRearAxle float64
}

func sweptRadii(radius float64, veh geometry.Vehicle, margin float64) swept {
	halfWidthMargin := margin + veh.HalfWidth()
	frontReach := margin + veh.FrontOverhang()
	rearReach := margin + veh.RearOverhang()

	innerRear := radius - halfWidthMargin
	return swept{
		innerRear:     innerRear,
		innerFront:    math.Hypot(radius-halfWidthMargin, frontReach),
		outerFront:    math.Hypot(radius+halfWidthMargin, frontReach),
		outerRear:     math.Hypot(radius+halfWidthMargin, rearReach),
		outerRearAxle: radius + halfWidthMargin,
	}
}

func evaluateArc(
	cloud []r3.Vector,
	kappa float64,
	veh geometry.Vehicle,
	margin, maxClearance float64,
	cfg Config,
	diag *Diagnostics,
) Result {
	radius := geometry.ArcRadius(kappa)
	right := kappa < 0

	radii := sweptRadii(radius, veh, margin)
	freePathLength := straightHorizon(veh, margin, cfg)

	outerRearBest := math.Inf(1)
	outerRearIndex := -1

	for i, raw := range cloud {
		p := raw
		if right {
			p = geometry.ReflectY(p)
		}

		r := geometry.PointRadiusFromICR(p, radius)
		theta := geometry.PointAngleFromICR(p, radius)

		if r < radii.innerRear || r > math.Max(radii.outerFront, radii.outerRear) {
			continue
		}

		switch {
		case r >= radii.innerRear && r < radii.innerFront && theta > 0:
			psi := math.Acos(geometry.Clamp(radii.innerRear/r, -1, 1))
			if commit := radius * (theta - psi); commit >= 0 && commit < freePathLength {
				freePathLength = commit
				if diag != nil {
					diag.PointIndex = i
					diag.Condition = ConditionInnerSide
				}
			}
		case r >= radii.innerFront && r < radii.outerFront && theta > 0:
			psi := math.Asin(geometry.Clamp((margin+veh.FrontOverhang())/r, -1, 1))
			if commit := radius * (theta - psi); commit >= 0 && commit < freePathLength {
				freePathLength = commit
				if diag != nil {
					diag.PointIndex = i
					diag.Condition = ConditionFrontStrike
				}
			}
		}

		// Outer-rear strike (condition 3) is evaluated for diagnostics
		// only; this preserves the source's behavior
		// of never letting it tighten the free path length. Its tightest
		// candidate is still tracked so diag can report it when it would
		// have bound.
		if commit := outerRearCandidate(p, r, theta, radii, veh, margin, radius); commit < outerRearBest {
			outerRearBest = commit
			outerRearIndex = i
		}
	}

	if freePathLength < 0 {
		freePathLength = 0
	}

	if diag != nil && outerRearIndex >= 0 && outerRearBest >= 0 && outerRearBest < freePathLength {
		diag.PointIndex = outerRearIndex
		diag.Condition = ConditionOuterRear
	}

	clearance := arcClearance(cloud, right, radius, freePathLength, veh, margin, maxClearance, cfg)
	return Result{FreePathLength: freePathLength, Clearance: clearance}
}

// outerRearCandidate computes condition 3's candidate free path length
// contribution, matching the source it is grounded on: calculated, but
// intentionally never committed to the returned free path length (see
// DESIGN.md, section 9 open question).
func outerRearCandidate(p r3.Vector, r, theta float64, radii swept, veh geometry.Vehicle, margin, radius float64) float64 {
	behindRearCorner := math.Abs(p.X) < margin+veh.RearOverhang() && math.Abs(p.Y) > veh.HalfWidth()+margin
	if !(r >= radii.outerRearAxle && r < radii.outerRear && behindRearCorner) {
		return math.Inf(1)
	}
	psi := -math.Acos(geometry.Clamp(radii.outerRearAxle/r, -1, 1))
	return radius * (theta - psi)
}

func arcClearance(
	cloud []r3.Vector,
	right bool,
	radius, freePathLength float64,
	veh geometry.Vehicle,
	margin, maxClearance float64,
	cfg Config,
) float64 {
	clearance := maxClearance
	halfWidthMargin := margin + veh.HalfWidth()
	phi := geometry.ArcAngleForLength(radius, freePathLength)
	terminal := geometry.AdvancePose(radius, phi)
	sideLimit := veh.HalfWidth() + margin

	for _, raw := range cloud {
		p := raw
		if right {
			p = geometry.ReflectY(p)
		}

		r := geometry.PointRadiusFromICR(p, radius)
		theta := geometry.PointAngleFromICR(p, radius)

		if theta >= 0 && theta <= phi && r >= radius-halfWidthMargin-maxClearance && r <= radius+halfWidthMargin+maxClearance {
			var contribution float64
			if cfg.CorrectedClearanceFormula {
				contribution = math.Abs(r-radius) - veh.HalfWidth() - margin
			} else {
				contribution = math.Abs(r*math.Cos(theta)-radius) - veh.HalfWidth() - margin
			}
			if contribution < clearance {
				clearance = contribution
			}
		}

		terminalFrame := terminal.TransformInverse(p)
		absY := math.Abs(terminalFrame.Y)
		if absY >= sideLimit && absY <= maxClearance && terminalFrame.X >= 0 && terminalFrame.X <= veh.Length {
			contribution := absY - veh.Wheelbase/2 - margin
			if contribution < clearance {
				clearance = contribution
			}
		}
	}

	return geometry.Clamp(clearance, 0, maxClearance)
}
