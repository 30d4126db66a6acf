package latency

import (
	"github.com/golang/geo/r3"
	"github.com/google/uuid"

	"github.com/viam-labs/obstacleavoid/planner"
)

// CommandStamped is a command paired with the monotonic timestamp (seconds
// since epoch) at which it was recorded.
type CommandStamped struct {
	Command   planner.Command
	Timestamp float64
	// ID lets a host telemetry pipeline join an emitted command against
	// downstream actuation logs; unused by the core itself.
	ID uuid.UUID
}

// State2D is the vehicle's projected pose and speed in the body frame of
// the last observation.
type State2D struct {
	Position r3.Vector
	Heading  float64
	Speed    float64
}
