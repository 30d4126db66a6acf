package obstacle

import "github.com/pkg/errors"

// ErrNonFiniteCloudPoint is wrapped with the offending point's index when a
// cloud contains a NaN or infinite coordinate.
var ErrNonFiniteCloudPoint = errors.New("point cloud contains a non-finite coordinate")

// ErrNegativeSpeed is returned when a caller supplies a negative current
// speed.
var ErrNegativeSpeed = errors.New("current speed must be >= 0")

// ErrImminentCollision wraps the free path length of an arc whose free
// path length has fallen below the braking distance available at the
// current speed. It is never fatal: the controller always still emits a
// decelerating command.
type ErrImminentCollision struct {
	FreePathLength float64
}

func (e *ErrImminentCollision) Error() string {
	return errors.Errorf("imminent collision: free path length %.4f is below braking distance", e.FreePathLength).Error()
}
