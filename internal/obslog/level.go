package obslog

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// LevelFromString parses a level name case-insensitively, accepting
// "warning" as an alias for "Warn" the way go.viam.com/rdk/logging does.
func LevelFromString(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return 0, errors.Errorf("unknown log level %q", s)
	}
}

// MarshalJSON renders the level as its string form.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON parses the level from its string form.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := LevelFromString(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
