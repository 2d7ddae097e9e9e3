package config

import (
	"fmt"
	"strings"

	"github.com/balkashynov/wrkout/internal/logging"
)

// minTickIntervalMs keeps the counter goroutine from spinning
const minTickIntervalMs = 10

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Validate checks the Config and returns every problem found
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "paths.data_dir",
			Value:   c.Paths.DataDir,
			Message: "must not be empty",
		})
	}

	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be one of debug, info, warn, error",
		})
	}

	if c.Tracker.TickIntervalMs < minTickIntervalMs {
		errs = append(errs, ValidationError{
			Field:   "tracker.tick_interval_ms",
			Value:   c.Tracker.TickIntervalMs,
			Message: fmt.Sprintf("must be at least %d", minTickIntervalMs),
		})
	}

	return errs
}
