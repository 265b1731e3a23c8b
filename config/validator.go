package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError is a single invalid setting
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
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

// ValidBackends lists the accepted terminal.backend values
func ValidBackends() []string {
	return []string{"auto", "ansi", "tcell"}
}

// ValidLogLevels lists the accepted logging.level values
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats lists the accepted logging.format values
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// Validate returns every invalid setting, nil when the config is usable
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	positive := []struct {
		field string
		value int
	}{
		{"window.debounce_ms", c.Window.DebounceMs},
		{"window.poll_ms", c.Window.PollMs},
		{"window.idle_sleep_ms", c.Window.IdleSleepMs},
		{"window.stop_timeout_ms", c.Window.StopTimeoutMs},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, ValidationError{Field: p.field, Value: p.value, Message: "must be positive"})
		}
	}

	if !slices.Contains(ValidBackends(), strings.ToLower(c.Terminal.Backend)) {
		errs = append(errs, ValidationError{
			Field:   "terminal.backend",
			Value:   c.Terminal.Backend,
			Message: "must be one of " + strings.Join(ValidBackends(), ", "),
		})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be one of " + strings.Join(ValidLogLevels(), ", "),
		})
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Logging.Format)) {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: "must be one of " + strings.Join(ValidLogFormats(), ", "),
		})
	}
	if c.Logging.Enabled && c.Logging.Path == "" {
		errs = append(errs, ValidationError{Field: "logging.path", Value: "", Message: "required when logging is enabled"})
	}

	return errs
}
