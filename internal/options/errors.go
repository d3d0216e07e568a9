package options

import (
	"errors"
	"fmt"

	"github.com/dl/linematch/internal/pattern"
)

var (
	// ErrUnknownOption is returned for an option name outside Names.
	ErrUnknownOption = errors.New("unknown option")
	// ErrUnknownFlavor is returned when the flavor option is not recognized.
	ErrUnknownFlavor = pattern.ErrUnknownFlavor
	// ErrInvalidDelete is returned for a delete entry that is not a pattern.
	ErrInvalidDelete = errors.New("invalid delete pattern")
	// ErrInvalidValue is returned when an option value has the wrong type.
	ErrInvalidValue = errors.New("invalid option value")
)

// ConfigError reports a rejected option. It unwraps to one of the sentinel
// errors above, or to the underlying cause (for instance an I/O error).
type ConfigError struct {
	Option string
	Value  any
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("option %q", e.Option)
	if e.Value != nil {
		msg += fmt.Sprintf(" (%v)", e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErr(name string, value any, err error, format string, args ...any) *ConfigError {
	return &ConfigError{Option: name, Value: value, Reason: fmt.Sprintf(format, args...), Err: err}
}
