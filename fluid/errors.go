package fluid

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when a solver cannot be built for the
	// requested resolution. It is fatal: the caller must pick another
	// resolution and construct a new solver.
	ErrConfiguration = errors.New("fluid: invalid configuration")

	// ErrUnsupportedPlatform is returned when the presentation platform
	// cannot allocate the surfaces a solver needs.
	ErrUnsupportedPlatform = errors.New("fluid: unsupported platform")
)

// ConfigError describes a rejected grid resolution.
type ConfigError struct {
	Width, Height int
	Max           int
	Reason        string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("fluid: grid %dx%d rejected: %s (max %d)", e.Width, e.Height, e.Reason, e.Max)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigError) Unwrap() error { return ErrConfiguration }
