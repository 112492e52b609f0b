package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports a settings value the compiler cannot translate.
	ErrInvalidInput = errors.New("invalid settings input")
	// ErrIsDirectory reports a logfile path that names an existing directory.
	ErrIsDirectory = errors.New("logfile is a directory")
)

// VariantError reports an unknown categorical value.
type VariantError struct {
	Axis  string
	Value string
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Axis, e.Value)
}

// Is makes VariantError match ErrInvalidInput.
func (e *VariantError) Is(target error) bool {
	return target == ErrInvalidInput
}
