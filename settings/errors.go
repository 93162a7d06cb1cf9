package settings

import (
	"errors"
	"fmt"
)

// ErrInvalidSettings is the sentinel every settings error satisfies.
var ErrInvalidSettings = errors.New("invalid settings")

// InvalidSettingsError reports a missing or malformed entry.
type InvalidSettingsError struct {
	Key    string
	Reason string
}

func (e *InvalidSettingsError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid settings: %s", e.Reason)
	}
	return fmt.Sprintf("invalid settings for key %q: %s", e.Key, e.Reason)
}

// Is reports whether target is ErrInvalidSettings.
func (e *InvalidSettingsError) Is(target error) bool {
	return target == ErrInvalidSettings
}

// Invalid returns an InvalidSettingsError for key.
func Invalid(key, format string, args ...any) error {
	return &InvalidSettingsError{Key: key, Reason: fmt.Sprintf(format, args...)}
}
