package prefs

import "fmt"

// UnknownSettingError is returned when a key is not one of the known
// preference keys.
type UnknownSettingError struct {
	Key string
}

func (e *UnknownSettingError) Error() string {
	return fmt.Sprintf("unknown setting %q", e.Key)
}

// InvalidSettingValueError is returned when a value has the wrong type or
// falls outside the accepted range for its key.
type InvalidSettingValueError struct {
	Key      string
	Value    any
	Accepted string
}

func (e *InvalidSettingValueError) Error() string {
	return fmt.Sprintf("invalid value %v for setting %q (accepted: %s)", e.Value, e.Key, e.Accepted)
}
