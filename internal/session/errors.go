package session

import (
	"errors"
	"sort"
	"strings"
)

// ErrSuperseded is returned when an operation finished after a newer one
// had already started. Its result was discarded.
var ErrSuperseded = errors.New("session: superseded by a newer operation")

// ValidationError lists register form problems by field name. It is
// returned before any request is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid registration: " + strings.Join(parts, "; ")
}
