package prefs

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode overlays a persisted JSON object onto Defaults. Keys that are
// missing, null, unknown or hold an unacceptable value keep their default;
// each skipped value is reported in issues. err is only set when data is
// not a JSON object at all.
func Decode(data []byte) (p Preferences, issues []error, err error) {
	p = Defaults()

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return p, nil, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return p, nil, fmt.Errorf("decode preferences: %w", err)
	}

	for _, s := range registry {
		msg, ok := raw[s.Key]
		if !ok || bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}

		var v any
		dec := json.NewDecoder(bytes.NewReader(msg))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			issues = append(issues, s.invalid(string(msg)))
			continue
		}

		cv, err := s.coerce(v)
		if err != nil {
			issues = append(issues, err)
			continue
		}
		s.set(&p, cv)
	}

	return p, issues, nil
}

// UnmarshalJSON merges the object over Defaults so that partial payloads,
// such as a server record that predates newer keys, are always complete.
func (p *Preferences) UnmarshalJSON(data []byte) error {
	decoded, _, err := Decode(data)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}
