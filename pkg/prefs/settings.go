package prefs

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

type Group string

const (
	GroupVisual       Group = "visual"
	GroupAudio        Group = "audio"
	GroupInteraction  Group = "interaction"
	GroupScreenReader Group = "screen-reader"
)

type Kind string

const (
	KindBool  Kind = "bool"
	KindInt   Kind = "int"
	KindFloat Kind = "float"
	KindEnum  Kind = "enum"
)

const (
	ThemeDefault      = "default"
	ThemeDark         = "dark"
	ThemeLight        = "light"
	ThemeHighContrast = "high-contrast"

	VoiceDefault = "default"
	VoiceMale    = "male"
	VoiceFemale  = "female"
	VoiceChild   = "child"
)

// Setting describes one preference key: where it is grouped, what it holds
// and which values are acceptable.
type Setting struct {
	Key     string
	Group   Group
	Kind    Kind
	Min     float64  // KindInt and KindFloat only
	Max     float64  // KindInt and KindFloat only
	Options []string // KindEnum only

	get func(*Preferences) any
	set func(*Preferences, any)
}

func (s Setting) Default() any {
	d := Defaults()
	return s.get(&d)
}

// Describe renders the accepted values for help output, e.g. "12..24".
func (s Setting) Describe() string {
	switch s.Kind {
	case KindBool:
		return "true|false"
	case KindEnum:
		return strings.Join(s.Options, "|")
	case KindInt:
		return fmt.Sprintf("%d..%d", int(s.Min), int(s.Max))
	default:
		return fmt.Sprintf("%g..%g", s.Min, s.Max)
	}
}

func boolSetting(key string, g Group, field func(*Preferences) *bool) Setting {
	return Setting{
		Key: key, Group: g, Kind: KindBool,
		get: func(p *Preferences) any { return *field(p) },
		set: func(p *Preferences, v any) { *field(p) = v.(bool) },
	}
}

func intSetting(key string, g Group, lo, hi int, field func(*Preferences) *int) Setting {
	return Setting{
		Key: key, Group: g, Kind: KindInt, Min: float64(lo), Max: float64(hi),
		get: func(p *Preferences) any { return *field(p) },
		set: func(p *Preferences, v any) { *field(p) = v.(int) },
	}
}

func floatSetting(key string, g Group, lo, hi float64, field func(*Preferences) *float64) Setting {
	return Setting{
		Key: key, Group: g, Kind: KindFloat, Min: lo, Max: hi,
		get: func(p *Preferences) any { return *field(p) },
		set: func(p *Preferences, v any) { *field(p) = v.(float64) },
	}
}

func enumSetting(key string, g Group, options []string, field func(*Preferences) *string) Setting {
	return Setting{
		Key: key, Group: g, Kind: KindEnum, Options: options,
		get: func(p *Preferences) any { return *field(p) },
		set: func(p *Preferences, v any) { *field(p) = v.(string) },
	}
}

var registry = []Setting{
	boolSetting("highContrast", GroupVisual, func(p *Preferences) *bool { return &p.HighContrast }),
	boolSetting("largeText", GroupVisual, func(p *Preferences) *bool { return &p.LargeText }),
	boolSetting("reducedMotion", GroupVisual, func(p *Preferences) *bool { return &p.ReducedMotion }),
	enumSetting("colorTheme", GroupVisual,
		[]string{ThemeDefault, ThemeDark, ThemeLight, ThemeHighContrast},
		func(p *Preferences) *string { return &p.ColorTheme }),
	intSetting("fontSize", GroupVisual, 12, 24, func(p *Preferences) *int { return &p.FontSize }),

	boolSetting("voiceNavigation", GroupAudio, func(p *Preferences) *bool { return &p.VoiceNavigation }),
	boolSetting("captions", GroupAudio, func(p *Preferences) *bool { return &p.Captions }),
	boolSetting("audioCues", GroupAudio, func(p *Preferences) *bool { return &p.AudioCues }),
	floatSetting("voiceSpeed", GroupAudio, 0.5, 2.0, func(p *Preferences) *float64 { return &p.VoiceSpeed }),
	intSetting("volume", GroupAudio, 0, 100, func(p *Preferences) *int { return &p.Volume }),

	boolSetting("keyboardNavigation", GroupInteraction, func(p *Preferences) *bool { return &p.KeyboardNavigation }),
	boolSetting("hapticFeedback", GroupInteraction, func(p *Preferences) *bool { return &p.HapticFeedback }),
	boolSetting("visualAlerts", GroupInteraction, func(p *Preferences) *bool { return &p.VisualAlerts }),
	intSetting("clickSensitivity", GroupInteraction, 1, 10, func(p *Preferences) *int { return &p.ClickSensitivity }),

	boolSetting("screenReader", GroupScreenReader, func(p *Preferences) *bool { return &p.ScreenReader }),
	intSetting("readingSpeed", GroupScreenReader, 50, 300, func(p *Preferences) *int { return &p.ReadingSpeed }),
	enumSetting("voiceType", GroupScreenReader,
		[]string{VoiceDefault, VoiceMale, VoiceFemale, VoiceChild},
		func(p *Preferences) *string { return &p.VoiceType }),
	boolSetting("readHeaders", GroupScreenReader, func(p *Preferences) *bool { return &p.ReadHeaders }),
	boolSetting("readLinks", GroupScreenReader, func(p *Preferences) *bool { return &p.ReadLinks }),
}

// Settings returns every known setting in display order.
func Settings() []Setting {
	return slices.Clone(registry)
}

// Keys returns every known key in display order.
func Keys() []string {
	keys := make([]string, len(registry))
	for i, s := range registry {
		keys[i] = s.Key
	}
	return keys
}

func Lookup(key string) (Setting, bool) {
	for _, s := range registry {
		if s.Key == key {
			return s, true
		}
	}
	return Setting{}, false
}

// ParseValue converts the textual form of a value (as typed on a command
// line) into the type key expects.
func ParseValue(key, raw string) (any, error) {
	s, ok := Lookup(key)
	if !ok {
		return nil, &UnknownSettingError{Key: key}
	}

	raw = strings.TrimSpace(raw)
	var v any
	switch s.Kind {
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, s.invalid(raw)
		}
		v = b
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, s.invalid(raw)
		}
		v = n
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, s.invalid(raw)
		}
		v = f
	default:
		v = raw
	}

	return s.coerce(v)
}

// coerce normalises value to the setting's Go type and validates it.
// Numbers arriving from JSON decode as float64, so integral floats are
// accepted for int settings.
func (s Setting) coerce(value any) (any, error) {
	switch s.Kind {
	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, s.invalid(value)
		}
		return b, nil

	case KindInt:
		f, ok := toFloat(value)
		if !ok || f != math.Trunc(f) {
			return nil, s.invalid(value)
		}
		if f < s.Min || f > s.Max {
			return nil, s.invalid(value)
		}
		return int(f), nil

	case KindFloat:
		f, ok := toFloat(value)
		if !ok || math.IsNaN(f) || f < s.Min || f > s.Max {
			return nil, s.invalid(value)
		}
		return f, nil

	case KindEnum:
		str, ok := value.(string)
		if !ok || !slices.Contains(s.Options, str) {
			return nil, s.invalid(value)
		}
		return str, nil
	}

	return nil, s.invalid(value)
}

func (s Setting) invalid(value any) error {
	return &InvalidSettingValueError{Key: s.Key, Value: value, Accepted: s.Describe()}
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
