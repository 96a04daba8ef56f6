package prefs

import "errors"

// Preferences is the full set of accessibility options. Every field always
// holds a value: decoding starts from Defaults and overlays what is present.
type Preferences struct {
	// Visual
	HighContrast  bool   `json:"highContrast"`
	LargeText     bool   `json:"largeText"`
	ReducedMotion bool   `json:"reducedMotion"`
	ColorTheme    string `json:"colorTheme"`
	FontSize      int    `json:"fontSize"`

	// Audio
	VoiceNavigation bool    `json:"voiceNavigation"`
	Captions        bool    `json:"captions"`
	AudioCues       bool    `json:"audioCues"`
	VoiceSpeed      float64 `json:"voiceSpeed"`
	Volume          int     `json:"volume"`

	// Interaction
	KeyboardNavigation bool `json:"keyboardNavigation"`
	HapticFeedback     bool `json:"hapticFeedback"`
	VisualAlerts       bool `json:"visualAlerts"`
	ClickSensitivity   int  `json:"clickSensitivity"`

	// Screen reader
	ScreenReader bool   `json:"screenReader"`
	ReadingSpeed int    `json:"readingSpeed"`
	VoiceType    string `json:"voiceType"`
	ReadHeaders  bool   `json:"readHeaders"`
	ReadLinks    bool   `json:"readLinks"`
}

// Defaults returns the complete default set. It is both what a fresh
// install starts from and what Reset restores.
func Defaults() Preferences {
	return Preferences{
		HighContrast:  false,
		LargeText:     false,
		ReducedMotion: false,
		ColorTheme:    ThemeDefault,
		FontSize:      16,

		VoiceNavigation: false,
		Captions:        true,
		AudioCues:       true,
		VoiceSpeed:      1.0,
		Volume:          50,

		KeyboardNavigation: true,
		HapticFeedback:     false,
		VisualAlerts:       false,
		ClickSensitivity:   5,

		ScreenReader: false,
		ReadingSpeed: 150,
		VoiceType:    VoiceDefault,
		ReadHeaders:  false,
		ReadLinks:    false,
	}
}

// Get returns the value stored under key.
func (p Preferences) Get(key string) (any, error) {
	s, ok := Lookup(key)
	if !ok {
		return nil, &UnknownSettingError{Key: key}
	}
	return s.get(&p), nil
}

// With returns a copy of p with key set to value. The value is coerced to
// the setting's type and checked against its range or allowed values.
func (p Preferences) With(key string, value any) (Preferences, error) {
	s, ok := Lookup(key)
	if !ok {
		return p, &UnknownSettingError{Key: key}
	}

	v, err := s.coerce(value)
	if err != nil {
		return p, err
	}

	s.set(&p, v)
	return p, nil
}

// Validate checks every value against its setting's range or allowed
// values. A zero Preferences fails: its numbers and enums are all out of
// range.
func (p Preferences) Validate() error {
	var errs []error
	for _, s := range registry {
		if _, err := s.coerce(s.get(&p)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Map returns every setting keyed by its wire name.
func (p Preferences) Map() map[string]any {
	out := make(map[string]any, len(registry))
	for _, s := range registry {
		out[s.Key] = s.get(&p)
	}
	return out
}

// Diff lists the keys whose values differ between p and other, in
// registry order.
func (p Preferences) Diff(other Preferences) []string {
	var keys []string
	for _, s := range registry {
		if s.get(&p) != s.get(&other) {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

// Presentation is what the rendering layer derives from the preferences.
type Presentation struct {
	HighContrast  bool
	FontSizePx    int
	Theme         string
	ReducedMotion bool
	Captions      bool
}

// largeTextPx is the minimum font size applied while largeText is on.
const largeTextPx = 20

func (p Preferences) Presentation() Presentation {
	size := p.FontSize
	if p.LargeText {
		size = max(size, largeTextPx)
	}

	return Presentation{
		HighContrast:  p.HighContrast || p.ColorTheme == ThemeHighContrast,
		FontSizePx:    size,
		Theme:         p.ColorTheme,
		ReducedMotion: p.ReducedMotion,
		Captions:      p.Captions,
	}
}
