package models

// Theme is the UI color scheme
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

const (
	DefaultFocusMinutes = 25
	DefaultBreakMinutes = 5
)

// Settings holds user preferences
type Settings struct {
	FocusMinutes int   `json:"focusMinutes" yaml:"focus_minutes"`
	BreakMinutes int   `json:"breakMinutes" yaml:"break_minutes"`
	Theme        Theme `json:"theme" yaml:"theme"`
	FirstDay     int   `json:"firstDay" yaml:"first_day"` // 0 = Sunday
	Reminders    bool  `json:"reminders" yaml:"reminders"`
}

// DefaultSettings returns the settings used when nothing is persisted
func DefaultSettings() Settings {
	return Settings{
		FocusMinutes: DefaultFocusMinutes,
		BreakMinutes: DefaultBreakMinutes,
		Theme:        ThemeDark,
		FirstDay:     0,
		Reminders:    false,
	}
}

// Normalize coerces settings into their valid ranges.
// Zero minutes fall back to the defaults, negative minutes become 1.
func (s Settings) Normalize() Settings {
	s.FocusMinutes = clampMinutes(s.FocusMinutes, DefaultFocusMinutes)
	s.BreakMinutes = clampMinutes(s.BreakMinutes, DefaultBreakMinutes)
	if s.Theme != ThemeLight {
		s.Theme = ThemeDark
	}
	if s.FirstDay < 0 || s.FirstDay > 6 {
		s.FirstDay = 0
	}
	return s
}

func clampMinutes(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	if v < 1 {
		return 1
	}
	return v
}
