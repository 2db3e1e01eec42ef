package tui

import "github.com/balkashynov/ssp/internal/models"

// Color constants for the ssp TUI theme
const (
	// Base Colors
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7" // Subtle purple-tinted grey
	ColorDisabledText  = "#6D7383"
	ColorHelpText      = "240" // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Logo, active borders, focus phase
	ColorAccentBright = "#A78BFA" // Highlights, current selection
	ColorBreak        = "#38BDF8" // Break phase

	// State Colors
	ColorError   = "#EF4444" // High priority, errors
	ColorSuccess = "#22C55E" // Done, low priority
	ColorWarning = "#F59E0B" // Medium priority, due today
)

// Logo is the banner shown by help and the dashboard
const Logo = `███████╗███████╗██████╗
██╔════╝██╔════╝██╔══██╗
███████╗███████╗██████╔╝
╚════██║╚════██║██╔═══╝
███████║███████║██║
╚══════╝╚══════╝╚═╝`

// palette is the set of colors that changes with the theme setting
type palette struct {
	Text   string
	Muted  string
	Border string
	Accent string
	Bright string
}

var (
	darkPalette = palette{
		Text:   ColorPrimaryText,
		Muted:  ColorSecondaryText,
		Border: ColorBorder,
		Accent: ColorAccentMain,
		Bright: ColorAccentBright,
	}
	lightPalette = palette{
		Text:   "#1F2330",
		Muted:  "#4B5263",
		Border: "#C9CCD6",
		Accent: ColorAccentMain,
		Bright: "#6D28D9",
	}
)

func paletteFor(theme models.Theme) palette {
	if theme == models.ThemeLight {
		return lightPalette
	}
	return darkPalette
}

// priorityColor maps a priority to its dot and label color
func priorityColor(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return ColorError
	case models.PriorityLow:
		return ColorSuccess
	default:
		return ColorWarning
	}
}
