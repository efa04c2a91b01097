// Package styles provides the dark and light themes for the docqa UI.
// Components receive a Styles value and never reach for global colors, so a
// theme switch is a single assignment.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

const (
	Dark  = "dark"
	Light = "light"
)

// Palette is the set of colors a theme is built from.
type Palette struct {
	Accent      color.Color
	Text        color.Color
	TextMuted   color.Color
	TextBright  color.Color
	Error       color.Color
	Warning     color.Color
	Success     color.Color
	Code        color.Color
	CodeBg      color.Color
	Placeholder color.Color
	Border      color.Color
	BorderMuted color.Color
	StatusFg    color.Color
	StatusBg    color.Color
}

// DarkPalette uses ANSI 256 colors tuned for dark backgrounds.
var DarkPalette = Palette{
	Accent:      lipgloss.Color("141"),
	Text:        lipgloss.Color("252"),
	TextMuted:   lipgloss.Color("245"),
	TextBright:  lipgloss.Color("15"),
	Error:       lipgloss.Color("196"),
	Warning:     lipgloss.Color("214"),
	Success:     lipgloss.Color("42"),
	Code:        lipgloss.Color("213"),
	CodeBg:      lipgloss.Color("235"),
	Placeholder: lipgloss.Color("240"),
	Border:      lipgloss.Color("141"),
	BorderMuted: lipgloss.Color("62"),
	StatusFg:    lipgloss.Color("#FAFAFA"),
	StatusBg:    lipgloss.Color("#7D56F4"),
}

// LightPalette keeps the same roles with darker foregrounds.
var LightPalette = Palette{
	Accent:      lipgloss.Color("55"),
	Text:        lipgloss.Color("235"),
	TextMuted:   lipgloss.Color("242"),
	TextBright:  lipgloss.Color("16"),
	Error:       lipgloss.Color("160"),
	Warning:     lipgloss.Color("130"),
	Success:     lipgloss.Color("28"),
	Code:        lipgloss.Color("90"),
	CodeBg:      lipgloss.Color("254"),
	Placeholder: lipgloss.Color("248"),
	Border:      lipgloss.Color("61"),
	BorderMuted: lipgloss.Color("146"),
	StatusFg:    lipgloss.Color("#1A1A1A"),
	StatusBg:    lipgloss.Color("#C9B8FF"),
}

// Styles is the rendered form of a Palette.
type Styles struct {
	Name string

	Box         lipgloss.Style
	BoxFocused  lipgloss.Style
	Title       lipgloss.Style
	Text        lipgloss.Style
	TextMuted   lipgloss.Style
	TextBold    lipgloss.Style
	Code        lipgloss.Style
	Placeholder lipgloss.Style
	Error       lipgloss.Style
	Warning     lipgloss.Style
	Badge       lipgloss.Style
	Footer      lipgloss.Style
	StatusBar   lipgloss.Style
}

// New builds a Styles set named name from p.
func New(name string, p Palette) Styles {
	return Styles{
		Name: name,

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.BorderMuted),
		BoxFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border),

		Title: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Text: lipgloss.NewStyle().
			Foreground(p.Text),
		TextMuted: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Italic(true),
		TextBold: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true),
		Code: lipgloss.NewStyle().
			Foreground(p.Code).
			Background(p.CodeBg),
		Placeholder: lipgloss.NewStyle().
			Foreground(p.Placeholder).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(p.Error),
		Warning: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true),
		Badge: lipgloss.NewStyle().
			Foreground(p.Success).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Italic(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.StatusFg).
			Background(p.StatusBg).
			Padding(0, 1).
			Bold(true),
	}
}

// ForName returns the styles for "dark" or "light". Anything else is dark.
func ForName(name string) Styles {
	if name == Light {
		return New(Light, LightPalette)
	}
	return New(Dark, DarkPalette)
}

// Toggle returns the other theme's name.
func Toggle(name string) string {
	if name == Light {
		return Dark
	}
	return Light
}

// Default picks the theme for a terminal background when nothing is persisted.
func Default(isDarkBackground bool) string {
	if isDarkBackground {
		return Dark
	}
	return Light
}
