package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a complete color scheme. Themes are plain values: the application
// resolves one at startup and hands it to every presenter that draws, so
// there is no process-wide "current" theme.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Primary is the main accent color for important elements.
	Primary string
	// Secondary is used for less prominent elements.
	Secondary string
	// Success indicates positive outcomes or completed operations.
	Success string
	// Warning is used for caution messages or non-critical issues.
	Warning string
	// Error indicates failures or critical issues.
	Error string
	// Info is used for informational messages.
	Info string
	// Bold is the escape code for bold text.
	Bold string
	// Underline is the escape code for underlined text.
	Underline string
	// Reset clears all formatting.
	Reset string
	// TUI is the matching palette for the dashboard.
	TUI TUITheme
}

// TUITheme defines lipgloss-compatible colors for the TUI dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

var (
	darkTUI = TUITheme{
		Text:    lipgloss.Color("#E0E0E0"),
		Border:  lipgloss.Color("#5F87FF"),
		Accent:  lipgloss.Color("#00AFFF"),
		Success: lipgloss.Color("#9ece6a"),
		Warning: lipgloss.Color("#FFB347"),
		Error:   lipgloss.Color("#FF4444"),
		Dim:     lipgloss.Color("#666666"),
		Info:    lipgloss.Color("#AF87FF"),
	}

	lightTUI = TUITheme{
		Text:    lipgloss.Color("#1C1C1C"),
		Border:  lipgloss.Color("#005FD7"),
		Accent:  lipgloss.Color("#005FAF"),
		Success: lipgloss.Color("#008700"),
		Warning: lipgloss.Color("#AF5F00"),
		Error:   lipgloss.Color("#AF0000"),
		Dim:     lipgloss.Color("#808080"),
		Info:    lipgloss.Color("#5F0087"),
	}

	noColorTUI = TUITheme{
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
	}
)

// DarkTheme is optimized for dark terminal backgrounds.
func DarkTheme() Theme {
	return Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",  // Bright blue
		Secondary: "\033[38;5;245m", // Grey
		Success:   "\033[38;5;82m",  // Bright green
		Warning:   "\033[38;5;220m", // Yellow
		Error:     "\033[38;5;196m", // Red
		Info:      "\033[38;5;141m", // Purple
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
		TUI:       darkTUI,
	}
}

// LightTheme is optimized for light terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",  // Dark blue
		Secondary: "\033[38;5;240m", // Dark grey
		Success:   "\033[38;5;28m",  // Dark green
		Warning:   "\033[38;5;130m", // Orange
		Error:     "\033[38;5;124m", // Dark red
		Info:      "\033[38;5;54m",  // Dark purple
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
		TUI:       lightTUI,
	}
}

// NoColorTheme disables all color output.
func NoColorTheme() Theme {
	return Theme{Name: "none", TUI: noColorTUI}
}

var builders = map[string]func() Theme{
	"dark":  DarkTheme,
	"light": LightTheme,
	"none":  NoColorTheme,
}

// Names lists the available theme names.
func Names() []string {
	names := make([]string, 0, len(builders))
	for n := range builders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve picks the theme for a run. noColor, or a NO_COLOR variable in the
// environment (https://no-color.org/), selects NoColorTheme whatever name
// says. An empty name selects DarkTheme.
//
// Parameters:
//   - name: The requested theme name.
//   - noColor: The --no-color flag.
//   - lookupEnv: Environment lookup, normally os.LookupEnv.
//
// Returns:
//   - Theme: The resolved theme.
//   - error: If name is not a known theme.
func Resolve(name string, noColor bool, lookupEnv func(string) (string, bool)) (Theme, error) {
	build, ok := builders[strings.ToLower(strings.TrimSpace(name))]
	if name == "" {
		build, ok = DarkTheme, true
	}
	if !ok {
		return NoColorTheme(), fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	if noColor {
		return NoColorTheme(), nil
	}
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if _, set := lookupEnv("NO_COLOR"); set {
		return NoColorTheme(), nil
	}
	return build(), nil
}

// Enabled reports whether the theme emits escape codes.
func (t Theme) Enabled() bool {
	return t.Reset != ""
}

// Paint wraps s in color and the reset code. With a colorless theme s is
// returned as is.
func (t Theme) Paint(color, s string) string {
	if color == "" || !t.Enabled() {
		return s
	}
	return color + s + t.Reset
}
