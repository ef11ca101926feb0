package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the lipgloss styles used for console summary output.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Header styles section headers.
	Header lipgloss.Style
	// Success indicates positive outcomes or completed operations.
	Success lipgloss.Style
	// Error indicates failures.
	Error lipgloss.Style
	// Warning is used for timeouts and cancellations.
	Warning lipgloss.Style
	// Dim is used for secondary detail such as durations and reasons.
	Dim lipgloss.Style
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:    "dark",
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}

	// LightTheme is optimized for light terminal backgrounds.
	LightTheme = Theme{
		Name:    "light",
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}

	// NoColorTheme disables all styling. Used when NO_COLOR is set or
	// color output is explicitly disabled.
	NoColorTheme = Theme{
		Name:    "none",
		Header:  lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetTheme changes the active theme by name.
// Valid names are: "dark", "light", "none".
// Unknown names default to dark theme.
//
// Parameters:
//   - name: The name of the theme to activate.
func SetTheme(name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	switch name {
	case "dark":
		currentTheme = DarkTheme
	case "light":
		currentTheme = LightTheme
	case "none":
		currentTheme = NoColorTheme
	default:
		currentTheme = DarkTheme
	}
}

// InitTheme initializes the theme based on the noColor flag and environment.
// It respects the NO_COLOR environment variable (https://no-color.org/) for
// accessibility. If noColor is true or NO_COLOR is set, colors are disabled.
//
// Parameters:
//   - noColor: If true, disables all color output regardless of environment.
func InitTheme(noColor bool) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if noColor {
		currentTheme = NoColorTheme
		return
	}

	// Any non-empty NO_COLOR value disables colors (per no-color.org spec).
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		currentTheme = NoColorTheme
		return
	}

	currentTheme = DarkTheme
}
