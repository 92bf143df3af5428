// Package ui renders command output with a persisted colour theme. The
// theme lives under the keystore's "theme" key; this package never touches
// the durable store except through the Keystore interface.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tnlabs/auth-client-kit/internal/core/ports"
)

// Theme selects a colour palette for terminal output.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

// LoadTheme reads the persisted theme. Absent or unrecognised values fall
// back to system.
func LoadTheme(ks ports.Keystore) Theme {
	raw, ok := ks.Get(ports.KeyTheme)
	if !ok {
		return ThemeSystem
	}
	t := Theme(raw)
	if !t.Valid() {
		return ThemeSystem
	}
	return t
}

// SaveTheme persists the theme choice.
func SaveTheme(ks ports.Keystore, t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("ui: unknown theme %q (want light, dark, or system)", t)
	}
	return ks.Set(ports.KeyTheme, string(t))
}

// Styles is the set of lipgloss styles used by command output.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds the palette for a theme. System defers to the terminal's
// reported background via adaptive colours.
func NewStyles(t Theme) Styles {
	title := lipgloss.AdaptiveColor{Light: "#1a1a6e", Dark: "#8f9eff"}
	label := lipgloss.AdaptiveColor{Light: "#555555", Dark: "#aaaaaa"}
	value := lipgloss.AdaptiveColor{Light: "#111111", Dark: "#eeeeee"}
	errc := lipgloss.AdaptiveColor{Light: "#a61b1b", Dark: "#ff6b6b"}
	okc := lipgloss.AdaptiveColor{Light: "#1b6e2a", Dark: "#6bff8f"}
	muted := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#666666"}

	s := Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(title),
		Label:   lipgloss.NewStyle().Foreground(label),
		Value:   lipgloss.NewStyle().Foreground(value),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(errc),
		Success: lipgloss.NewStyle().Foreground(okc),
		Muted:   lipgloss.NewStyle().Faint(true).Foreground(muted),
	}

	// An explicit theme overrides terminal detection with fixed colours.
	switch t {
	case ThemeLight:
		s.Title = s.Title.Foreground(lipgloss.Color("#1a1a6e"))
		s.Value = s.Value.Foreground(lipgloss.Color("#111111"))
		s.Error = s.Error.Foreground(lipgloss.Color("#a61b1b"))
		s.Success = s.Success.Foreground(lipgloss.Color("#1b6e2a"))
	case ThemeDark:
		s.Title = s.Title.Foreground(lipgloss.Color("#8f9eff"))
		s.Value = s.Value.Foreground(lipgloss.Color("#eeeeee"))
		s.Error = s.Error.Foreground(lipgloss.Color("#ff6b6b"))
		s.Success = s.Success.Foreground(lipgloss.Color("#6bff8f"))
	}
	return s
}
