// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.TerminalColor
	Secondary  lipgloss.TerminalColor
	Foreground lipgloss.TerminalColor
	Muted      lipgloss.TerminalColor
	Surface    lipgloss.TerminalColor
	Success    lipgloss.TerminalColor
	Warning    lipgloss.TerminalColor
	Error      lipgloss.TerminalColor
}

// Built-in theme names, matching the config's theme setting.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

var themes = map[string]Palette{
	ThemeDark: {
		Primary:    lipgloss.Color("#e06c75"),
		Secondary:  lipgloss.Color("#61afef"),
		Foreground: lipgloss.Color("#abb2bf"),
		Muted:      lipgloss.Color("#5c6370"),
		Surface:    lipgloss.Color("#3e4451"),
		Success:    lipgloss.Color("#98c379"),
		Warning:    lipgloss.Color("#e5c07b"),
		Error:      lipgloss.Color("#be5046"),
	},
	ThemeLight: {
		Primary:    lipgloss.Color("#ca1243"),
		Secondary:  lipgloss.Color("#4078f2"),
		Foreground: lipgloss.Color("#383a42"),
		Muted:      lipgloss.Color("#a0a1a7"),
		Surface:    lipgloss.Color("#e5e5e6"),
		Success:    lipgloss.Color("#50a14f"),
		Warning:    lipgloss.Color("#c18401"),
		Error:      lipgloss.Color("#e45649"),
	},
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Shared styles, rebuilt by SetTheme.
var (
	Title       lipgloss.Style
	Header      lipgloss.Style
	BadgeStyle  lipgloss.Style
	UnreadDot   lipgloss.Style
	MutedText   lipgloss.Style
	NormalItem  lipgloss.Style
	SelectedBar lipgloss.Style
	BannerStyle lipgloss.Style
	ErrorText   lipgloss.Style
	HelpText    lipgloss.Style
)

// SetTheme installs a palette and rebuilds the shared styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	Title = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	Header = lipgloss.NewStyle().Foreground(p.Foreground).Bold(true)
	BadgeStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	UnreadDot = lipgloss.NewStyle().Foreground(p.Primary)
	MutedText = lipgloss.NewStyle().Foreground(p.Muted)
	NormalItem = lipgloss.NewStyle().Foreground(p.Foreground)
	SelectedBar = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(p.Primary).
		PaddingLeft(1)
	BannerStyle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true)
	ErrorText = lipgloss.NewStyle().Foreground(p.Error)
	HelpText = lipgloss.NewStyle().Foreground(p.Muted)
}

func init() {
	SetTheme(themes[ThemeDark])
}
