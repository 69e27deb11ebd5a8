package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/colonyops/lifeline/internal/core/config"
	"github.com/colonyops/lifeline/internal/core/notify"
)

// renderDetail builds the markdown detail body for one notification and
// renders it for the terminal. Render failures fall back to the raw
// markdown so the modal always has content.
func renderDetail(n notify.Notification, theme string, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.Title)
	if n.Message != "" {
		fmt.Fprintf(&b, "%s\n\n", n.Message)
	}

	fmt.Fprintf(&b, "- **Type:** %s\n", n.Type)
	fmt.Fprintf(&b, "- **Received:** %s\n", n.CreatedAt.Local().Format("2006-01-02 15:04"))
	if n.BloodType != "" {
		fmt.Fprintf(&b, "- **Blood type:** %s\n", n.BloodType)
	}
	if n.ActorName != "" {
		fmt.Fprintf(&b, "- **From:** %s\n", n.ActorName)
	}
	for k, v := range n.Metadata {
		fmt.Fprintf(&b, "- **%s:** %v\n", k, v)
	}

	style := "dark"
	if theme == config.ThemeLight {
		style = "light"
	}

	wrap := width - 4
	if wrap < 20 {
		wrap = 80
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return b.String()
	}

	out, err := renderer.Render(b.String())
	if err != nil {
		return b.String()
	}
	return out
}
