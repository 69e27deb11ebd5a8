package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/lifeline/internal/core/notify"
	"github.com/colonyops/lifeline/internal/core/styles"
)

// NotificationItem wraps a notification for the list component.
type NotificationItem struct {
	Notification notify.Notification
}

// FilterValue returns the value used for filtering.
func (i NotificationItem) FilterValue() string {
	n := i.Notification
	return fmt.Sprintf("%s %s %s", n.Type, n.Title, n.Message)
}

// NotificationDelegate handles rendering of notification items.
type NotificationDelegate struct{}

// Height returns the height of each item.
func (d NotificationDelegate) Height() int { return 2 }

// Spacing returns the spacing between items.
func (d NotificationDelegate) Spacing() int { return 1 }

// Update handles item updates.
func (d NotificationDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render renders a single notification item.
// Line 1: unread-dot Title • age
// Line 2: type and blood type, muted
func (d NotificationDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(NotificationItem)
	if !ok {
		return
	}

	n := ni.Notification

	dot := "  "
	if !n.IsRead {
		dot = styles.UnreadDot.Render("●") + " "
	}

	title := styles.NormalItem.Render(truncate(n.Title, m.Width()-16))
	meta := string(n.Type)
	if n.BloodType != "" {
		meta += "  " + n.BloodType
	}
	if n.ActorName != "" {
		meta += "  " + n.ActorName
	}

	line1 := dot + title + styles.MutedText.Render("  "+relTime(n.CreatedAt))
	line2 := "  " + styles.MutedText.Render(meta)

	block := lipgloss.JoinVertical(lipgloss.Left, line1, line2)
	if index == m.Index() {
		block = styles.SelectedBar.Render(block)
	} else {
		block = lipgloss.NewStyle().PaddingLeft(2).Render(block)
	}

	fmt.Fprint(w, block)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func relTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
