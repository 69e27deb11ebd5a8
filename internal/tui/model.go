package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/colonyops/lifeline/internal/api"
	"github.com/colonyops/lifeline/internal/core/config"
	"github.com/colonyops/lifeline/internal/core/notify"
	"github.com/colonyops/lifeline/internal/core/styles"
	"github.com/colonyops/lifeline/internal/data/cache"
	"github.com/colonyops/lifeline/internal/sync"
)

const requestTimeout = 10 * time.Second

// Deps are the services the TUI operates on.
type Deps struct {
	Config *config.Config
	Store  notify.Store
	Sync   *sync.Service
	Cache  *cache.Cache
	Logger zerolog.Logger
}

// Model is the root bubbletea model for the notification inbox.
type Model struct {
	deps Deps
	keys keyMap

	list   list.Model
	detail viewport.Model

	unread     int
	showDetail bool
	fromCache  bool
	banner     string
	bannerAt   time.Time
	err        error

	width  int
	height int
}

// NewModel creates the inbox model.
func NewModel(deps Deps) Model {
	l := list.New(nil, NotificationDelegate{}, 0, 0)
	l.Title = "Lifeline"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.Styles.Title = styles.Title

	return Model{
		deps: deps,
		keys: defaultKeyMap(),
		list: l,
	}
}

// Init loads the first page of notifications.
func (m Model) Init() tea.Cmd {
	return m.loadNotifications()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-3)
		m.detail.Width = msg.Width
		m.detail.Height = msg.Height - 3
		return m, nil

	case notificationsLoadedMsg:
		m.fromCache = msg.fromCache
		items := make([]list.Item, len(msg.notifications))
		for i, n := range msg.notifications {
			items[i] = NotificationItem{Notification: n}
		}
		return m, m.list.SetItems(items)

	case countChangedMsg:
		m.unread = msg.count
		return m, nil

	case newNotificationMsg:
		if m.deps.Config.Muted(msg.notification.Type) {
			return m, nil
		}
		m.banner = msg.notification.Title
		m.bannerAt = time.Now()
		items := append([]list.Item{NotificationItem{Notification: msg.notification}}, m.list.Items()...)
		return m, m.list.SetItems(items)

	case markedReadMsg:
		items := m.list.Items()
		for i, item := range items {
			ni, ok := item.(NotificationItem)
			if !ok || ni.Notification.ID != msg.id {
				continue
			}
			ni.Notification.IsRead = true
			items[i] = ni
		}
		return m, m.list.SetItems(items)

	case markedAllReadMsg:
		items := m.list.Items()
		for i, item := range items {
			if ni, ok := item.(NotificationItem); ok {
				ni.Notification.IsRead = true
				items[i] = ni
			}
		}
		return m, m.list.SetItems(items)

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// filtering consumes all keys
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if m.showDetail {
			m.showDetail = false
			return m, nil
		}

	case key.Matches(msg, m.keys.Open):
		if n, ok := m.selected(); ok {
			content := renderDetail(n, m.deps.Config.Theme, m.width)
			m.detail.SetContent(content)
			m.detail.GotoTop()
			m.showDetail = true
			if !n.IsRead {
				return m, m.markRead(n.ID)
			}
			return m, nil
		}

	case key.Matches(msg, m.keys.Read):
		if n, ok := m.selected(); ok && !n.IsRead {
			return m, m.markRead(n.ID)
		}

	case key.Matches(msg, m.keys.ReadAll):
		return m, m.markAllRead()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadNotifications()
	}

	var cmd tea.Cmd
	if m.showDetail {
		m.detail, cmd = m.detail.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// View renders the inbox.
func (m Model) View() string {
	header := m.headerView()

	body := m.list.View()
	if m.showDetail {
		body = m.detail.View()
	}

	help := styles.HelpText.Render("enter open · r read · R read all · ctrl+r refresh · q quit")
	if m.showDetail {
		help = styles.HelpText.Render("esc back · q quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}

func (m Model) headerView() string {
	badge := styles.BadgeStyle.Render(fmt.Sprintf("%d unread", m.unread))

	parts := badge
	if m.fromCache {
		parts += styles.MutedText.Render("  (offline, cached)")
	}
	if m.banner != "" && time.Since(m.bannerAt) < 10*time.Second {
		parts += "  " + styles.BannerStyle.Render("▲ "+m.banner)
	}
	if m.err != nil {
		parts += "  " + styles.ErrorText.Render(m.err.Error())
	}

	return parts
}

func (m Model) selected() (notify.Notification, bool) {
	item, ok := m.list.SelectedItem().(NotificationItem)
	if !ok {
		return notify.Notification{}, false
	}
	return item.Notification, true
}

func (m Model) loadNotifications() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		result, err := deps.Store.List(ctx, 1, 50)
		if err != nil {
			if api.IsNetwork(err) {
				cached, cacheErr := deps.Cache.Recent(ctx, 50)
				if cacheErr == nil {
					return notificationsLoadedMsg{notifications: cached, fromCache: true}
				}
			}
			return errMsg{err: err}
		}

		if err := deps.Cache.StoreNotifications(ctx, result.Notifications); err != nil {
			deps.Logger.Warn().Err(err).Msg("failed to cache notifications")
		}

		return notificationsLoadedMsg{notifications: result.Notifications}
	}
}

func (m Model) markRead(id string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := deps.Sync.MarkOneRead(ctx, id); err != nil {
			return errMsg{err: err}
		}
		if err := deps.Cache.MarkRead(ctx, id); err != nil {
			deps.Logger.Warn().Err(err).Msg("failed to update cache")
		}
		return markedReadMsg{id: id}
	}
}

func (m Model) markAllRead() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if _, err := deps.Sync.MarkAllRead(ctx); err != nil {
			return errMsg{err: err}
		}
		if err := deps.Cache.MarkAllRead(ctx); err != nil {
			deps.Logger.Warn().Err(err).Msg("failed to update cache")
		}
		if err := deps.Cache.SetLastCount(ctx, 0); err != nil {
			deps.Logger.Warn().Err(err).Msg("failed to update cache")
		}
		return markedAllReadMsg{}
	}
}
