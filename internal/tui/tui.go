// Package tui implements the interactive notification inbox.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/lifeline/internal/badge"
	"github.com/colonyops/lifeline/internal/core/eventbus"
)

// Run starts the inbox TUI and blocks until it exits. The badge
// controller and event bus bridge feed the program while it runs and
// are torn down on exit.
func Run(ctx context.Context, deps Deps, bus *eventbus.EventBus, svc badge.Syncer) error {
	p := tea.NewProgram(NewModel(deps), tea.WithAltScreen(), tea.WithContext(ctx))

	// Bridge bus events into the program.
	newSub := bus.SubscribeNewNotification(func(payload eventbus.NewNotificationPayload) {
		p.Send(newNotificationMsg{notification: payload.Notification})
	})
	defer newSub.Unsubscribe()

	seed := 0
	if count, ok, err := deps.Cache.LastCount(ctx); err == nil && ok {
		seed = count
	}

	controller := badge.NewController(svc, bus, badge.Options{
		Interval: deps.Config.Badge.PollInterval,
		Seed:     seed,
		Logger:   deps.Logger,
	})
	controller.OnChange(func(count int) {
		p.Send(countChangedMsg{count: count})
	})
	controller.Start(ctx)
	defer controller.Stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
