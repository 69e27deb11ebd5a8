// Package lifeline wires the application's services together for the
// command layer.
package lifeline

import (
	"github.com/colonyops/lifeline/internal/core/config"
	"github.com/colonyops/lifeline/internal/core/eventbus"
	"github.com/colonyops/lifeline/internal/core/notify"
	"github.com/colonyops/lifeline/internal/data/cache"
	"github.com/colonyops/lifeline/internal/sync"
)

// App aggregates the long-lived services commands operate on. It is
// populated once in the CLI Before hook; commands hold a pointer to the
// pre-allocated struct.
type App struct {
	Config *config.Config
	Bus    *eventbus.EventBus
	Store  notify.Store
	Sync   *sync.Service
	Cache  *cache.Cache
}

// NewApp creates a new App with all services wired.
func NewApp(cfg *config.Config, bus *eventbus.EventBus, store notify.Store, svc *sync.Service, c *cache.Cache) *App {
	return &App{
		Config: cfg,
		Bus:    bus,
		Store:  store,
		Sync:   svc,
		Cache:  c,
	}
}
