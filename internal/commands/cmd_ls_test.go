package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lifeline/internal/core/config"
	"github.com/colonyops/lifeline/internal/core/eventbus"
	"github.com/colonyops/lifeline/internal/core/notify"
	"github.com/colonyops/lifeline/internal/data/cache"
	"github.com/colonyops/lifeline/internal/lifeline"
	"github.com/colonyops/lifeline/internal/sync"
)

// stubStore returns canned pages and records mutations.
type stubStore struct {
	notify.Store

	list        notify.ListResult
	listErr     error
	markedRead  []string
	markedAll   int
	unreadCount int
}

func (s *stubStore) List(_ context.Context, _, _ int) (notify.ListResult, error) {
	return s.list, s.listErr
}

func (s *stubStore) MarkRead(_ context.Context, id string) error {
	s.markedRead = append(s.markedRead, id)
	return nil
}

func (s *stubStore) MarkAllRead(_ context.Context) (int, error) {
	s.markedAll++
	return s.unreadCount, nil
}

func (s *stubStore) UnreadCount(_ context.Context) (int, error) {
	return s.unreadCount, nil
}

func newTestApp(t *testing.T, store notify.Store) (*lifeline.App, *Flags) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	c, err := cache.Open(filepath.Join(cfg.DataDir, "lifeline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	bus := eventbus.New()
	svc := sync.NewService(store, bus, zerolog.Nop())
	app := lifeline.NewApp(&cfg, bus, store, svc, c)
	return app, &Flags{Config: &cfg}
}

func runCommand(t *testing.T, app *lifeline.App, flags *Flags, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	root := &cli.Command{Name: "lifeline", Writer: &out}
	root = NewLsCmd(flags, app).Register(root)
	root = NewReadCmd(flags, app).Register(root)
	root = NewUnreadCmd(flags, app).Register(root)

	require.NoError(t, root.Run(context.Background(), append([]string{"lifeline"}, args...)))
	return out.String()
}

func TestLsCmd(t *testing.T) {
	store := &stubStore{list: notify.ListResult{
		Notifications: []notify.Notification{
			{ID: "n-1", Type: notify.TypeBloodNeeded, Title: "O- needed", CreatedAt: time.Now()},
			{ID: "n-2", Type: notify.TypeDonationReminder, Title: "Time to donate", IsRead: true, CreatedAt: time.Now()},
		},
	}}
	app, flags := newTestApp(t, store)

	t.Run("table lists fetched notifications", func(t *testing.T) {
		out := runCommand(t, app, flags, "ls")
		assert.Contains(t, out, "O- needed")
		assert.Contains(t, out, "n-1")
		assert.Contains(t, out, "blood_needed")
	})

	t.Run("unread filter hides read rows", func(t *testing.T) {
		out := runCommand(t, app, flags, "ls", "--unread")
		assert.Contains(t, out, "n-1")
		assert.NotContains(t, out, "n-2")
	})

	t.Run("json emits one line per notification", func(t *testing.T) {
		out := runCommand(t, app, flags, "ls", "--json")
		assert.Contains(t, out, `"id":"n-1"`)
	})

	t.Run("cached mode reads the cache populated by earlier fetches", func(t *testing.T) {
		out := runCommand(t, app, flags, "ls", "--cached")
		assert.Contains(t, out, "n-1")
	})
}

func TestReadCmd(t *testing.T) {
	store := &stubStore{unreadCount: 3}
	app, flags := newTestApp(t, store)
	ctx := context.Background()

	require.NoError(t, app.Cache.StoreNotifications(ctx, []notify.Notification{
		{ID: "n-1", Type: notify.TypeBloodNeeded, CreatedAt: time.Now()},
	}))

	t.Run("marks one read remotely and in the cache", func(t *testing.T) {
		out := runCommand(t, app, flags, "read", "n-1")
		assert.Contains(t, out, "Marked n-1 read")
		assert.Equal(t, []string{"n-1"}, store.markedRead)

		cached, err := app.Cache.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, cached, 1)
		assert.True(t, cached[0].IsRead)
	})

	t.Run("read --all zeroes the cached count", func(t *testing.T) {
		out := runCommand(t, app, flags, "read", "--all")
		assert.Contains(t, out, "3 were unread")
		assert.Equal(t, 1, store.markedAll)

		count, ok, err := app.Cache.LastCount(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0, count)
	})
}

func TestUnreadCmd(t *testing.T) {
	store := &stubStore{unreadCount: 5}
	app, flags := newTestApp(t, store)

	out := runCommand(t, app, flags, "unread")
	assert.Contains(t, out, "5")

	count, ok, err := app.Cache.LastCount(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, count)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short string untouched", in: "O- needed", n: 20, want: "O- needed"},
		{name: "long ascii gets ellipsis", in: "urgent donor request", n: 10, want: "urgent do…"},
		{name: "multi-byte runes survive the cut", in: "übergroße Spendenaktion", n: 10, want: "übergroße…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.n))
		})
	}
}
