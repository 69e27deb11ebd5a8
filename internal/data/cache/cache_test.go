package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/lifeline/internal/core/notify"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := Open(filepath.Join(t.TempDir(), "lifeline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_DeviceID(t *testing.T) {
	c := newTestCache(t)
	ctx := t.Context()

	id, err := c.DeviceID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id, "fresh cache has no device id")

	require.NoError(t, c.SetDeviceID(ctx, "device-1"))

	id, err = c.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "device-1", id)

	// overwrite is allowed
	require.NoError(t, c.SetDeviceID(ctx, "device-2"))
	id, err = c.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "device-2", id)
}

func TestCache_LastCount(t *testing.T) {
	c := newTestCache(t)
	ctx := t.Context()

	_, ok, err := c.LastCount(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fresh cache has no count")

	require.NoError(t, c.SetLastCount(ctx, 7))

	count, ok, err := c.LastCount(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, count)

	require.NoError(t, c.SetLastCount(ctx, 0))

	count, ok, err = c.LastCount(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, count)
}

func TestCache_Notifications(t *testing.T) {
	c := newTestCache(t)
	ctx := t.Context()

	now := time.Now().Truncate(time.Millisecond)
	batch := []notify.Notification{
		{
			ID:        "n-1",
			Type:      notify.TypeBloodNeeded,
			Title:     "Urgent: O- needed",
			Message:   "A nearby hospital needs O- blood.",
			BloodType: "O-",
			CreatedAt: now.Add(-time.Hour),
			Metadata:  map[string]any{"requestId": "req-9"},
		},
		{
			ID:        "n-2",
			Type:      notify.TypeRequestAccepted,
			Title:     "Request accepted",
			ActorName: "Dana",
			IsRead:    true,
			CreatedAt: now,
		},
	}
	require.NoError(t, c.StoreNotifications(ctx, batch))

	got, err := c.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// newest first
	assert.Equal(t, "n-2", got[0].ID)
	assert.Equal(t, "n-1", got[1].ID)
	assert.Equal(t, notify.TypeBloodNeeded, got[1].Type)
	assert.Equal(t, "O-", got[1].BloodType)
	assert.Equal(t, "req-9", got[1].Metadata["requestId"])
	assert.True(t, got[1].CreatedAt.Equal(now.Add(-time.Hour)))

	t.Run("upsert updates read state", func(t *testing.T) {
		batch[0].IsRead = true
		require.NoError(t, c.StoreNotifications(ctx, batch[:1]))

		got, err := c.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 2, "upsert must not duplicate rows")
		assert.True(t, got[1].IsRead)
	})
}

func TestCache_MarkRead(t *testing.T) {
	c := newTestCache(t)
	ctx := t.Context()

	require.NoError(t, c.StoreNotifications(ctx, []notify.Notification{
		{ID: "a", Type: notify.TypeBloodNeeded, CreatedAt: time.Now()},
		{ID: "b", Type: notify.TypeDonationReminder, CreatedAt: time.Now()},
	}))

	require.NoError(t, c.MarkRead(ctx, "a"))

	got, err := c.Recent(ctx, 10)
	require.NoError(t, err)
	byID := map[string]bool{}
	for _, n := range got {
		byID[n.ID] = n.IsRead
	}
	assert.True(t, byID["a"])
	assert.False(t, byID["b"])

	require.NoError(t, c.MarkAllRead(ctx))

	got, err = c.Recent(ctx, 10)
	require.NoError(t, err)
	for _, n := range got {
		assert.True(t, n.IsRead, "notification %s should be read", n.ID)
	}
}

func TestCache_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lifeline.db")
	ctx := t.Context()

	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.SetDeviceID(ctx, "stable-id"))
	require.NoError(t, c.SetLastCount(ctx, 3))
	require.NoError(t, c.Close())

	// reopening runs migrations again and keeps data intact
	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()

	id, err := c.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "stable-id", id)

	count, ok, err := c.LastCount(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, count)
}
