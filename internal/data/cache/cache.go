// Package cache is the local SQLite read-through cache: recently seen
// notifications, the last known unread count, and the install's device
// id. It is never canonical; the server owns all notification state,
// and everything here exists to avoid blank screens before the first
// fetch resolves.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/colonyops/lifeline/internal/core/notify"
)

// Cache wraps the local SQLite database.
type Cache struct {
	db *sqlx.DB
}

// Open opens (or creates) the cache database at dbPath, enables WAL
// mode, and runs any pending schema migrations.
func Open(dbPath string) (*Cache, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	c := &Cache{db: db}
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// DeviceID returns the persisted device id, or "" when none exists yet.
func (c *Cache) DeviceID(ctx context.Context) (string, error) {
	var id string
	err := c.db.GetContext(ctx, &id, "SELECT device_id FROM device WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read device id: %w", err)
	}
	return id, nil
}

// SetDeviceID persists the install's device id.
func (c *Cache) SetDeviceID(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx,
		"INSERT INTO device (id, device_id) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET device_id = excluded.device_id",
		id,
	)
	if err != nil {
		return fmt.Errorf("persist device id: %w", err)
	}
	return nil
}

// LastCount returns the last cached unread count. ok is false when no
// count has ever been cached.
func (c *Cache) LastCount(ctx context.Context) (count int, ok bool, err error) {
	err = c.db.GetContext(ctx, &count, "SELECT count FROM unread_count WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read cached count: %w", err)
	}
	return count, true, nil
}

// SetLastCount caches the unread count.
func (c *Cache) SetLastCount(ctx context.Context, count int) error {
	_, err := c.db.ExecContext(ctx,
		"INSERT INTO unread_count (id, count, fetched_at) VALUES (1, ?, ?) ON CONFLICT(id) DO UPDATE SET count = excluded.count, fetched_at = excluded.fetched_at",
		count, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("cache count: %w", err)
	}
	return nil
}

type notificationRow struct {
	ID        string         `db:"id"`
	Type      string         `db:"type"`
	Title     sql.NullString `db:"title"`
	Message   sql.NullString `db:"message"`
	BloodType sql.NullString `db:"blood_type"`
	ActorName sql.NullString `db:"actor_name"`
	IsRead    bool           `db:"is_read"`
	CreatedAt int64          `db:"created_at"`
	Metadata  sql.NullString `db:"metadata"`
}

// StoreNotifications upserts a batch of notifications into the cache.
func (c *Cache) StoreNotifications(ctx context.Context, ns []notify.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const stmt = `INSERT INTO notifications (id, type, title, message, blood_type, actor_name, is_read, created_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_read = excluded.is_read,
			title = excluded.title,
			message = excluded.message`

	for _, n := range ns {
		var meta any
		if len(n.Metadata) > 0 {
			data, err := json.Marshal(n.Metadata)
			if err != nil {
				return fmt.Errorf("encode metadata for %s: %w", n.ID, err)
			}
			meta = string(data)
		}

		_, err := tx.ExecContext(ctx, stmt,
			n.ID, string(n.Type), n.Title, n.Message, n.BloodType, n.ActorName,
			n.IsRead, n.CreatedAt.UnixNano(), meta,
		)
		if err != nil {
			return fmt.Errorf("upsert notification %s: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// Recent returns the most recently created cached notifications.
func (c *Cache) Recent(ctx context.Context, limit int) ([]notify.Notification, error) {
	var rows []notificationRow
	err := c.db.SelectContext(ctx, &rows,
		"SELECT * FROM notifications ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list cached notifications: %w", err)
	}

	out := make([]notify.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToNotification(row))
	}
	return out, nil
}

// MarkRead flags one cached notification read, mirroring a confirmed
// server mutation.
func (c *Cache) MarkRead(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, "UPDATE notifications SET is_read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark cached notification read: %w", err)
	}
	return nil
}

// MarkAllRead flags every cached notification read.
func (c *Cache) MarkAllRead(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, "UPDATE notifications SET is_read = 1")
	if err != nil {
		return fmt.Errorf("mark cached notifications read: %w", err)
	}
	return nil
}

func rowToNotification(row notificationRow) notify.Notification {
	n := notify.Notification{
		ID:        row.ID,
		Type:      notify.Type(row.Type),
		Title:     row.Title.String,
		Message:   row.Message.String,
		BloodType: row.BloodType.String,
		ActorName: row.ActorName.String,
		IsRead:    row.IsRead,
		CreatedAt: time.Unix(0, row.CreatedAt),
	}
	if row.Metadata.Valid && row.Metadata.String != "" {
		_ = json.Unmarshal([]byte(row.Metadata.String), &n.Metadata)
	}
	return n
}
