package notify

import "context"

// Pagination describes one page of a server-side listing.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// ListResult is one page of notifications.
type ListResult struct {
	Notifications []Notification `json:"notifications"`
	Pagination    Pagination     `json:"pagination"`
}

// DeviceType identifies the platform a push token belongs to.
type DeviceType string

const (
	DeviceIOS     DeviceType = "ios"
	DeviceAndroid DeviceType = "android"
	DeviceWeb     DeviceType = "web"
)

// Device is a push delivery target registered with the server.
type Device struct {
	Token    string     `json:"token"`
	Type     DeviceType `json:"deviceType"`
	DeviceID string     `json:"deviceId,omitempty"`
}

// CountUnknown is returned by MarkAllRead when the server response did
// not include the previous unread count.
const CountUnknown = -1

// Store is the remote notification store. Implementations may fail any
// call with a network or server error; none of them retries.
type Store interface {
	// List returns one page of notifications, newest first.
	List(ctx context.Context, page, limit int) (ListResult, error)

	// MarkRead flags a single notification as read.
	MarkRead(ctx context.Context, id string) error

	// MarkAllRead flags every notification as read and returns the
	// previous unread count, or CountUnknown if the server omitted it.
	MarkAllRead(ctx context.Context) (int, error)

	// UnreadCount returns the authoritative unread count.
	UnreadCount(ctx context.Context) (int, error)

	// Settings fetches the current notification settings.
	Settings(ctx context.Context) (Settings, error)

	// UpdateSettings persists settings and returns the stored value.
	UpdateSettings(ctx context.Context, s Settings) (Settings, error)

	// RegisterDevice registers a push delivery token.
	RegisterDevice(ctx context.Context, d Device) error
}
