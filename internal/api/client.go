// Package api implements the notification REST client. It maps every
// failure onto the network/server taxonomy and never retries; retry
// policy belongs to callers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/colonyops/lifeline/internal/core/notify"
)

const defaultTimeout = 10 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL    string
	Token      string // bearer token, optional
	UserAgent  string
	HTTPClient *http.Client
}

// Client talks to the notification endpoints. It implements
// notify.Store.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	httpc     *http.Client
}

var _ notify.Store = (*Client)(nil)

// New creates a Client. A nil HTTPClient gets a default with a 10s
// timeout.
func New(opts Options) *Client {
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "lifeline"
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		token:     opts.Token,
		userAgent: userAgent,
		httpc:     httpc,
	}
}

// List returns one page of notifications.
func (c *Client) List(ctx context.Context, page, limit int) (notify.ListResult, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/notifications"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out notify.ListResult
	if err := c.do(ctx, "list notifications", http.MethodGet, path, nil, &out); err != nil {
		return notify.ListResult{}, err
	}
	return out, nil
}

// MarkRead flags one notification as read.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	var out struct {
		Success        bool   `json:"success"`
		Message        string `json:"message"`
		NotificationID string `json:"notificationId"`
	}
	path := "/notifications/" + url.PathEscape(id) + "/read"
	return c.do(ctx, "mark read", http.MethodPut, path, nil, &out)
}

// MarkAllRead flags every notification as read. Returns the previous
// unread count when the server reports it, notify.CountUnknown when not.
func (c *Client) MarkAllRead(ctx context.Context) (int, error) {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Count   *int   `json:"count"`
	}
	if err := c.do(ctx, "mark all read", http.MethodPut, "/notifications/read-all", nil, &out); err != nil {
		return notify.CountUnknown, err
	}
	if out.Count == nil {
		return notify.CountUnknown, nil
	}
	return *out.Count, nil
}

// UnreadCount returns the authoritative unread count.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, "unread count", http.MethodGet, "/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Settings fetches the current notification settings.
func (c *Client) Settings(ctx context.Context) (notify.Settings, error) {
	var out notify.Settings
	if err := c.do(ctx, "get settings", http.MethodGet, "/notifications/settings", nil, &out); err != nil {
		return notify.Settings{}, err
	}
	return out, nil
}

// UpdateSettings persists settings and returns the stored value.
func (c *Client) UpdateSettings(ctx context.Context, s notify.Settings) (notify.Settings, error) {
	var out notify.Settings
	if err := c.do(ctx, "update settings", http.MethodPut, "/notifications/settings", s, &out); err != nil {
		return notify.Settings{}, err
	}
	return out, nil
}

// RegisterDevice registers a push delivery token.
func (c *Client) RegisterDevice(ctx context.Context, d notify.Device) error {
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	return c.do(ctx, "register device", http.MethodPost, "/notifications/register-token", d, &out)
}

// do executes one request/response cycle. A transport failure maps to
// KindNetwork, a non-2xx status to KindServer; a 2xx body that fails to
// decode is treated as a server fault as well.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:    KindServer,
			Op:      op,
			Status:  resp.StatusCode,
			Message: serverMessage(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: KindServer, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}

	return nil
}

// serverMessage extracts a human-readable message from an error body,
// tolerating both {"message": ...} and {"error": ...} shapes.
func serverMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4<<10))
	if err != nil {
		return ""
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
