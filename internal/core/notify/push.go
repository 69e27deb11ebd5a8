package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrMalformedPayload is returned when a provider payload is missing
// required fields and cannot be normalized.
var ErrMalformedPayload = errors.New("malformed push payload")

// Provider payloads carry a display section and a data section, both
// optional at the wire level. Only data.type is required.
type pushEnvelope struct {
	Notification struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	} `json:"notification"`
	Data map[string]any `json:"data"`
}

const defaultPushTitle = "New Notification"

// DecodePush normalizes an opaque provider payload into a Notification.
// Missing title/body fall back to defaults; a missing or unknown
// data.type makes the payload malformed.
func DecodePush(raw []byte) (Notification, error) {
	if len(raw) == 0 {
		return Notification{}, fmt.Errorf("empty payload: %w", ErrMalformedPayload)
	}

	var env pushEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Notification{}, fmt.Errorf("decode payload: %w", ErrMalformedPayload)
	}

	typ, _ := env.Data["type"].(string)
	if typ == "" {
		return Notification{}, fmt.Errorf("missing data.type: %w", ErrMalformedPayload)
	}
	if !Type(typ).Valid() {
		return Notification{}, fmt.Errorf("unknown type %q: %w", typ, ErrMalformedPayload)
	}

	n := Notification{
		Type:      Type(typ),
		Title:     env.Notification.Title,
		Message:   env.Notification.Body,
		CreatedAt: time.Now(),
		IsRead:    false,
	}
	if n.Title == "" {
		n.Title = defaultPushTitle
	}

	meta := make(map[string]any, len(env.Data))
	for k, v := range env.Data {
		switch k {
		case "type":
		case "notificationId", "id":
			if s, ok := v.(string); ok && n.ID == "" {
				n.ID = s
			}
		case "bloodType":
			if s, ok := v.(string); ok {
				n.BloodType = s
			}
		case "actorName":
			if s, ok := v.(string); ok {
				n.ActorName = s
			}
		case "actorImage", "actorImageRef":
			if s, ok := v.(string); ok {
				n.ActorImageRef = s
			}
		case "createdAt":
			if s, ok := v.(string); ok {
				if ts, err := time.Parse(time.RFC3339, s); err == nil {
					n.CreatedAt = ts
				}
			}
		default:
			meta[k] = v
		}
	}
	if len(meta) > 0 {
		n.Metadata = meta
	}

	// The provider does not always echo the server id; local consumers
	// still need a stable identity for dedupe and display.
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	return n, nil
}
