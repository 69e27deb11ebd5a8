// Package notify defines the notification domain model and the remote
// store contract. The server owns all notification state; clients hold
// read-through caches only.
package notify

import "time"

// Type classifies a notification. The set is closed; the server never
// sends values outside it.
type Type string

const (
	TypeBloodNeeded        Type = "blood_needed"
	TypeRequestAccepted    Type = "request_accepted"
	TypeDonationReminder   Type = "donation_reminder"
	TypeSystemAnnouncement Type = "system_announcement"
	TypeDonorChanged       Type = "donor_changed"
	TypeRequestCancelled   Type = "request_cancelled"
	TypeDonationCompleted  Type = "donation_completed"
)

// Types lists all valid notification types.
func Types() []Type {
	return []Type{
		TypeBloodNeeded,
		TypeRequestAccepted,
		TypeDonationReminder,
		TypeSystemAnnouncement,
		TypeDonorChanged,
		TypeRequestCancelled,
		TypeDonationCompleted,
	}
}

// Valid reports whether t is a member of the closed type set.
func (t Type) Valid() bool {
	switch t {
	case TypeBloodNeeded, TypeRequestAccepted, TypeDonationReminder,
		TypeSystemAnnouncement, TypeDonorChanged, TypeRequestCancelled,
		TypeDonationCompleted:
		return true
	}
	return false
}

// Notification is a single server-owned notification. Identity is ID
// (server-assigned, opaque, immutable). IsRead is the only field the
// client can mutate, and only false -> true.
type Notification struct {
	ID            string         `json:"id"`
	Type          Type           `json:"type"`
	CreatedAt     time.Time      `json:"createdAt"`
	IsRead        bool           `json:"isRead"`
	Title         string         `json:"title,omitempty"`
	Message       string         `json:"message,omitempty"`
	BloodType     string         `json:"bloodType,omitempty"`
	ActorName     string         `json:"actorName,omitempty"`
	ActorImageRef string         `json:"actorImageRef,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}
