package notify

// Settings holds the per-user notification preferences. Fetched on
// entry to the settings screen, mutated locally, persisted on explicit
// save only; local and remote may diverge until then.
type Settings struct {
	PushEnabled         bool `json:"pushNotificationsEnabled"`
	BloodRequests       bool `json:"bloodRequestsEnabled"`
	RequestUpdates      bool `json:"requestUpdatesEnabled"`
	DonationReminders   bool `json:"donationRemindersEnabled"`
	SystemAnnouncements bool `json:"systemAnnouncementsEnabled"`
}

// DefaultSettings returns the server defaults: everything on.
func DefaultSettings() Settings {
	return Settings{
		PushEnabled:         true,
		BloodRequests:       true,
		RequestUpdates:      true,
		DonationReminders:   true,
		SystemAnnouncements: true,
	}
}

// SetPushEnabled toggles the master switch. Disabling it forces all
// four subtype flags off; enabling it leaves them as they are.
func (s *Settings) SetPushEnabled(enabled bool) {
	s.PushEnabled = enabled
	if !enabled {
		s.BloodRequests = false
		s.RequestUpdates = false
		s.DonationReminders = false
		s.SystemAnnouncements = false
	}
}

// Normalize enforces the master-switch invariant on settings that may
// have been edited field-by-field (forms, decoded config).
func (s *Settings) Normalize() {
	if !s.PushEnabled {
		s.SetPushEnabled(false)
	}
}
