package tui

import "github.com/colonyops/lifeline/internal/core/notify"

// Messages delivered to the model, either from commands or pushed into
// the program from the event bus bridge.

type notificationsLoadedMsg struct {
	notifications []notify.Notification
	fromCache     bool
}

type countChangedMsg struct {
	count int
}

type newNotificationMsg struct {
	notification notify.Notification
}

type markedReadMsg struct {
	id string
}

type markedAllReadMsg struct{}

type errMsg struct {
	err error
}
