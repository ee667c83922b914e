package bus

import "time"

// Event kinds published by the session components. Subscribers filter by
// namespace prefix ("session.", "message.", "assistant.").
const (
	KindProfileChanged = "session.profile_changed"
	KindSessionReset   = "session.reset"
	KindStatusChanged  = "session.status_changed"
	KindLoginFailed    = "session.login_failed"
	KindMessageAppend  = "message.appended"
	KindBusyChanged    = "assistant.busy_changed"
	KindReplyDropped   = "assistant.reply_dropped"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// NewEvent stamps an event with the current time.
func NewEvent(kind string, payload any) Event {
	return Event{Kind: kind, Timestamp: time.Now(), Payload: payload}
}
