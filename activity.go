package headstart

import (
	"context"
	"time"
)

// SessionEventType enumerates session and provisioning transitions
// other in-process components subscribe to.
type SessionEventType string

const (
	SessionEventLoginSuccess     SessionEventType = "session.login.success"
	SessionEventLoginFailure     SessionEventType = "session.login.failure"
	SessionEventLogout           SessionEventType = "session.logout"
	SessionEventTokenRefreshed   SessionEventType = "session.token.refreshed"
	SessionEventAnonymousStarted SessionEventType = "session.anonymous.started"
	SessionEventBuyerProvisioned SessionEventType = "buyer.provisioned"
)

// SessionEvent carries state-transition information to subscribers
// such as the order-approval banner or the header widget.
type SessionEvent struct {
	EventType  SessionEventType
	Username   string
	Anonymous  bool
	Metadata   map[string]any
	OccurredAt time.Time
}

// SessionSink consumes session events.
type SessionSink interface {
	Record(ctx context.Context, event SessionEvent) error
}

// SessionSinkFunc adapts a function to the SessionSink interface.
type SessionSinkFunc func(ctx context.Context, event SessionEvent) error

// Record implements SessionSink.
func (f SessionSinkFunc) Record(ctx context.Context, event SessionEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopSessionSink struct{}

func (noopSessionSink) Record(context.Context, SessionEvent) error {
	return nil
}

func normalizeSessionSink(s SessionSink) SessionSink {
	if s == nil {
		return noopSessionSink{}
	}
	return s
}
