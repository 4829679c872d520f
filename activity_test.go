package headstart_test

import (
	"context"
	"testing"

	"github.com/esitarz/headstart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSinkFunc(t *testing.T) {
	var got headstart.SessionEvent

	sink := headstart.SessionSinkFunc(func(ctx context.Context, event headstart.SessionEvent) error {
		got = event
		return nil
	})

	err := sink.Record(context.Background(), headstart.SessionEvent{
		EventType: headstart.SessionEventLogout,
		Username:  "user@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, headstart.SessionEventLogout, got.EventType)
	assert.Equal(t, "user@example.com", got.Username)

	var nilSink headstart.SessionSinkFunc
	assert.NoError(t, nilSink.Record(context.Background(), headstart.SessionEvent{}))
}
