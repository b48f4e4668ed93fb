package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionTryDeliverDropsWhenFull(t *testing.T) {
	session := newSession("alice", "#3498db", 1)

	require.True(t, session.TryDeliver(Info("first")))
	require.False(t, session.TryDeliver(Info("second")))

	msg := <-session.Send()
	require.Equal(t, "first", msg.Text)
}

func TestSessionCloseIsIdempotentAndStopsDelivery(t *testing.T) {
	session := newSession("alice", "#3498db", 4)

	session.Close()
	session.Close()

	require.False(t, session.TryDeliver(Info("too late")))

	_, open := <-session.Send()
	require.False(t, open, "channel should be closed")
}
