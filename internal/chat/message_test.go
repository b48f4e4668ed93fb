package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChatClockTagStripsLeadingZero(t *testing.T) {
	sender := newSession("alice", "#3498db", 4)

	cases := map[time.Time]string{
		time.Date(2026, time.August, 28, 9, 41, 0, 0, time.UTC):  "9:41AM",
		time.Date(2026, time.August, 28, 15, 4, 0, 0, time.UTC):  "3:04PM",
		time.Date(2026, time.August, 28, 0, 5, 0, 0, time.UTC):   "12:05AM",
		time.Date(2026, time.August, 28, 12, 30, 0, 0, time.UTC): "12:30PM",
	}
	for at, want := range cases {
		require.Equal(t, want, Chat(sender, "hi", at).Time)
	}
}

func TestDirectMessageEncodingOmitsUnusedFields(t *testing.T) {
	raw, err := json.Marshal(OutgoingDM("bob", "hi"))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	require.Equal(t, "dm", fields["type"])
	require.Equal(t, "bob", fields["to"])
	require.Equal(t, DMColor, fields["color"])
	require.NotContains(t, fields, "from")
	require.NotContains(t, fields, "time")
}
