package chat

import (
	"sync"

	"github.com/google/uuid"
)

const defaultSendBuffer = 16

// Session represents one connected, named participant. ID, Username, and
// Color never change after admission; the session exclusively owns its
// outbound channel.
type Session struct {
	ID       string
	Username string
	Color    string

	mu     sync.Mutex
	closed bool
	send   chan Message
}

func newSession(username, color string, buffer int) *Session {
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}
	return &Session{
		ID:       uuid.NewString(),
		Username: username,
		Color:    color,
		send:     make(chan Message, buffer),
	}
}

// Send returns the outbound message channel for the session. The transport
// layer drains it; the channel is closed when the session ends.
func (s *Session) Send() <-chan Message {
	return s.send
}

// TryDeliver places a message onto the outbound channel without blocking.
// It reports false when the session is closed or the receiver is too slow;
// broadcast paths discard the result so one dead recipient never stalls the
// rest.
func (s *Session) TryDeliver(msg Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- msg:
		return true
	default:
		// Drop when the receiver is too slow; keeps the relay responsive.
		return false
	}
}

// Close closes the outbound channel. Safe to call more than once; deliveries
// after Close report failure instead of panicking.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}
