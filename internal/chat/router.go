package chat

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
)

// QuitCommand ends the session when received as a complete line.
const QuitCommand = "/quit"

type routerState int

const (
	stateAwaitingName routerState = iota
	stateActive
	stateClosed
)

// Router drives a single connection through the chat protocol: username
// admission, public and direct message dispatch, and once-only cleanup.
// The transport layer feeds it inbound events from its read loop; outbound
// delivery goes through each target session's channel.
//
// Admit and HandleLine belong to the connection's read goroutine.
// Disconnect may additionally be called from transport teardown paths; the
// cleanup it triggers runs exactly once no matter how many paths reach it.
type Router struct {
	registry *Registry
	colors   ColorPicker
	buffer   int

	state   routerState
	session *Session
	cleanup sync.Once
	now     func() time.Time
}

// NewRouter constructs the router for one incoming connection.
func NewRouter(registry *Registry, colors ColorPicker, buffer int) *Router {
	return &Router{
		registry: registry,
		colors:   colors,
		buffer:   buffer,
		now:      time.Now,
	}
}

// Admit validates the candidate username and, on success, registers a new
// session, greets it, and announces it to everyone else. On failure no
// session is created, nothing is announced, and the connection moves
// straight to the closed state; the transport should surface the error and
// terminate.
func (r *Router) Admit(candidate string) (*Session, error) {
	if r.state != stateAwaitingName {
		return nil, fmt.Errorf("admit %q: connection is not awaiting a username", candidate)
	}

	username := strings.TrimSpace(candidate)
	if username == "" {
		r.state = stateClosed
		return nil, ErrEmptyUsername
	}

	session := newSession(username, r.colors.Next(), r.buffer)
	if !r.registry.TryAdd(username, session) {
		r.state = stateClosed
		return nil, fmt.Errorf("admit %q: %w", username, ErrUsernameTaken)
	}

	r.session = session
	r.state = stateActive

	_ = session.TryDeliver(Info("joined as " + username))
	r.broadcast(Notice(username+" joined the chat"), username)
	return session, nil
}

// HandleLine routes one inbound line from the active session. It reports
// false once the connection has reached the closed state and should be torn
// down by the transport.
func (r *Router) HandleLine(line string) bool {
	if r.state != stateActive {
		return false
	}

	text := strings.TrimSpace(line)
	switch {
	case text == "":
		return true
	case text == QuitCommand:
		r.Disconnect()
		return false
	case strings.HasPrefix(text, "@"):
		r.direct(text)
		return true
	default:
		r.broadcast(Chat(r.session, text, r.now()), r.session.Username)
		return true
	}
}

// Disconnect tears the connection down. Explicit /quit, end of stream, and
// transport errors all land here. If the session had been admitted it is
// removed from the registry, its channel is closed, and the leave notice
// goes out to everyone still registered; a connection that never passed
// admission leaves no trace.
func (r *Router) Disconnect() {
	r.cleanup.Do(func() {
		r.state = stateClosed
		if r.session == nil {
			return
		}
		r.registry.Remove(r.session.Username)
		r.session.Close()
		r.broadcast(Notice(r.session.Username+" left the chat"), "")
	})
}

// direct parses "@target body" and dispatches a direct message. Malformed
// commands and unknown targets are reported to the sender only.
func (r *Router) direct(text string) {
	target, body, ok := splitDirect(text)
	if !ok {
		_ = r.session.TryDeliver(Errorf("use @username message"))
		return
	}

	recipient, found := r.registry.Lookup(target)
	if !found {
		_ = r.session.TryDeliver(Errorf("user '%s' not found", target))
		return
	}

	// Independent deliveries: a full recipient queue must not suppress the
	// sender's echo, and vice versa.
	_ = recipient.TryDeliver(IncomingDM(r.session.Username, body))
	_ = r.session.TryDeliver(OutgoingDM(recipient.Username, body))
}

// broadcast fans a message out to every session in a registry snapshot,
// skipping the excluded username when one is given. Failed deliveries are
// dropped so a slow or dead recipient never stalls the rest.
func (r *Router) broadcast(msg Message, exclude string) {
	for _, s := range r.registry.Snapshot() {
		if exclude != "" && s.Username == exclude {
			continue
		}
		_ = s.TryDeliver(msg)
	}
}

// splitDirect splits "@target body" into its parts. The target runs from
// after the "@" to the first whitespace; the body is everything after it.
func splitDirect(text string) (target, body string, ok bool) {
	rest := strings.TrimPrefix(text, "@")
	i := strings.IndexFunc(rest, unicode.IsSpace)
	if i < 0 {
		return "", "", false
	}

	target = rest[:i]
	body = strings.TrimSpace(rest[i:])
	if body == "" {
		return "", "", false
	}
	return target, body, true
}
