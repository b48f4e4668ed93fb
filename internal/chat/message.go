package chat

import (
	"fmt"
	"time"
)

// MessageType identifies one of the structured payload kinds exchanged with
// connected clients.
type MessageType string

const (
	MessageInfo   MessageType = "info"
	MessageError  MessageType = "error"
	MessageNotice MessageType = "notice"
	MessageChat   MessageType = "chat"
	MessageDM     MessageType = "dm"
)

// Message is the JSON payload sent to clients. Fields not used by a given
// kind are omitted from the encoding.
type Message struct {
	Type  MessageType `json:"type"`
	From  string      `json:"from,omitempty"`
	To    string      `json:"to,omitempty"`
	Color string      `json:"color,omitempty"`
	Time  string      `json:"time,omitempty"`
	Text  string      `json:"text"`
}

// clockLayout renders a 12-hour clock without a padded hour, e.g. "9:41AM".
const clockLayout = "3:04PM"

// Info builds a server-to-one-client informational message.
func Info(text string) Message {
	return Message{Type: MessageInfo, Text: text}
}

// Errorf builds a client-facing error message.
func Errorf(format string, args ...any) Message {
	return Message{Type: MessageError, Text: fmt.Sprintf(format, args...)}
}

// Notice builds a system notice intended for broadcast.
func Notice(text string) Message {
	return Message{Type: MessageNotice, Text: text}
}

// Chat builds a public chat line tagged with the sender's identity, color,
// and a delivery timestamp.
func Chat(sender *Session, text string, at time.Time) Message {
	return Message{
		Type:  MessageChat,
		From:  sender.Username,
		Color: sender.Color,
		Time:  at.Format(clockLayout),
		Text:  text,
	}
}

// IncomingDM builds the recipient's copy of a direct message.
func IncomingDM(from, text string) Message {
	return Message{Type: MessageDM, From: from, Color: DMColor, Text: text}
}

// OutgoingDM builds the sender's echo of a direct message.
func OutgoingDM(to, text string) Message {
	return Message{Type: MessageDM, To: to, Color: DMColor, Text: text}
}
