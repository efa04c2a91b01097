// Package chat holds the document context and the question/answer transcript.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. It is never modified after it is appended.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Sources   []string
	CreatedAt time.Time
}

// NewMessage stamps a message with a fresh id and the current time.
func NewMessage(role Role, content string, sources []string) Message {
	var copied []string
	if len(sources) > 0 {
		copied = append([]string(nil), sources...)
	}
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Sources:   copied,
		CreatedAt: time.Now(),
	}
}

// Transcript is an append-only, ordered list of messages.
type Transcript struct {
	messages []Message
}

// Append adds m to the end of the transcript.
func (t *Transcript) Append(m Message) {
	t.messages = append(t.messages, m)
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns a deep copy of the messages in order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	for i, m := range t.messages {
		if m.Sources != nil {
			m.Sources = append([]string{}, m.Sources...)
		}
		out[i] = m
	}
	return out
}

// Last returns the most recent message.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// LastAnswer returns the most recent assistant message.
func (t *Transcript) LastAnswer() (Message, bool) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == RoleAssistant {
			return t.messages[i], true
		}
	}
	return Message{}, false
}
