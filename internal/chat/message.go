package chat

import (
	"sync"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Source is a citation attached to a grounded reply.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Message is one turn of a conversation. Messages are appended only, never
// mutated or deleted, and live in memory for the life of the process.
type Message struct {
	Role      Role      `json:"role"`
	Persona   string    `json:"persona"`
	Text      string    `json:"text"`
	Sources   []Source  `json:"sources,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is an append-only message log for one user.
type Transcript struct {
	mu       sync.Mutex
	messages []Message
}

func (t *Transcript) Append(m Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, m)
}

// Messages returns a copy of the transcript in append order.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}
