package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Reply is what a provider returns before display shaping.
type Reply struct {
	Text    string
	Sources []Source
}

// Generator is the provider port. Implementations live in the gemini, openai,
// and mock subpackages.
type Generator interface {
	// Generate produces a reply for the prompt under the given system
	// instruction.
	Generate(ctx context.Context, instruction, prompt string) (Reply, error)
}

// MaxReplyLines caps how many display lines of a reply survive truncation.
const MaxReplyLines = 3

const genericErrorText = "Sorry, I couldn't come up with an answer just now. Try again in a moment."

var ErrUnknownPersona = errors.New("unknown persona")

// Relay forwards prompts to the configured generator and keeps the per-user
// transcripts. Provider failures degrade to a generic assistant reply; the
// relay itself never returns a provider error to the caller.
type Relay struct {
	gen     Generator
	timeout time.Duration

	mu          sync.Mutex
	transcripts map[string]*Transcript
}

func NewRelay(gen Generator) *Relay {
	return &Relay{
		gen:         gen,
		timeout:     30 * time.Second,
		transcripts: make(map[string]*Transcript),
	}
}

// Ask records the user's prompt, asks the generator, and records and returns
// the assistant's reply. The reply text is truncated to MaxReplyLines.
func (r *Relay) Ask(ctx context.Context, userID, personaName, prompt string) (Message, error) {
	persona := DefaultPersona()
	if personaName != "" {
		p, ok := LookupPersona(personaName)
		if !ok {
			return Message{}, ErrUnknownPersona
		}
		persona = p
	}

	t := r.transcript(userID)
	t.Append(Message{
		Role:      RoleUser,
		Persona:   persona.Name,
		Text:      prompt,
		Timestamp: time.Now().UTC(),
	})

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.gen.Generate(cctx, persona.Instruction, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "Chat provider failed, returning generic reply",
			"persona", persona.Name,
			"error", err)
		reply = Reply{Text: genericErrorText}
	}

	msg := Message{
		Role:      RoleAssistant,
		Persona:   persona.Name,
		Text:      TruncateLines(reply.Text, MaxReplyLines),
		Sources:   reply.Sources,
		Timestamp: time.Now().UTC(),
	}
	t.Append(msg)
	return msg, nil
}

// History returns the user's transcript so far.
func (r *Relay) History(userID string) []Message {
	return r.transcript(userID).Messages()
}

func (r *Relay) transcript(userID string) *Transcript {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transcripts[userID]
	if !ok {
		t = &Transcript{}
		r.transcripts[userID] = t
	}
	return t
}

// TruncateLines keeps the first n non-empty lines of s.
func TruncateLines(s string, n int) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t"))
		if len(kept) == n {
			break
		}
	}
	return strings.Join(kept, "\n")
}
