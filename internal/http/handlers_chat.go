package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintwin/internal/chat"
)

type chatRequest struct {
	Persona string `json:"persona"`
	Prompt  string `json:"prompt"`
}

type chatMessagePayload struct {
	Role      string        `json:"role"`
	Persona   string        `json:"persona"`
	Text      string        `json:"text"`
	Sources   []chat.Source `json:"sources,omitempty"`
	Timestamp string        `json:"timestamp"`
}

func toChatMessagePayload(m chat.Message) chatMessagePayload {
	return chatMessagePayload{
		Role:      string(m.Role),
		Persona:   m.Persona,
		Text:      m.Text,
		Sources:   m.Sources,
		Timestamp: m.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func personaNames() []string {
	ps := chat.Personas()
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.Name)
	}
	return names
}

func (s *Server) handlePersonas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, personaNames())
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	user := userID(r)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt := sanitizeInput(req.Prompt)
	if prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt cannot be empty")
		return
	}

	msg, err := s.relay.Ask(r.Context(), user, sanitizeInput(req.Persona), prompt)
	if err != nil {
		if errors.Is(err, chat.ErrUnknownPersona) {
			writeError(w, http.StatusUnprocessableEntity, "unknown persona")
			return
		}
		slog.ErrorContext(r.Context(), "Chat relay error", "error", err, "user_id", user)
		writeError(w, http.StatusInternalServerError, "chat unavailable")
		return
	}

	writeJSON(w, http.StatusOK, toChatMessagePayload(msg))
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	user := userID(r)

	history := s.relay.History(user)
	out := make([]chatMessagePayload, 0, len(history))
	for _, m := range history {
		out = append(out, toChatMessagePayload(m))
	}
	writeJSON(w, http.StatusOK, out)
}
