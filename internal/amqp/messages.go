package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// TransactionEvent is a lightweight notification about a transaction write.
// It carries only identifiers; the worker fetches the full row from the
// database before exporting.
type TransactionEvent struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(kind, id, userID string) *TransactionEvent {
	return &TransactionEvent{
		Kind:      kind,
		ID:        id,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON creates an event from JSON bytes
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
