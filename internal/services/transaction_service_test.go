package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintwin/internal/amqp"
	"fintwin/internal/core"
	"fintwin/internal/store"
)

type stubPublisher struct {
	events []*amqp.TransactionEvent
	err    error
}

func (p *stubPublisher) PublishTransactionEvent(_ context.Context, event *amqp.TransactionEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func newTestService(pub EventPublisher) *TransactionService {
	return NewTransactionService(store.NewMemoryStore(), pub)
}

func validTx() core.Transaction {
	return core.Transaction{
		Amount:   core.Money{Cents: 1250},
		Category: core.CategoryGroceries,
		Date:     core.NewDate(2026, 8, 20),
	}
}

func TestCreatePublishesEvent(t *testing.T) {
	pub := &stubPublisher{}
	svc := newTestService(pub)

	created, err := svc.Create(context.Background(), "alice", validTx())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created transaction has no ID")
	}
	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	if pub.events[0].Kind != amqp.EventCreated || pub.events[0].ID != created.ID {
		t.Fatalf("event = %+v", pub.events[0])
	}
}

func TestCreateRejectsInvalidTransaction(t *testing.T) {
	pub := &stubPublisher{}
	svc := newTestService(pub)

	tx := validTx()
	tx.Category = "crypto_lottery"
	if _, err := svc.Create(context.Background(), "alice", tx); !errors.Is(err, core.ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
	if len(pub.events) != 0 {
		t.Fatal("invalid transaction must not publish an event")
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &stubPublisher{err: errors.New("broker down")}
	svc := newTestService(pub)

	created, err := svc.Create(context.Background(), "alice", validTx())
	if err != nil {
		t.Fatalf("Create should succeed when publish fails, got %v", err)
	}

	// The write really landed in the store.
	got, err := svc.Get(context.Background(), "alice", created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("got ID %s, want %s", got.ID, created.ID)
	}
}

func TestNilPublisherIsAllowed(t *testing.T) {
	svc := newTestService(nil)

	if _, err := svc.Create(context.Background(), "alice", validTx()); err != nil {
		t.Fatalf("Create with nil publisher: %v", err)
	}
}

func TestUpdateAndDeletePublishEvents(t *testing.T) {
	pub := &stubPublisher{}
	svc := newTestService(pub)

	created, err := svc.Create(context.Background(), "alice", validTx())
	if err != nil {
		t.Fatal(err)
	}

	created.Amount = core.Money{Cents: 9900}
	if _, err := svc.Update(context.Background(), "alice", created); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := svc.Delete(context.Background(), "alice", created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(pub.events) != 3 {
		t.Fatalf("published %d events, want 3", len(pub.events))
	}
	kinds := []string{pub.events[0].Kind, pub.events[1].Kind, pub.events[2].Kind}
	want := []string{amqp.EventCreated, amqp.EventUpdated, amqp.EventDeleted}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event kinds = %v, want %v", kinds, want)
		}
	}
}

func TestUpdateMissingTransaction(t *testing.T) {
	svc := newTestService(nil)

	tx := validTx()
	tx.ID = "nope"
	if _, err := svc.Update(context.Background(), "alice", tx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSummary(t *testing.T) {
	svc := newTestService(nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 23, 15, 0, 0, 0, time.UTC) }

	seed := []core.Transaction{
		{Amount: core.Money{Cents: 90_00}, Category: core.CategoryGroceries, Date: core.NewDate(2026, 8, 20)},
		{Amount: core.Money{Cents: 10_00}, Category: core.CategoryGambling, Date: core.NewDate(2026, 8, 21)},
	}
	for _, tx := range seed {
		if _, err := svc.Create(context.Background(), "alice", tx); err != nil {
			t.Fatal(err)
		}
	}

	sum, err := svc.Summary(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Breakdown.Total.Cents != 100_00 {
		t.Fatalf("total = %d, want 10000", sum.Breakdown.Total.Cents)
	}
	if sum.Risk.Percent != 10 {
		t.Fatalf("risk percent = %v, want 10", sum.Risk.Percent)
	}
	if sum.Risk.Label != core.HighRisk {
		t.Fatalf("label = %s, want %s", sum.Risk.Label, core.HighRisk)
	}
}
