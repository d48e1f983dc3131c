package analytics

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Bhupesh-S/SmartShop-AI/internal/identity"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/api"
	pkgerrors "github.com/Bhupesh-S/SmartShop-AI/pkg/errors"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/logger"
	"github.com/rs/zerolog"
)

type capturingPublisher struct {
	mu     sync.Mutex
	events []api.Event
	err    error
}

func (p *capturingPublisher) PublishEvent(ctx context.Context, event api.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *capturingPublisher) captured() []api.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]api.Event, len(p.events))
	copy(out, p.events)
	return out
}

type fixedIdentity struct{ id identity.Identity }

func (f fixedIdentity) CurrentIdentity() identity.Identity { return f.id }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func newTestEmitter(t *testing.T, pub publisher, id identity.Identity) *Emitter {
	t.Helper()
	emitter, err := NewEmitter(EmitterParams{
		Publisher: pub,
		Identity:  fixedIdentity{id: id},
		Logger:    testLogger(),
	})
	if err != nil {
		t.Fatalf("NewEmitter: %v", err)
	}
	t.Cleanup(emitter.Close)
	return emitter
}

func TestEmitStampsCorrelationAndTimestamp(t *testing.T) {
	t.Parallel()

	pub := &capturingPublisher{}
	emitter := newTestEmitter(t, pub, identity.Authenticated("alice", "alice@example.com", ""))

	emitter.Emit(EventSearch, map[string]any{"term": "lamp"})
	emitter.Close()

	events := pub.captured()
	if len(events) != 1 {
		t.Fatalf("expected 1 delivered event, got %d", len(events))
	}
	event := events[0]
	if event.Name != EventSearch {
		t.Fatalf("unexpected event name %q", event.Name)
	}
	if event.CorrelationID != "alice" {
		t.Fatalf("expected username correlation id, got %q", event.CorrelationID)
	}
	if event.EventID == "" {
		t.Fatal("expected a generated event id")
	}
	if _, err := time.Parse(time.RFC3339Nano, event.Timestamp); err != nil {
		t.Fatalf("timestamp not RFC3339Nano: %q", event.Timestamp)
	}
	if event.Payload["term"] != "lamp" {
		t.Fatalf("payload not preserved: %+v", event.Payload)
	}
}

func TestEmitUsesAnonymousSessionAsCorrelation(t *testing.T) {
	t.Parallel()

	pub := &capturingPublisher{}
	emitter := newTestEmitter(t, pub, identity.Anonymous("sess-42"))

	emitter.Emit(EventView, nil)
	emitter.Close()

	events := pub.captured()
	if len(events) != 1 || events[0].CorrelationID != "sess-42" {
		t.Fatalf("expected sess-42 correlation, got %+v", events)
	}
}

func TestDeliveryFailureNeverPropagates(t *testing.T) {
	t.Parallel()

	pub := &capturingPublisher{err: pkgerrors.New(pkgerrors.CodeNetwork, "events endpoint down")}
	emitter := newTestEmitter(t, pub, identity.Anonymous("sess-1"))

	// Emit must not panic, block, or surface the failure.
	emitter.Emit(EventAddToCart, map[string]any{"productId": "p1"})
	emitter.Close()

	if len(pub.captured()) != 1 {
		t.Fatal("expected the emitter to attempt delivery")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	emitter := newTestEmitter(t, &capturingPublisher{}, identity.Anonymous("sess-1"))
	emitter.Close()
	emitter.Close()
}
