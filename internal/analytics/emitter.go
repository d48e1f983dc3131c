package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Bhupesh-S/SmartShop-AI/internal/identity"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/api"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/logger"
	"github.com/Bhupesh-S/SmartShop-AI/pkg/metrics"
	"github.com/google/uuid"
)

// Well-known storefront event names.
const (
	EventView      = "view"
	EventAddToCart = "add_to_cart"
	EventSearch    = "search"
	EventDwellTime = "dwell_time"
)

const (
	defaultBufferSize     = 64
	defaultPublishTimeout = 5 * time.Second
	defaultCloseTimeout   = 2 * time.Second
)

type publisher interface {
	PublishEvent(ctx context.Context, event api.Event) error
}

type identitySource interface {
	CurrentIdentity() identity.Identity
}

// Emitter reports storefront events correlated to the resolved identity.
// Delivery is fire-and-forget: a full buffer drops the event and a failed
// publish is logged and counted, never surfaced. Nothing user-facing may
// block on this path.
type Emitter struct {
	publisher    publisher
	ids          identitySource
	logg         *logger.Logger
	metrics      *metrics.RequestMetrics
	publishTO    time.Duration
	closeTimeout time.Duration

	events    chan api.Event
	closeMu   sync.RWMutex
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
}

// EmitterParams wires the emitter dependencies. Metrics may be nil.
type EmitterParams struct {
	Publisher    publisher
	Identity     identitySource
	Logger       *logger.Logger
	Metrics      *metrics.RequestMetrics
	BufferSize   int
	CloseTimeout time.Duration
}

// NewEmitter builds the emitter and starts its delivery worker.
func NewEmitter(params EmitterParams) (*Emitter, error) {
	if params.Publisher == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	if params.Identity == nil {
		return nil, fmt.Errorf("identity source required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	bufferSize := params.BufferSize
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	closeTimeout := params.CloseTimeout
	if closeTimeout <= 0 {
		closeTimeout = defaultCloseTimeout
	}

	e := &Emitter{
		publisher:    params.Publisher,
		ids:          params.Identity,
		logg:         params.Logger,
		metrics:      params.Metrics,
		publishTO:    defaultPublishTimeout,
		closeTimeout: closeTimeout,
		events:       make(chan api.Event, bufferSize),
		done:         make(chan struct{}),
	}
	go e.deliver()
	return e, nil
}

// Emit enqueues one event, stamping an event id, timestamp, and the active
// identity's correlation id. Never blocks; a full buffer drops the event.
func (e *Emitter) Emit(eventName string, payload map[string]any) {
	event := api.Event{
		EventID:       uuid.NewString(),
		Name:          eventName,
		CorrelationID: e.ids.CurrentIdentity().Key(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
		Payload:       payload,
	}

	e.closeMu.RLock()
	defer e.closeMu.RUnlock()
	if e.closed {
		e.metrics.IncDroppedEvent()
		return
	}

	select {
	case e.events <- event:
	default:
		e.metrics.IncDroppedEvent()
		e.logg.Debug(context.Background(), "analytics buffer full, dropping event")
	}
}

// Close stops accepting events and waits for the buffer to drain, bounded by
// the configured close timeout.
func (e *Emitter) Close() {
	e.closeOnce.Do(func() {
		e.closeMu.Lock()
		e.closed = true
		close(e.events)
		e.closeMu.Unlock()
		select {
		case <-e.done:
		case <-time.After(e.closeTimeout):
		}
	})
}

func (e *Emitter) deliver() {
	defer close(e.done)
	for event := range e.events {
		ctx, cancel := context.WithTimeout(context.Background(), e.publishTO)
		err := e.publisher.PublishEvent(ctx, event)
		cancel()
		if err != nil {
			e.metrics.IncDroppedEvent()
			ctx := e.logg.WithShopper(context.Background(), event.CorrelationID)
			e.logg.Warn(e.logg.WithField(ctx, "event", event.Name), "analytics delivery failed")
		}
	}
}
