package eventbus

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"school-service/pkg/logger"
	"school-service/prometheus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event kinds
const (
	EventCreated   = "created"
	EventUpdated   = "updated"
	EventDeleted   = "deleted"
	EventConnected = "connected"
)

// DefaultQueueSize is the per-subscriber frame queue capacity. A subscriber
// that falls this far behind is dropped rather than slowing publishers down.
const DefaultQueueSize = 64

// Event is a change notification. Immutable once published; the bus never
// interprets Data.
type Event struct {
	Event      string    `json:"event"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id,omitempty"`
	Data       any       `json:"data"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewEvent builds an event of the given kind for an entity type
func NewEvent(kind, entityType string, data any) Event {
	return Event{
		Event:      kind,
		EntityType: entityType,
		Data:       data,
		Timestamp:  time.Now().UTC(),
	}
}

// WithEntityID returns a copy of the event carrying the entity identifier
func (e Event) WithEntityID(entityID string) Event {
	e.EntityID = entityID
	return e
}

// SSEFormat renders the event as a text/event-stream frame:
//
//	event: <kind>\n
//	data: <json>\n
//	\n
//
// A payload that cannot be serialized is replaced with null so subscribers
// still observe the state transition.
func (e Event) SSEFormat() string {
	body, err := json.Marshal(e)
	if err != nil {
		logger.GetLogger().Warn("event payload serialization failed",
			zap.String("event", e.Event),
			zap.String("entity_type", e.EntityType),
			zap.Error(err))
		e.Data = nil
		body, err = json.Marshal(e)
		if err != nil {
			body = []byte("{}")
		}
	}
	return fmt.Sprintf("event: %s\ndata: %s\n\n", e.Event, body)
}

// Subscriber is one long-lived consumer attached to the bus. Frames are
// pre-formatted SSE text; Done is closed when the subscriber is removed.
type Subscriber struct {
	id     string
	frames chan string
	done   chan struct{}
}

// ID returns the subscriber identifier. Identifiers are UUIDs and are never
// reused within a process lifetime.
func (s *Subscriber) ID() string {
	return s.id
}

// Frames is the subscriber's ordered stream of formatted event frames
func (s *Subscriber) Frames() <-chan string {
	return s.frames
}

// Done is closed once the subscriber has been unregistered
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Bus is the in-process publish/subscribe hub. The subscriber registry is
// the single mutual-exclusion region; per-subscriber queues are written
// without blocking.
type Bus struct {
	mu          sync.Mutex
	subscribers map[string]*Subscriber

	queueSize int
	seq       atomic.Uint64
}

// New creates a bus with the default per-subscriber queue capacity
func New() *Bus {
	return &Bus{
		subscribers: make(map[string]*Subscriber),
		queueSize:   DefaultQueueSize,
	}
}

// Register allocates a new subscriber and adds it to the registry
func (b *Bus) Register() *Subscriber {
	sub := &Subscriber{
		id:     uuid.New().String(),
		frames: make(chan string, b.queueSize),
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	b.subscribers[sub.id] = sub
	count := len(b.subscribers)
	b.mu.Unlock()

	prometheus.ConnectedClientsGauge.Set(float64(count))
	logger.GetLogger().Info("event client connected", zap.String("client_id", sub.id))
	return sub
}

// Unregister removes a subscriber and closes its stream. Idempotent.
func (b *Bus) Unregister(id string) {
	b.mu.Lock()
	sub, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
		close(sub.done)
	}
	count := len(b.subscribers)
	b.mu.Unlock()

	if ok {
		prometheus.ConnectedClientsGauge.Set(float64(count))
		logger.GetLogger().Info("event client disconnected", zap.String("client_id", id))
	}
}

// SubscriberCount returns the current number of subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Publish enqueues the event onto every current subscriber without blocking.
// A subscriber whose queue is full has this event dropped and is removed;
// other subscribers are unaffected. Publish never fails.
func (b *Bus) Publish(event Event) {
	frame := event.SSEFormat()
	seq := b.seq.Add(1)

	// Snapshot the registry, then enqueue outside the lock
	b.mu.Lock()
	subs := make([]*Subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	var stale []string
	for _, sub := range subs {
		select {
		case sub.frames <- frame:
		default:
			stale = append(stale, sub.id)
		}
	}

	for _, id := range stale {
		prometheus.SubscriberOverflowCounter.Inc()
		logger.GetLogger().Warn("dropping slow event client",
			zap.String("client_id", id),
			zap.String("event", event.Event),
			zap.String("entity_type", event.EntityType))
		b.Unregister(id)
	}

	prometheus.EventsPublishedCounter.WithLabelValues(event.Event).Inc()
	logger.GetLogger().Debug("event broadcast",
		zap.Uint64("seq", seq),
		zap.String("event", event.Event),
		zap.String("entity_type", event.EntityType),
		zap.Int("clients", len(subs)))
}

// BroadcastCreated publishes a created event for an entity
func (b *Bus) BroadcastCreated(entityType, entityID string, data any) {
	b.Publish(NewEvent(EventCreated, entityType, data).WithEntityID(entityID))
}

// BroadcastUpdated publishes an updated event for an entity
func (b *Bus) BroadcastUpdated(entityType, entityID string, data any) {
	b.Publish(NewEvent(EventUpdated, entityType, data).WithEntityID(entityID))
}

// BroadcastDeleted publishes a deleted event for an entity
func (b *Bus) BroadcastDeleted(entityType, entityID string, data any) {
	b.Publish(NewEvent(EventDeleted, entityType, data).WithEntityID(entityID))
}
