package events

import (
	"context"
	"encoding/json"
	"sync"

	appredis "github.com/tenderiq/core/internal/pkg/redis"
)

// Event types carried on an analysis progress channel.
const (
	TypeInitialState = "initial_state"
	TypeUpdate       = "update"
	TypeStatus       = "status"
	TypeError        = "error"
	TypeControl      = "control"
)

// Field values for events that do not carry an analysis fragment.
// Fragment updates put the fragment name in Field instead.
const (
	FieldFull    = "full"
	FieldStatus  = "status"
	FieldError   = "error"
	FieldControl = "control"
)

// Event is one progress message for an analysis. Field names the analysis
// fragment the data belongs to, or one of the fixed values above.
type Event struct {
	Event string      `json:"event"`
	Field string      `json:"field,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// Close is the control event that ends a stream.
var Close = Event{Event: TypeControl, Field: FieldControl, Data: "close"}

// ChannelFor returns the pub/sub channel name for an analysis.
func ChannelFor(analysisID string) string {
	return "analysis:" + analysisID
}

// Subscription delivers events for one analysis until closed.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// Bus fans analysis progress events out to stream subscribers.
type Bus interface {
	Publish(ctx context.Context, analysisID string, evt Event) error
	Subscribe(ctx context.Context, analysisID string) (Subscription, error)
}

// RedisBus publishes events over Redis pub/sub so streams work across
// multiple server instances.
type RedisBus struct {
	client *appredis.Client
}

func NewRedisBus(client *appredis.Client) *RedisBus {
	return &RedisBus{client: client}
}

func (b *RedisBus) Publish(ctx context.Context, analysisID string, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, ChannelFor(analysisID), payload)
}

func (b *RedisBus) Subscribe(ctx context.Context, analysisID string) (Subscription, error) {
	pubsub := b.client.Subscribe(ctx, ChannelFor(analysisID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	events := make(chan Event, 16)
	done := make(chan struct{})

	go func() {
		defer close(events)
		ch := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var evt Event
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					continue
				}
				select {
				case events <- evt:
				case <-done:
					return
				}
			}
		}
	}()

	return &redisSubscription{pubsub: pubsub, events: events, done: done}, nil
}

type redisSubscription struct {
	pubsub interface{ Close() error }
	events chan Event
	done   chan struct{}
	once   sync.Once
}

func (s *redisSubscription) Events() <-chan Event { return s.events }

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}

// MemoryBus is an in-process bus for tests and single-node development.
type MemoryBus struct {
	mu   sync.Mutex
	subs map[string][]*memorySubscription
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: map[string][]*memorySubscription{}}
}

func (b *MemoryBus) Publish(ctx context.Context, analysisID string, evt Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs[analysisID] {
		select {
		case sub.events <- evt:
		default:
			// Slow subscriber, drop rather than block the pipeline.
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, analysisID string) (Subscription, error) {
	sub := &memorySubscription{
		bus:        b,
		analysisID: analysisID,
		events:     make(chan Event, 64),
	}
	b.mu.Lock()
	b.subs[analysisID] = append(b.subs[analysisID], sub)
	b.mu.Unlock()
	return sub, nil
}

type memorySubscription struct {
	bus        *MemoryBus
	analysisID string
	events     chan Event
	once       sync.Once
}

func (s *memorySubscription) Events() <-chan Event { return s.events }

func (s *memorySubscription) Close() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		subs := s.bus.subs[s.analysisID]
		for i, sub := range subs {
			if sub == s {
				s.bus.subs[s.analysisID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		s.bus.mu.Unlock()
		close(s.events)
	})
	return nil
}
