package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestChannelFor(t *testing.T) {
	if got := ChannelFor("abc-123"); got != "analysis:abc-123" {
		t.Errorf("ChannelFor = %q", got)
	}
}

func TestCloseEventWireFormat(t *testing.T) {
	payload, err := json.Marshal(Close)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"event":"control","field":"control","data":"close"}`
	if string(payload) != want {
		t.Errorf("close frame = %s, want %s", payload, want)
	}
}

func TestMemoryBusDelivers(t *testing.T) {
	bus := NewMemoryBus()
	sub, err := bus.Subscribe(t.Context(), "a1")
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	evt := Event{Event: TypeUpdate, Field: "tender_info", Data: map[string]string{"x": "y"}}
	if err := bus.Publish(t.Context(), "a1", evt); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-sub.Events():
		if got.Event != TypeUpdate || got.Field != "tender_info" {
			t.Errorf("unexpected event: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestMemoryBusIsolatesChannels(t *testing.T) {
	bus := NewMemoryBus()
	sub, _ := bus.Subscribe(t.Context(), "a1")
	defer sub.Close()

	_ = bus.Publish(t.Context(), "other", Event{Event: TypeStatus})

	select {
	case evt := <-sub.Events():
		t.Errorf("received event for another analysis: %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBusCloseIdempotent(t *testing.T) {
	bus := NewMemoryBus()
	sub, _ := bus.Subscribe(t.Context(), "a1")
	if err := sub.Close(); err != nil {
		t.Fatal(err)
	}
	if err := sub.Close(); err != nil {
		t.Fatal("second close should be a no-op")
	}
	// Publishing after close must not panic.
	_ = bus.Publish(t.Context(), "a1", Event{Event: TypeStatus})
}

func TestMemoryBusMultipleSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	first, _ := bus.Subscribe(t.Context(), "a1")
	second, _ := bus.Subscribe(t.Context(), "a1")
	defer first.Close()
	defer second.Close()

	_ = bus.Publish(t.Context(), "a1", Close)

	for _, sub := range []Subscription{first, second} {
		select {
		case evt := <-sub.Events():
			if evt.Event != TypeControl {
				t.Errorf("expected control event, got %+v", evt)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber missed broadcast")
		}
	}
}
