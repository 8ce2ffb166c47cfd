package events

import (
	"testing"
	"time"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventError)

	bus.Publish(&ErrorEvent{
		BaseEvent: NewBase(EventError),
		Scope:     "loader",
	})

	select {
	case received := <-ch:
		ev, ok := received.(*ErrorEvent)
		if !ok {
			t.Fatal("Expected ErrorEvent")
		}
		if ev.Scope != "loader" {
			t.Errorf("Expected scope 'loader', got '%s'", ev.Scope)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	all := bus.SubscribeAll()

	bus.Publish(&ErrorEvent{BaseEvent: NewBase(EventError)})
	bus.Publish(&ErrorEvent{BaseEvent: NewBase(EventLog)})

	for i := 0; i < 2; i++ {
		select {
		case <-all:
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for event %d", i)
		}
	}
}

func TestEventBus_TypeFiltering(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	errCh := bus.Subscribe(EventError)

	bus.Publish(&ErrorEvent{BaseEvent: NewBase(EventLog)})

	select {
	case ev := <-errCh:
		t.Fatalf("Unexpected event delivered to error subscriber: %v", ev.Type())
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_CloseClosesChannels(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.Subscribe(EventError)

	bus.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Expected closed channel")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for channel close")
	}

	// Publishing after close must not panic.
	bus.Publish(&ErrorEvent{BaseEvent: NewBase(EventError)})
}

func TestEventBus_DropCounting(t *testing.T) {
	bus := NewEventBus(1)
	defer bus.Close()

	_ = bus.Subscribe(EventError)

	// Buffer of 1: second publish is dropped because nothing is draining.
	bus.Publish(&ErrorEvent{BaseEvent: NewBase(EventError)})
	bus.Publish(&ErrorEvent{BaseEvent: NewBase(EventError)})

	if bus.Dropped() != 1 {
		t.Errorf("Expected 1 dropped event, got %d", bus.Dropped())
	}
}
