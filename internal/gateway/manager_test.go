package gateway

import (
	"fmt"
	"testing"
)

func TestRingBufferSince(t *testing.T) {
	rb := newRingBuffer(5)

	for i := 1; i <= 3; i++ {
		rb.add(Event{Name: EventMessageCreate, Data: fmt.Sprintf("msg-%d", i)})
	}

	events := rb.since(1)
	if len(events) != 2 {
		t.Fatalf("expected 2 events after seq 1, got %d", len(events))
	}
	if events[0].Data != "msg-2" || events[1].Data != "msg-3" {
		t.Errorf("unexpected replay order: %v", events)
	}
}

func TestRingBufferWraparound(t *testing.T) {
	rb := newRingBuffer(3)

	for i := 1; i <= 5; i++ {
		rb.add(Event{Name: EventMessageCreate, Data: i})
	}

	// Only the last 3 events survive.
	events := rb.since(0)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Data != 3 || events[2].Data != 5 {
		t.Errorf("unexpected events after wraparound: %v", events)
	}
}

func TestRingBufferSinceFuture(t *testing.T) {
	rb := newRingBuffer(3)
	rb.add(Event{Name: EventMessageCreate, Data: "only"})

	if events := rb.since(10); len(events) != 0 {
		t.Errorf("expected no events for future sequence, got %d", len(events))
	}
}

func TestSubscriptions(t *testing.T) {
	m := NewManager(nil, nil, nil, nil, nil)

	m.SubscribeToChannel(1, 100)
	m.SubscribeToChannel(2, 100)
	m.SubscribeToChannel(1, 200)

	m.mu.RLock()
	if len(m.subscriptions[100]) != 2 {
		t.Errorf("expected 2 subscribers on channel 100, got %d", len(m.subscriptions[100]))
	}
	if len(m.subscriptions[200]) != 1 {
		t.Errorf("expected 1 subscriber on channel 200, got %d", len(m.subscriptions[200]))
	}
	m.mu.RUnlock()

	m.UnsubscribeFromChannel(1, 100)
	m.UnsubscribeFromChannel(2, 100)

	m.mu.RLock()
	if _, ok := m.subscriptions[100]; ok {
		t.Error("expected empty channel subscription to be removed")
	}
	m.mu.RUnlock()
}

func TestDispatchToChannelStoresReplay(t *testing.T) {
	m := NewManager(nil, nil, nil, nil, nil)

	m.DispatchToChannel(42, EventMessageCreate, map[string]string{"content": "hi"})
	m.DispatchToChannel(42, EventMessageDelete, map[string]string{"id": "1"})

	m.replayMu.RLock()
	rb, ok := m.replayBuffer[42]
	m.replayMu.RUnlock()

	if !ok {
		t.Fatal("expected replay buffer for channel 42")
	}
	events := rb.since(0)
	if len(events) != 2 {
		t.Fatalf("expected 2 buffered events, got %d", len(events))
	}
	if events[0].Name != EventMessageCreate || events[1].Name != EventMessageDelete {
		t.Errorf("unexpected buffered events: %v, %v", events[0].Name, events[1].Name)
	}
}

func TestDispatchToAllStoresGlobalReplay(t *testing.T) {
	m := NewManager(nil, nil, nil, nil, nil)

	m.DispatchToAll(EventAnnouncementCreate, map[string]string{"title": "maintenance"})

	m.replayMu.RLock()
	rb, ok := m.replayBuffer[globalFeed]
	m.replayMu.RUnlock()

	if !ok {
		t.Fatal("expected global replay buffer")
	}
	if events := rb.since(0); len(events) != 1 || events[0].Name != EventAnnouncementCreate {
		t.Errorf("unexpected global buffer contents: %v", events)
	}
}
