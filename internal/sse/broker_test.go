package sse

import (
	"strings"
	"testing"
	"time"
)

func recvEvent(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg := <-ch:
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	if got := b.ClientCount(); got != 1 {
		t.Fatalf("ClientCount = %d, want 1", got)
	}

	b.Unsubscribe(ch)
	if got := b.ClientCount(); got != 0 {
		t.Fatalf("ClientCount = %d, want 0", got)
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestPublishDelivers(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	b.Publish(Event{Type: "meal.logged", Data: map[string]string{"food_name": "rice"}})

	for _, ch := range []chan []byte{ch1, ch2} {
		msg := recvEvent(t, ch)
		if !strings.HasPrefix(msg, "event: meal.logged\n") {
			t.Errorf("message = %q", msg)
		}
		if !strings.Contains(msg, `"food_name":"rice"`) {
			t.Errorf("payload missing food name: %q", msg)
		}
	}
}

func TestPublishMealLogged(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	b.PublishMealLogged(map[string]any{"total_calories": 260})

	msg := recvEvent(t, ch)
	if !strings.Contains(msg, "meal.logged") || !strings.Contains(msg, "260") {
		t.Errorf("message = %q", msg)
	}
}

func TestCloseShutsDownClients(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after Close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after Close")
	}

	// Operations after Close must be safe no-ops.
	b.Publish(Event{Type: "noop"})
	if got := b.ClientCount(); got != 0 {
		t.Errorf("ClientCount after close = %d", got)
	}
}
