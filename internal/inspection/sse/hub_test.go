package sse

import (
	"testing"
)

func TestHubBroadcastReachesRegisteredClients(t *testing.T) {
	hub := NewHub(nil)
	a := &Client{ID: "a", Events: make(chan Event, 1)}
	b := &Client{ID: "b", Events: make(chan Event, 1)}
	hub.Register(a)
	hub.Register(b)

	hub.PublishFactoryUpdate(7, "created")

	for _, c := range []*Client{a, b} {
		select {
		case ev := <-c.Events:
			if ev.EventType != EventFactoryUpdate {
				t.Fatalf("expected %s, got %s", EventFactoryUpdate, ev.EventType)
			}
			if ev.Data != `{"id":7,"action":"created"}` {
				t.Fatalf("unexpected data %s", ev.Data)
			}
		default:
			t.Fatalf("client %s received nothing", c.ID)
		}
	}
}

func TestHubSkipsFullBuffers(t *testing.T) {
	hub := NewHub(nil)
	c := &Client{ID: "slow", Events: make(chan Event, 1)}
	hub.Register(c)

	hub.PublishInspectionUpdate(1, "created")
	hub.PublishInspectionUpdate(2, "created")

	if len(c.Events) != 1 {
		t.Fatalf("expected buffered event count 1, got %d", len(c.Events))
	}
}

func TestHubUnregisterClosesChannel(t *testing.T) {
	hub := NewHub(nil)
	c := &Client{ID: "x", Events: make(chan Event, 1)}
	hub.Register(c)
	hub.Unregister("x")
	hub.Unregister("x")

	if _, ok := <-c.Events; ok {
		t.Fatal("expected closed channel")
	}
	if hub.Count() != 0 {
		t.Fatalf("expected no clients, got %d", hub.Count())
	}
}
