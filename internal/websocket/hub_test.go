package websocket

import (
	"encoding/json"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestNewMessageType(t *testing.T) {
	msg := NewMessage("recipe", "created", "abc", nil)
	if msg.Type != "recipe_created" {
		t.Errorf("type = %q, want %q", msg.Type, "recipe_created")
	}
	if msg.ID != "abc" {
		t.Errorf("id = %q, want %q", msg.ID, "abc")
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(testLogger())
	c := &Client{hub: hub, send: make(chan []byte, 1)}

	hub.Register(c)
	if hub.ClientCount() != 1 {
		t.Fatalf("client count = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(c)
	if hub.ClientCount() != 0 {
		t.Fatalf("client count = %d, want 0", hub.ClientCount())
	}

	// Double-unregister must not panic or double-close
	hub.Unregister(c)
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(testLogger())
	c := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.Register(c)

	hub.Broadcast(NewMessage("shopping_item", "deleted", "item-1", nil))

	select {
	case data := <-c.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if msg.Type != "shopping_item_deleted" {
			t.Errorf("type = %q, want %q", msg.Type, "shopping_item_deleted")
		}
	default:
		t.Fatal("expected a broadcast message")
	}
}

func TestHubBroadcastDropsWhenFull(t *testing.T) {
	hub := NewHub(testLogger())
	c := &Client{hub: hub, send: make(chan []byte)} // no buffer, nobody reading
	hub.Register(c)

	// Must not block
	hub.Broadcast(NewMessage("recipe", "updated", "r1", nil))
}
