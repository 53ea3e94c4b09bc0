package live

import (
	"encoding/json"
	"testing"
	"time"

	"mandi/mq"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake client
	client := &Client{
		Send: make(chan []byte, 10),
		Room: "product-1",
	}

	// register client
	hub.register <- client

	// broadcast a test event
	ev := mq.Event{Type: mq.EventBidPlaced, EntityID: "product-1", Room: "product-1", At: time.Now()}
	data, _ := json.Marshal(ev)
	hub.Broadcast("product-1", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	// events for other rooms must not reach this client
	hub.Broadcast("product-2", []byte("other"))
	select {
	case got := <-client.Send:
		t.Fatalf("received message for another room: %s", got)
	case <-time.After(100 * time.Millisecond):
	}

	// unregister client
	hub.unregister <- client
}

func TestDroppedClientUnregisterIsSafe(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// no reader on Send, so the first broadcast drops this client and
	// closes its channel
	slow := &Client{
		Send: make(chan []byte),
		Room: "product-9",
	}
	hub.register <- slow
	hub.Broadcast("product-9", []byte("tick"))

	// the connection teardown path reports the dropped client again;
	// the hub must not close its channel a second time
	hub.unregister <- slow

	// hub still delivers to healthy clients afterwards
	healthy := &Client{
		Send: make(chan []byte, 1),
		Room: "product-9",
	}
	hub.register <- healthy
	hub.Broadcast("product-9", []byte("tock"))

	select {
	case got := <-healthy.Send:
		if string(got) != "tock" {
			t.Fatalf("expected tock, got %s", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("hub stopped delivering after dropped-client unregister")
	}
}
