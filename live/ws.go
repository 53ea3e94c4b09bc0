package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mandi/mq"
	"mandi/rdx"
	"mandi/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// ServeWS upgrades GET /ws/updates/:room. The server only pushes; inbound
// frames are drained until the client goes away.
func ServeWS(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		room := ps.ByName("room")
		userID := utils.GetUserIDFromRequest(r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			Room:   room,
			UserID: userID,
		}
		hub.register <- client

		go writePump(client)
		go readPump(hub, client)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func readPump(hub *Hub, c *Client) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

// StartEventBridge forwards domain events from the Redis channel into the
// hub. Runs until ctx is cancelled.
func StartEventBridge(ctx context.Context, hub *Hub) {
	sub := rdx.Conn.Subscribe(ctx, mq.Channel)
	ch := sub.Channel()

	log.Println("[EventBridge] Listening for market events...")

	for {
		select {
		case <-ctx.Done():
			sub.Close()
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev mq.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[EventBridge] Failed to parse event: %v", err)
				continue
			}
			if ev.Room == "" {
				continue
			}
			if ev.At.IsZero() {
				ev.At = time.Now()
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			hub.Broadcast(ev.Room, data)
		}
	}
}
