package audio

import (
	"fmt"
	"log"

	"github.com/gorilla/websocket"
)

// WebSocketBackend captures audio from a WebSocket endpoint that streams
// raw PCM as binary messages (a browser-microphone bridge, typically).
type WebSocketBackend struct {
	URL string
}

func (b *WebSocketBackend) Open(cfg DeviceConfig) (Device, error) {
	conn, _, err := websocket.DefaultDialer.Dial(b.URL, nil)
	if err != nil {
		return nil, &DeviceError{Op: "open", Err: fmt.Errorf("failed to connect to %s: %w", b.URL, err)}
	}

	device := newFeedDevice(cfg, conn.Close)

	go func() {
		defer device.finish()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("WebSocket feed: read failed: %v", err)
				}
				return
			}
			if msgType != websocket.BinaryMessage || len(data) == 0 {
				continue
			}
			if !device.push(data) {
				log.Printf("WebSocket feed: dropped message, reader too slow")
			}
		}
	}()

	return device, nil
}
