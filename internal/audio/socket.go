package audio

import (
	"fmt"
	"io"
	"log"
	"net"
	"sync"

	"github.com/CyCoreSystems/audiosocket"
)

// SocketBackend captures audio from an AudioSocket feed: a companion mic
// streamer (or an Asterisk channel) dials the listen address and streams
// slin PCM frames, which become the wizard's capture device. Only one
// connection is served per open; the device owns the listener exclusively
// until closed.
type SocketBackend struct {
	ListenAddr string
}

func (b *SocketBackend) Open(cfg DeviceConfig) (Device, error) {
	listener, err := net.Listen("tcp", b.ListenAddr)
	if err != nil {
		return nil, &DeviceError{Op: "open", Err: fmt.Errorf("failed to listen on %s: %w", b.ListenAddr, err)}
	}

	var (
		mu   sync.Mutex
		conn net.Conn
	)
	device := newFeedDevice(cfg, func() error {
		mu.Lock()
		if conn != nil {
			conn.Close()
		}
		mu.Unlock()
		return listener.Close()
	})

	go func() {
		defer device.finish()

		c, err := listener.Accept()
		if err != nil {
			// Closed while waiting for the feed to dial in.
			return
		}
		mu.Lock()
		conn = c
		mu.Unlock()

		id, err := audiosocket.GetID(c)
		if err != nil {
			log.Printf("AudioSocket feed: failed to get ID: %v", err)
			return
		}
		log.Printf("AudioSocket feed %s connected from %s", id, c.RemoteAddr())

		for {
			msg, err := audiosocket.NextMessage(c)
			if err != nil {
				if err != io.EOF {
					log.Printf("AudioSocket feed %s: read failed: %v", id, err)
				}
				return
			}

			switch msg.Kind() {
			case audiosocket.KindSlin:
				if payload := msg.Payload(); len(payload) > 0 {
					if !device.push(payload) {
						log.Printf("AudioSocket feed %s: dropped frame, reader too slow", id)
					}
				}
			case audiosocket.KindHangup:
				log.Printf("AudioSocket feed %s: hangup", id)
				return
			case audiosocket.KindError:
				log.Printf("AudioSocket feed %s: error code %d", id, msg.ErrorCode())
				return
			}
		}
	}()

	return device, nil
}
