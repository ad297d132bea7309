package audio

import (
	"fmt"
	"sync"
	"time"
)

// DeviceConfig fixes the capture parameters. The wizard always records
// mono 16-bit signed audio at 22050 Hz in 1024-sample reads.
type DeviceConfig struct {
	Channels        int
	SampleRate      int
	BitsPerSample   int
	FramesPerBuffer int
}

// DefaultDeviceConfig returns the fixed recording parameters.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		Channels:        1,
		SampleRate:      22050,
		BitsPerSample:   16,
		FramesPerBuffer: 1024,
	}
}

// ChunkBytes returns the byte size of one fixed-size device read.
func (c DeviceConfig) ChunkBytes() int {
	return c.FramesPerBuffer * c.Channels * c.BitsPerSample / 8
}

// ChunkDuration returns the wall-clock length of one device read.
func (c DeviceConfig) ChunkDuration() time.Duration {
	return time.Duration(c.FramesPerBuffer) * time.Second / time.Duration(c.SampleRate)
}

// DeviceError reports a capture device that could not be opened or read.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("capture device %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Device is an exclusively-owned capture source. ReadChunk returns exactly
// one fixed-size PCM buffer and never blocks for longer than roughly one
// buffer's worth of audio; when the feed has no data in time the chunk is
// zero-filled so the caller's cadence is preserved.
type Device interface {
	ReadChunk() ([]byte, error)
	Close() error
}

// Backend opens capture devices with the given parameters.
type Backend interface {
	Open(cfg DeviceConfig) (Device, error)
}

// feedDevice adapts a byte stream arriving from the wire (AudioSocket
// frames, WebSocket messages) into fixed-size device reads.
type feedDevice struct {
	cfg     DeviceConfig
	feed    chan []byte
	pending []byte

	closeOnce sync.Once
	closeFn   func() error
}

func newFeedDevice(cfg DeviceConfig, closeFn func() error) *feedDevice {
	return &feedDevice{
		cfg:     cfg,
		feed:    make(chan []byte, 64),
		closeFn: closeFn,
	}
}

// push hands wire bytes to the device. Returns false once the reader side
// can no longer keep up; the frame is dropped rather than blocking the
// network goroutine.
func (d *feedDevice) push(data []byte) bool {
	buf := make([]byte, len(data))
	copy(buf, data)
	select {
	case d.feed <- buf:
		return true
	default:
		return false
	}
}

// finish signals that no more wire data will arrive.
func (d *feedDevice) finish() {
	d.closeOnce.Do(func() { close(d.feed) })
}

func (d *feedDevice) ReadChunk() ([]byte, error) {
	chunkBytes := d.cfg.ChunkBytes()
	deadline := time.NewTimer(d.cfg.ChunkDuration())
	defer deadline.Stop()

	for len(d.pending) < chunkBytes {
		select {
		case data, ok := <-d.feed:
			if !ok {
				if len(d.pending) == 0 {
					return nil, &DeviceError{Op: "read", Err: fmt.Errorf("audio feed closed")}
				}
				// Pad the tail of the feed out to one full chunk.
				return d.takeChunk(chunkBytes), nil
			}
			d.pending = append(d.pending, data...)
		case <-deadline.C:
			// The feed stalled; emit silence to keep the read bounded.
			return d.takeChunk(chunkBytes), nil
		}
	}
	return d.takeChunk(chunkBytes), nil
}

func (d *feedDevice) takeChunk(chunkBytes int) []byte {
	chunk := make([]byte, chunkBytes)
	n := copy(chunk, d.pending)
	d.pending = d.pending[n:]
	return chunk
}

func (d *feedDevice) Close() error {
	if d.closeFn != nil {
		return d.closeFn()
	}
	return nil
}
