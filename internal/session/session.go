package session

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rioharper/VoiceDatasetCreation/internal/audio"
	"github.com/rioharper/VoiceDatasetCreation/internal/ledger"
	"github.com/rioharper/VoiceDatasetCreation/internal/metrics"
	"github.com/rioharper/VoiceDatasetCreation/internal/workspace"
)

// State of the recording session.
type State int

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	if s == StateRecording {
		return "Recording"
	}
	return "Idle"
}

var (
	// ErrNotRecording is returned by PollTick and Stop when called while
	// Idle. PollTick deliberately errors instead of no-opping so a
	// misbehaving scheduler is visible.
	ErrNotRecording = errors.New("session is not recording")
	// ErrAlreadyRecording is returned by Start while Recording.
	ErrAlreadyRecording = errors.New("session is already recording")
)

// Session drives a capture device into a correctly framed WAV file. The
// lifecycle is Idle -> Recording -> Idle and re-enterable; the session is
// reused across many recordings. While Recording it holds the frame
// buffer and exclusive ownership of the capture device.
type Session struct {
	ws  *workspace.Workspace
	cfg audio.DeviceConfig

	mu      sync.Mutex
	state   State
	id      uuid.UUID
	device  audio.Device
	frames  [][]byte
	metrics *metrics.RecordingMetrics
}

// New creates an idle session recording into the given workspace with the
// fixed capture parameters.
func New(ws *workspace.Workspace, cfg audio.DeviceConfig) *Session {
	return &Session{ws: ws, cfg: cfg}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ID returns the id of the active (or last) recording session.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id.String()
}

// Metrics returns the metrics of the active (or last) recording.
func (s *Session) Metrics() *metrics.RecordingMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// Start opens the capture device and transitions to Recording. Valid only
// from Idle. On device-open failure the error is returned and the session
// stays Idle.
func (s *Session) Start(backend audio.Backend) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrAlreadyRecording
	}

	device, err := backend.Open(s.cfg)
	if err != nil {
		return err
	}

	s.id = uuid.New()
	s.device = device
	s.frames = nil
	s.state = StateRecording
	s.metrics = metrics.NewRecordingMetrics(s.ws.DatasetName, s.id.String(), s.cfg.SampleRate)

	log.Printf("Session %s: recording started (%d Hz, %d-bit, %d frames/read)",
		s.id, s.cfg.SampleRate, s.cfg.BitsPerSample, s.cfg.FramesPerBuffer)
	return nil
}

// PollTick reads exactly one fixed-size buffer from the device and
// appends it to the frame buffer. Valid only while Recording; while Idle
// it returns ErrNotRecording. A failed device read is fatal to the active
// recording: the device is closed, captured frames are discarded, and the
// session returns to Idle.
func (s *Session) PollTick() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}

	chunk, err := s.device.ReadChunk()
	if err != nil {
		log.Printf("Session %s: device read failed, aborting recording: %v", s.id, err)
		s.teardownLocked()
		return err
	}
	s.frames = append(s.frames, chunk)
	s.metrics.AddChunk(len(chunk))
	return nil
}

// Stop flushes one final device read, closes the device, concatenates the
// collected chunks, and writes wavs/{dataset}{seq}.wav. It returns the
// new ledger-eligible utterance with the caller-supplied transcription
// and transitions back to Idle. A recording stopped before any tick still
// produces a valid WAV with zero audio frames.
func (s *Session) Stop(seq int, transcription string) (ledger.Utterance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ledger.Utterance{}, ErrNotRecording
	}

	// Final read to flush whatever the device buffered. The device is
	// being torn down either way, so a failure here only costs the tail.
	if chunk, err := s.device.ReadChunk(); err == nil {
		s.frames = append(s.frames, chunk)
		s.metrics.AddChunk(len(chunk))
	} else {
		log.Printf("Session %s: final flush read failed: %v", s.id, err)
	}

	if err := s.device.Close(); err != nil {
		log.Printf("Session %s: device close failed: %v", s.id, err)
	}
	s.device = nil

	var pcm []byte
	for _, frame := range s.frames {
		pcm = append(pcm, frame...)
	}

	if err := os.MkdirAll(s.ws.WavsDir(), 0755); err != nil {
		s.teardownLocked()
		return ledger.Utterance{}, fmt.Errorf("failed to create %s: %w", s.ws.WavsDir(), err)
	}

	path := filepath.Join(s.ws.WavsDir(), fmt.Sprintf("%s%d.wav", s.ws.DatasetName, seq))
	buf := audio.Buffer{
		Data:          pcm,
		SampleRate:    s.cfg.SampleRate,
		Channels:      s.cfg.Channels,
		BitsPerSample: s.cfg.BitsPerSample,
	}
	if err := audio.WriteWAVFile(path, buf); err != nil {
		s.teardownLocked()
		return ledger.Utterance{}, err
	}

	s.metrics.Finalize()
	log.Printf("Session %s: saved %s (%.2f seconds)", s.id, path, s.metrics.AudioSeconds())

	id := s.ws.RecordingID(path)
	s.teardownLocked()
	return ledger.Utterance{RecordingID: id, Transcription: transcription}, nil
}

// teardownLocked releases the device and frame buffer and returns to
// Idle. Callers must hold s.mu.
func (s *Session) teardownLocked() {
	if s.device != nil {
		s.device.Close()
	}
	s.device = nil
	s.frames = nil
	s.state = StateIdle
}
