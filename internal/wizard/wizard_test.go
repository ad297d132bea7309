package wizard

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rioharper/VoiceDatasetCreation/internal/audio"
	"github.com/rioharper/VoiceDatasetCreation/internal/events"
	"github.com/rioharper/VoiceDatasetCreation/internal/ledger"
	"github.com/rioharper/VoiceDatasetCreation/internal/workspace"
)

type fakeDevice struct {
	chunks [][]byte
}

func (d *fakeDevice) ReadChunk() ([]byte, error) {
	if len(d.chunks) == 0 {
		return nil, nil
	}
	chunk := d.chunks[0]
	d.chunks = d.chunks[1:]
	return chunk, nil
}

func (d *fakeDevice) Close() error { return nil }

type fakeBackend struct {
	chunks [][]byte
}

func (b *fakeBackend) Open(cfg audio.DeviceConfig) (audio.Device, error) {
	return &fakeDevice{chunks: b.chunks}, nil
}

type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(e events.Event) error {
	p.types = append(p.types, e.Type)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// loudChunk builds one device read of constant non-silent samples.
func loudChunk(frames int) []byte {
	data := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(8000)))
	}
	return data
}

func testWizard(t *testing.T) (*Wizard, *recordingPublisher) {
	t.Helper()
	ws := workspace.New(t.TempDir(), "demo", workspace.IDStyleLJSpeech)
	pub := &recordingPublisher{}
	w, err := New(ws, audio.DefaultDeviceConfig(), pub)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return w, pub
}

func addSource(t *testing.T, w *Wizard, lines string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sentences.txt")
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatal(err)
	}
	if err := w.AddSource(path); err != nil {
		t.Fatalf("AddSource failed: %v", err)
	}
}

func TestRecordFlow(t *testing.T) {
	w, pub := testWizard(t)
	addSource(t, w, "the only sentence\n")

	sentence, err := w.GenerateSentence()
	if err != nil {
		t.Fatalf("GenerateSentence failed: %v", err)
	}
	if sentence != "the only sentence" {
		t.Fatalf("sentence = %q", sentence)
	}

	backend := &fakeBackend{chunks: [][]byte{loudChunk(1024)}}
	if err := w.StartRecording(backend); err != nil {
		t.Fatalf("StartRecording failed: %v", err)
	}
	utt, err := w.StopRecording()
	if err != nil {
		t.Fatalf("StopRecording failed: %v", err)
	}

	if utt.RecordingID != "demo1" {
		t.Errorf("recording id = %q, want \"demo1\"", utt.RecordingID)
	}
	if utt.Transcription != "the only sentence" {
		t.Errorf("transcription = %q", utt.Transcription)
	}
	if w.Ledger.Len() != 1 {
		t.Errorf("ledger entries = %d, want 1", w.Ledger.Len())
	}

	// The ledger was persisted with the recording.
	mapping, err := ledger.Load(w.Workspace.MetadataPath())
	if err != nil {
		t.Fatalf("loading persisted ledger: %v", err)
	}
	if mapping["demo1"] != "the only sentence" {
		t.Errorf("persisted mapping = %v", mapping)
	}

	wantEvents := []string{events.TypeRecordingStarted, events.TypeRecordingSaved}
	if len(pub.types) != 2 || pub.types[0] != wantEvents[0] || pub.types[1] != wantEvents[1] {
		t.Errorf("published events = %v, want %v", pub.types, wantEvents)
	}
}

func TestStartRecordingRequiresSentence(t *testing.T) {
	w, _ := testWizard(t)
	err := w.StartRecording(&fakeBackend{})
	if !errors.Is(err, ErrNoSentence) {
		t.Errorf("StartRecording without prompt = %v, want ErrNoSentence", err)
	}
}

func TestSequenceNumbersAdvance(t *testing.T) {
	w, _ := testWizard(t)
	addSource(t, w, "a\n")

	for want := 1; want <= 3; want++ {
		if got := w.NextSequence(); got != want {
			t.Fatalf("NextSequence = %d, want %d", got, want)
		}
		if _, err := w.GenerateSentence(); err != nil {
			t.Fatal(err)
		}
		if err := w.StartRecording(&fakeBackend{}); err != nil {
			t.Fatal(err)
		}
		if _, err := w.StopRecording(); err != nil {
			t.Fatal(err)
		}
	}
	for i, want := range []string{"demo1", "demo2", "demo3"} {
		if got := w.Ledger.Entry(i).RecordingID; got != want {
			t.Errorf("entry %d id = %q, want %q", i, got, want)
		}
	}
}

func TestRemoveEntryKeepsAudio(t *testing.T) {
	w, _ := testWizard(t)
	addSource(t, w, "keep me honest\n")

	if _, err := w.GenerateSentence(); err != nil {
		t.Fatal(err)
	}
	if err := w.StartRecording(&fakeBackend{}); err != nil {
		t.Fatal(err)
	}
	utt, err := w.StopRecording()
	if err != nil {
		t.Fatal(err)
	}
	wavPath := w.Workspace.AudioPath(utt.RecordingID)

	if err := w.RemoveEntry(0); err != nil {
		t.Fatalf("RemoveEntry failed: %v", err)
	}
	if w.Ledger.Len() != 0 {
		t.Errorf("ledger entries = %d, want 0", w.Ledger.Len())
	}
	// Removal re-persists the ledger but never deletes the WAV.
	if _, err := os.Stat(wavPath); err != nil {
		t.Errorf("WAV was deleted on entry removal: %v", err)
	}
	mapping, err := ledger.Load(w.Workspace.MetadataPath())
	if err != nil {
		t.Fatal(err)
	}
	if len(mapping) != 0 {
		t.Errorf("persisted ledger not rewritten: %v", mapping)
	}

	var ie *ledger.IndexError
	if err := w.RemoveEntry(5); !errors.As(err, &ie) {
		t.Errorf("RemoveEntry(5) = %v, want *IndexError", err)
	}
}

func TestTrimSilenceBatch(t *testing.T) {
	w, pub := testWizard(t)
	addSource(t, w, "silence around me\n")

	// Record one utterance: silence, tone, silence.
	silent := make([]byte, 2048)
	backend := &fakeBackend{chunks: [][]byte{silent, loudChunk(1024), silent}}
	if _, err := w.GenerateSentence(); err != nil {
		t.Fatal(err)
	}
	if err := w.StartRecording(backend); err != nil {
		t.Fatal(err)
	}
	if err := w.Session.PollTick(); err != nil {
		t.Fatal(err)
	}
	if err := w.Session.PollTick(); err != nil {
		t.Fatal(err)
	}
	utt, err := w.StopRecording()
	if err != nil {
		t.Fatal(err)
	}

	before, err := audio.ReadWAVFile(w.Workspace.AudioPath(utt.RecordingID))
	if err != nil {
		t.Fatal(err)
	}

	if err := w.TrimSilence(context.Background(), nil); err != nil {
		t.Fatalf("TrimSilence failed: %v", err)
	}

	after, err := audio.ReadWAVFile(w.Workspace.AudioPath(utt.RecordingID))
	if err != nil {
		t.Fatal(err)
	}
	if after.Frames() >= before.Frames() {
		t.Errorf("trim did not shrink audio: %d -> %d frames", before.Frames(), after.Frames())
	}

	last := pub.types[len(pub.types)-1]
	if last != events.TypeTrimCompleted {
		t.Errorf("last event = %q, want trim_completed", last)
	}
}
