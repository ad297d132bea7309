package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/rioharper/VoiceDatasetCreation/internal/audio"
	"github.com/rioharper/VoiceDatasetCreation/internal/corpus"
	"github.com/rioharper/VoiceDatasetCreation/internal/events"
	"github.com/rioharper/VoiceDatasetCreation/internal/ledger"
	"github.com/rioharper/VoiceDatasetCreation/internal/session"
	"github.com/rioharper/VoiceDatasetCreation/internal/trim"
	"github.com/rioharper/VoiceDatasetCreation/internal/workspace"
)

// ErrNoSentence is returned by StartRecording before a prompt sentence
// has been generated.
var ErrNoSentence = errors.New("no generated sentence to record")

// Wizard is the explicit context tying one dataset's state together:
// workspace, ledger, sentence generator, the active recording session,
// and the event publisher. Front ends (the CLI here, a window elsewhere)
// are read-only views plus dispatchers into these methods.
type Wizard struct {
	Workspace *workspace.Workspace
	Ledger    *ledger.Ledger
	Generator *corpus.Generator
	Session   *session.Session
	Publisher events.Publisher

	TrimThresholdDBFS float64
	TrimChunkMS       int

	sentence string
}

// New bootstraps the workspace and builds the wizard around the
// reconciled ledger.
func New(ws *workspace.Workspace, cfg audio.DeviceConfig, pub events.Publisher) (*Wizard, error) {
	led, root, err := ws.Bootstrap()
	if err != nil {
		return nil, err
	}
	log.Printf("Dataset %s ready at %s (%d existing entries)", ws.DatasetName, root, led.Len())

	if pub == nil {
		pub = events.Nop{}
	}
	return &Wizard{
		Workspace: ws,
		Ledger:    led,
		Generator: corpus.NewGenerator(),
		Session:   session.New(ws, cfg),
		Publisher: pub,
	}, nil
}

// AddSource loads a sentence corpus and registers it with the generator.
func (w *Wizard) AddSource(path string) error {
	c, err := corpus.Load(path)
	if err != nil {
		return err
	}
	w.Generator.Add(c)
	log.Printf("Generator source added: %s (%d lines)", c.Origin(), c.Len())
	return nil
}

// RemoveSource unregisters a corpus by origin.
func (w *Wizard) RemoveSource(origin string) {
	w.Generator.Remove(origin)
}

// GenerateSentence picks and remembers the next prompt.
func (w *Wizard) GenerateSentence() (string, error) {
	sentence, err := w.Generator.Pick()
	if err != nil {
		return "", err
	}
	w.sentence = sentence
	return sentence, nil
}

// CurrentSentence returns the active prompt, empty when none was
// generated yet.
func (w *Wizard) CurrentSentence() string {
	return w.sentence
}

// NextSequence returns the sequence number the next recording will use.
func (w *Wizard) NextSequence() int {
	return w.Ledger.Len() + 1
}

// StartRecording opens the capture device for the current prompt.
func (w *Wizard) StartRecording(backend audio.Backend) error {
	if w.sentence == "" {
		return ErrNoSentence
	}
	if err := w.Session.Start(backend); err != nil {
		return err
	}
	w.publish(events.Event{
		Type:      events.TypeRecordingStarted,
		SessionID: w.Session.ID(),
		Detail:    w.sentence,
	})
	return nil
}

// StopRecording finishes the active capture, appends the new utterance to
// the ledger, and persists the ledger. The ledger write happens after the
// WAV is safely on disk; a persist failure leaves the WAV in place and is
// surfaced for the caller to retry.
func (w *Wizard) StopRecording() (ledger.Utterance, error) {
	utt, err := w.Session.Stop(w.NextSequence(), w.sentence)
	if err != nil {
		return ledger.Utterance{}, err
	}

	w.Ledger.Append(utt.RecordingID, utt.Transcription)
	if err := w.Ledger.Persist(w.Workspace.MetadataPath()); err != nil {
		return utt, fmt.Errorf("recording %s saved but ledger persist failed: %w", utt.RecordingID, err)
	}

	w.publish(events.Event{
		Type:        events.TypeRecordingSaved,
		SessionID:   w.Session.ID(),
		RecordingID: utt.RecordingID,
		Detail:      utt.Transcription,
	})
	return utt, nil
}

// RemoveEntry deletes the ledger entry at index and re-persists. The
// underlying WAV file is intentionally left on disk.
func (w *Wizard) RemoveEntry(index int) error {
	removed := ""
	if index >= 0 && index < w.Ledger.Len() {
		removed = w.Ledger.Entry(index).RecordingID
	}
	if err := w.Ledger.Remove(index); err != nil {
		return err
	}
	if err := w.Ledger.Persist(w.Workspace.MetadataPath()); err != nil {
		return err
	}
	w.publish(events.Event{Type: events.TypeEntryRemoved, RecordingID: removed})
	return nil
}

// TrimSilence runs the two-phase silence-trim batch over every ledger
// entry.
func (w *Wizard) TrimSilence(ctx context.Context, progress trim.Progress) error {
	batch := &trim.Batch{
		Workspace:     w.Workspace,
		Ledger:        w.Ledger,
		ThresholdDBFS: w.TrimThresholdDBFS,
		ChunkMS:       w.TrimChunkMS,
		Progress:      progress,
	}
	if err := batch.Run(ctx); err != nil {
		return err
	}
	w.publish(events.Event{
		Type:   events.TypeTrimCompleted,
		Detail: fmt.Sprintf("%d recordings trimmed", w.Ledger.Len()),
	})
	return nil
}

func (w *Wizard) publish(event events.Event) {
	event.Dataset = w.Workspace.DatasetName
	if err := w.Publisher.Publish(event); err != nil {
		log.Printf("Failed to publish %s event: %v", event.Type, err)
	}
}
