package events

import "time"

// Event types published over the recording lifecycle.
const (
	TypeRecordingStarted = "recording_started"
	TypeRecordingSaved   = "recording_saved"
	TypeEntryRemoved     = "entry_removed"
	TypeTrimCompleted    = "trim_completed"
)

// Event is one lifecycle notification.
type Event struct {
	Type        string    `json:"type"`
	Dataset     string    `json:"dataset"`
	SessionID   string    `json:"session_id,omitempty"`
	RecordingID string    `json:"recording_id,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher delivers lifecycle events to an external consumer. Publish
// failures are reported but never abort the operation that raised the
// event.
type Publisher interface {
	Publish(event Event) error
	Close() error
}

// Nop is the publisher used when eventing is disabled.
type Nop struct{}

func (Nop) Publish(Event) error { return nil }
func (Nop) Close() error        { return nil }
