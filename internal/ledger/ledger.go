package ledger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Utterance is one recording-id/transcription pair. The recording id is a
// path-like string relative to the dataset root and must not contain '|'.
type Utterance struct {
	RecordingID   string
	Transcription string
}

// ParseError reports a ledger line that could not be parsed. Malformed
// lines are never silently dropped.
type ParseError struct {
	Path string
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed ledger line %s:%d: %q (missing '|' delimiter)", e.Path, e.Line, e.Text)
}

// IndexError reports an out-of-range removal. The ledger is left untouched.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("ledger index %d out of range (len %d)", e.Index, e.Len)
}

// Ledger is the ordered, mutable collection of utterances backing
// metadata.csv. Order is append order and is exactly the order persisted
// to and parsed from disk.
//
// The ledger does not enforce recording-id uniqueness; callers must not
// append a duplicate id. Mutation and persistence are decoupled: callers
// invoke Persist after any change that should survive a restart.
type Ledger struct {
	entries []Utterance
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append adds an utterance at the end.
func (l *Ledger) Append(recordingID, transcription string) {
	l.entries = append(l.entries, Utterance{RecordingID: recordingID, Transcription: transcription})
}

// Remove deletes the entry at index. Out-of-range indexes return an
// *IndexError without corrupting ledger state.
func (l *Ledger) Remove(index int) error {
	if index < 0 || index >= len(l.entries) {
		return &IndexError{Index: index, Len: len(l.entries)}
	}
	l.entries = append(l.entries[:index], l.entries[index+1:]...)
	return nil
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Entries returns a copy of the ordered entries.
func (l *Ledger) Entries() []Utterance {
	out := make([]Utterance, len(l.entries))
	copy(out, l.entries)
	return out
}

// Entry returns the utterance at index i.
func (l *Ledger) Entry(i int) Utterance { return l.entries[i] }

// Persist serializes the entire ordered sequence to path, one
// "id|transcription" line per entry, overwriting the file wholesale. The
// rewrite is atomic: content goes to a temp file first and is renamed into
// place. Concurrent external writers are not supported.
func (l *Ledger) Persist(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".metadata-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create ledger temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, e := range l.entries {
		if _, err := fmt.Fprintf(w, "%s|%s\n", e.RecordingID, e.Transcription); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write ledger entry %s: %w", e.RecordingID, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close ledger temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace ledger %s: %w", path, err)
	}
	return nil
}

// Load reads a persisted ledger and returns its id to transcription mapping.
// Each line is split on the first '|' with surrounding whitespace trimmed
// from both parts. A line without a delimiter fails with *ParseError.
func Load(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger %s: %w", path, err)
	}
	defer file.Close()

	mapping := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		id, transcription, ok := strings.Cut(line, "|")
		if !ok {
			return nil, &ParseError{Path: path, Line: lineNum, Text: line}
		}
		mapping[strings.TrimSpace(id)] = strings.TrimSpace(transcription)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger %s: %w", path, err)
	}
	return mapping, nil
}
