package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	l := New()
	l.Append("wavs/test1.wav", "hello there")
	l.Append("wavs/test2.wav", "general kenobi")

	path := filepath.Join(t.TempDir(), "metadata.csv")
	if err := l.Persist(path); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	mapping, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(mapping) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(mapping))
	}
	if mapping["wavs/test1.wav"] != "hello there" {
		t.Errorf("entry 1 = %q", mapping["wavs/test1.wav"])
	}
	if mapping["wavs/test2.wav"] != "general kenobi" {
		t.Errorf("entry 2 = %q", mapping["wavs/test2.wav"])
	}
}

func TestPersistFormat(t *testing.T) {
	l := New()
	l.Append("u1", "first line")
	l.Append("u2", "second line")

	path := filepath.Join(t.TempDir(), "metadata.csv")
	if err := l.Persist(path); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	want := "u1|first line\nu2|second line\n"
	if string(data) != want {
		t.Errorf("persisted content = %q, want %q", string(data), want)
	}
}

func TestPersistOverwritesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.csv")

	l := New()
	l.Append("u1.wav", "hello")
	l.Append("u2.wav", "world")
	if err := l.Persist(path); err != nil {
		t.Fatalf("first Persist failed: %v", err)
	}

	if err := l.Remove(0); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := l.Persist(path); err != nil {
		t.Fatalf("second Persist failed: %v", err)
	}

	mapping, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(mapping) != 1 {
		t.Fatalf("expected exactly 1 entry after remove, got %d", len(mapping))
	}
	if mapping["u2.wav"] != "world" {
		t.Errorf("surviving entry = %q, want \"world\"", mapping["u2.wav"])
	}
}

func TestRemoveOutOfRange(t *testing.T) {
	l := New()
	l.Append("u1", "a")

	for _, idx := range []int{-1, 1, 5} {
		err := l.Remove(idx)
		var ie *IndexError
		if !errors.As(err, &ie) {
			t.Errorf("Remove(%d): expected *IndexError, got %v", idx, err)
		}
	}
	// The failed removals must not have corrupted state.
	if l.Len() != 1 || l.Entry(0).RecordingID != "u1" {
		t.Errorf("ledger corrupted by failed remove: %+v", l.Entries())
	}
}

func TestLoadMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.csv")
	content := "good|entry\nthis line has no delimiter\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 2 {
		t.Errorf("ParseError.Line = %d, want 2", pe.Line)
	}
	if pe.Text != "this line has no delimiter" {
		t.Errorf("ParseError.Text = %q", pe.Text)
	}
}

func TestLoadTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.csv")
	if err := os.WriteFile(path, []byte("  u1.wav  |  spaced out  \n"), 0644); err != nil {
		t.Fatal(err)
	}

	mapping, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if mapping["u1.wav"] != "spaced out" {
		t.Errorf("expected trimmed parts, got %v", mapping)
	}
}

func TestLoadSplitsOnFirstDelimiterOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.csv")
	if err := os.WriteFile(path, []byte("u1|text with | a pipe\n"), 0644); err != nil {
		t.Fatal(err)
	}

	mapping, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if mapping["u1"] != "text with | a pipe" {
		t.Errorf("transcription = %q, want the pipe preserved", mapping["u1"])
	}
}
