package trim

import (
	"github.com/rioharper/VoiceDatasetCreation/internal/audio"
)

const (
	// DefaultThresholdDBFS is the level below which a window counts as silence.
	DefaultThresholdDBFS = -40.0
	// DefaultChunkMS is the width of one scan window.
	DefaultChunkMS = 10
)

// DetectLeadingSilence scans buf left-to-right in non-overlapping windows
// of chunkMS and returns the offset in milliseconds of the first window at
// or above thresholdDBFS. The result is clamped to the buffer length, so
// an entirely silent buffer yields its full duration.
func DetectLeadingSilence(buf audio.Buffer, thresholdDBFS float64, chunkMS int) int {
	if chunkMS <= 0 {
		chunkMS = DefaultChunkMS
	}
	duration := buf.DurationMS()
	offset := 0
	for offset < duration && buf.SliceMS(offset, offset+chunkMS).DBFS() < thresholdDBFS {
		offset += chunkMS
	}
	if offset > duration {
		offset = duration
	}
	return offset
}

// Trim removes leading and trailing silence using the default threshold
// and window. Fully silent input collapses to a zero-length buffer.
func Trim(buf audio.Buffer) audio.Buffer {
	return TrimWith(buf, DefaultThresholdDBFS, DefaultChunkMS)
}

// TrimWith is Trim with explicit detection parameters.
func TrimWith(buf audio.Buffer, thresholdDBFS float64, chunkMS int) audio.Buffer {
	start := DetectLeadingSilence(buf, thresholdDBFS, chunkMS)
	endFromEnd := DetectLeadingSilence(buf.Reverse(), thresholdDBFS, chunkMS)

	end := buf.DurationMS() - endFromEnd
	if start >= end {
		return buf.SliceMS(0, 0)
	}
	return buf.SliceMS(start, end)
}
