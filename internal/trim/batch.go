package trim

import (
	"context"
	"fmt"

	"github.com/rioharper/VoiceDatasetCreation/internal/audio"
	"github.com/rioharper/VoiceDatasetCreation/internal/ledger"
	"github.com/rioharper/VoiceDatasetCreation/internal/workspace"
)

// Progress is called once per entry per phase. Phase is "compute" or
// "write"; index counts from zero within total entries.
type Progress func(phase, recordingID string, index, total int)

// Batch trims every recording named by a ledger, in ledger order.
//
// The run is two-phase: phase 1 decodes and trims every file, holding the
// results only in memory; phase 2 overwrites each source file with its
// trimmed audio. Cancellation during phase 1 discards everything with zero
// files touched on disk. Cancellation during phase 2 is best-effort:
// files already written stay written, the rest are left untouched.
type Batch struct {
	Workspace     *workspace.Workspace
	Ledger        *ledger.Ledger
	ThresholdDBFS float64
	ChunkMS       int
	Progress      Progress
}

type trimmed struct {
	path string
	buf  audio.Buffer
}

// Run executes the batch. Cancellation is observed at per-entry
// granularity; there is no per-file timeout.
func (b *Batch) Run(ctx context.Context) error {
	threshold := b.ThresholdDBFS
	if threshold == 0 {
		threshold = DefaultThresholdDBFS
	}
	chunkMS := b.ChunkMS
	if chunkMS <= 0 {
		chunkMS = DefaultChunkMS
	}
	progress := b.Progress
	if progress == nil {
		progress = func(string, string, int, int) {}
	}

	entries := b.Ledger.Entries()
	results := make([]trimmed, 0, len(entries))

	// Phase 1: compute every trim in memory, no disk writes.
	for i, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		progress("compute", entry.RecordingID, i, len(entries))

		path := b.Workspace.AudioPath(entry.RecordingID)
		buf, err := audio.ReadWAVFile(path)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", entry.RecordingID, err)
		}
		results = append(results, trimmed{path: path, buf: TrimWith(buf, threshold, chunkMS)})
	}

	// Phase 2: overwrite the sources in place.
	for i, r := range results {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		progress("write", entries[i].RecordingID, i, len(results))

		if err := audio.WriteWAVFile(r.path, r.buf); err != nil {
			return fmt.Errorf("failed to write trimmed %s: %w", entries[i].RecordingID, err)
		}
	}
	return nil
}
