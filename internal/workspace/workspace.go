package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rioharper/VoiceDatasetCreation/internal/ledger"
)

// IDStyle selects how recording ids are derived from WAV file paths.
type IDStyle string

const (
	// IDStyleLJSpeech strips the wavs/ prefix and .wav extension from the
	// id ("wavs/demo1.wav" -> "demo1"), the convention LJSpeech-format
	// datasets use. This is the canonical default.
	IDStyleLJSpeech IDStyle = "ljspeech"
	// IDStylePaths keeps the dataset-root-relative path intact
	// ("wavs/demo1.wav"), the convention some other datasets expect.
	IDStylePaths IDStyle = "paths"
)

// WorkspaceError reports a fatal failure preparing the dataset directory.
type WorkspaceError struct {
	Path string
	Err  error
}

func (e *WorkspaceError) Error() string {
	return fmt.Sprintf("workspace failure at %s: %v", e.Path, e.Err)
}

func (e *WorkspaceError) Unwrap() error { return e.Err }

// Workspace owns the on-disk root for one dataset:
//
//	<RootPath>/<DatasetName>/wavs/*.wav
//	<RootPath>/<DatasetName>/metadata.csv
type Workspace struct {
	RootPath    string
	DatasetName string
	Style       IDStyle
}

// New creates a workspace description. An empty style defaults to
// IDStyleLJSpeech.
func New(rootPath, datasetName string, style IDStyle) *Workspace {
	if style == "" {
		style = IDStyleLJSpeech
	}
	return &Workspace{RootPath: rootPath, DatasetName: datasetName, Style: style}
}

// Root returns the dataset root directory.
func (w *Workspace) Root() string {
	return filepath.Join(w.RootPath, w.DatasetName)
}

// WavsDir returns the directory holding the dataset's audio files.
func (w *Workspace) WavsDir() string {
	return filepath.Join(w.Root(), "wavs")
}

// MetadataPath returns the path of the persisted ledger.
func (w *Workspace) MetadataPath() string {
	return filepath.Join(w.Root(), "metadata.csv")
}

// RecordingID derives the recording id for a WAV file path under the
// dataset root, applying the configured id style. Ids always use forward
// slashes regardless of host platform.
func (w *Workspace) RecordingID(wavPath string) string {
	rel, err := filepath.Rel(w.Root(), wavPath)
	if err != nil {
		rel = filepath.Base(wavPath)
	}
	id := filepath.ToSlash(rel)
	if w.Style == IDStyleLJSpeech {
		id = strings.TrimPrefix(id, "wavs/")
		id = strings.TrimSuffix(id, ".wav")
	}
	return id
}

// AudioPath resolves a recording id back to the WAV file it names,
// accepting ids of either style.
func (w *Workspace) AudioPath(recordingID string) string {
	if strings.HasSuffix(recordingID, ".wav") {
		return filepath.Join(w.Root(), filepath.FromSlash(recordingID))
	}
	return filepath.Join(w.WavsDir(), filepath.FromSlash(recordingID)+".wav")
}

// Bootstrap creates the dataset root (idempotent) and reconciles any
// existing WAV files against an existing persisted ledger.
//
// When both wavs/ and metadata.csv are present, the WAV files are walked
// in natural order and every file whose id appears in the ledger mapping
// is added to the returned ledger; unmapped files are silently skipped.
// When either is missing the returned ledger is empty. Directory creation
// failures are fatal and surface as *WorkspaceError.
func (w *Workspace) Bootstrap() (*ledger.Ledger, string, error) {
	root := w.Root()
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, "", &WorkspaceError{Path: root, Err: err}
	}

	led := ledger.New()

	meta, err := os.Stat(w.MetadataPath())
	haveLedger := err == nil && meta.Mode().IsRegular()
	wavs, err := os.Stat(w.WavsDir())
	haveWavs := err == nil && wavs.IsDir()
	if !haveLedger || !haveWavs {
		return led, root, nil
	}

	mapping, err := ledger.Load(w.MetadataPath())
	if err != nil {
		return nil, "", err
	}

	files, err := filepath.Glob(filepath.Join(w.WavsDir(), "*.wav"))
	if err != nil {
		return nil, "", &WorkspaceError{Path: w.WavsDir(), Err: err}
	}
	sort.Slice(files, func(i, j int) bool {
		return NaturalLess(filepath.Base(files[i]), filepath.Base(files[j]))
	})

	for _, file := range files {
		id := w.RecordingID(file)
		transcription, ok := mapping[id]
		if !ok {
			// Fall back to the wavs-relative path so datasets persisted
			// under the other id convention still reconcile.
			rel, relErr := filepath.Rel(root, file)
			if relErr != nil {
				continue
			}
			id = filepath.ToSlash(rel)
			if transcription, ok = mapping[id]; !ok {
				continue
			}
		}
		led.Append(id, transcription)
	}

	return led, root, nil
}
