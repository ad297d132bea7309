package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	content := `
dataset:
  name: demo
  root: /tmp/datasets
capture:
  backend: websocket
  stream_url: ws://localhost:9000/mic
trim:
  threshold_dbfs: -35.5
  chunk_ms: 20
generator:
  sources:
    - sentences.txt
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Dataset.Name != "demo" || cfg.Dataset.Root != "/tmp/datasets" {
		t.Errorf("dataset = %+v", cfg.Dataset)
	}
	if cfg.Capture.Backend != "websocket" || cfg.Capture.StreamURL != "ws://localhost:9000/mic" {
		t.Errorf("capture = %+v", cfg.Capture)
	}
	if cfg.Trim.ThresholdDBFS != -35.5 || cfg.Trim.ChunkMS != 20 {
		t.Errorf("trim = %+v", cfg.Trim)
	}
	if len(cfg.Generator.Sources) != 1 || cfg.Generator.Sources[0] != "sentences.txt" {
		t.Errorf("generator = %+v", cfg.Generator)
	}
	// Untouched fields keep their defaults.
	if cfg.Capture.TicksPerSecond != 1000 {
		t.Errorf("ticks_per_second = %d, want default 1000", cfg.Capture.TicksPerSecond)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WIZARD_DATASET_NAME", "override")
	t.Setenv("WIZARD_TICKS_PER_SECOND", "500")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Dataset.Name != "override" {
		t.Errorf("dataset name = %q, want env override", cfg.Dataset.Name)
	}
	if cfg.Capture.TicksPerSecond != 500 {
		t.Errorf("ticks = %d, want 500", cfg.Capture.TicksPerSecond)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing dataset name")
	}

	cfg.Dataset.Name = "demo"
	cfg.Dataset.Root = "/tmp"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}

	cfg.Capture.Backend = "websocket"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for websocket backend without stream_url")
	}

	cfg.Capture.Backend = "pulseaudio"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}
}
