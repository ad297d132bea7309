package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full wizard configuration, loaded from a YAML file with
// environment overrides applied on top.
type Config struct {
	Dataset struct {
		Name    string `yaml:"name"`
		Root    string `yaml:"root"`
		IDStyle string `yaml:"id_style"` // "ljspeech" (default) or "paths"
	} `yaml:"dataset"`
	Capture struct {
		Backend        string `yaml:"backend"` // "audiosocket" or "websocket"
		ListenAddr     string `yaml:"listen_addr"`
		StreamURL      string `yaml:"stream_url"`
		TicksPerSecond int    `yaml:"ticks_per_second"`
	} `yaml:"capture"`
	Trim struct {
		ThresholdDBFS float64 `yaml:"threshold_dbfs"`
		ChunkMS       int     `yaml:"chunk_ms"`
	} `yaml:"trim"`
	Generator struct {
		Sources []string `yaml:"sources"`
	} `yaml:"generator"`
	Events struct {
		RedisAddr string `yaml:"redis_addr"` // empty disables eventing
		Channel   string `yaml:"channel"`
	} `yaml:"events"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.Dataset.IDStyle = "ljspeech"
	cfg.Capture.Backend = "audiosocket"
	cfg.Capture.ListenAddr = "127.0.0.1:9092"
	cfg.Capture.TicksPerSecond = 1000
	cfg.Trim.ThresholdDBFS = -40.0
	cfg.Trim.ChunkMS = 10
	cfg.Events.Channel = "wizard.events"
	return cfg
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config %s: %w", path, err)
		}
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets WIZARD_* variables override file values, so one config
// file can serve several datasets.
func (c *Config) applyEnv() {
	if v := os.Getenv("WIZARD_DATASET_NAME"); v != "" {
		c.Dataset.Name = v
	}
	if v := os.Getenv("WIZARD_DATASET_ROOT"); v != "" {
		c.Dataset.Root = v
	}
	if v := os.Getenv("WIZARD_CAPTURE_BACKEND"); v != "" {
		c.Capture.Backend = v
	}
	if v := os.Getenv("WIZARD_CAPTURE_ADDR"); v != "" {
		c.Capture.ListenAddr = v
	}
	if v := os.Getenv("WIZARD_STREAM_URL"); v != "" {
		c.Capture.StreamURL = v
	}
	if v := os.Getenv("WIZARD_REDIS_ADDR"); v != "" {
		c.Events.RedisAddr = v
	}
	if v := os.Getenv("WIZARD_TICKS_PER_SECOND"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Capture.TicksPerSecond = n
		}
	}
}

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	if c.Dataset.Name == "" {
		return fmt.Errorf("dataset.name is required")
	}
	if c.Dataset.Root == "" {
		return fmt.Errorf("dataset.root is required")
	}
	switch c.Dataset.IDStyle {
	case "", "ljspeech", "paths":
	default:
		return fmt.Errorf("dataset.id_style must be \"ljspeech\" or \"paths\", got %q", c.Dataset.IDStyle)
	}
	switch c.Capture.Backend {
	case "audiosocket", "websocket":
	default:
		return fmt.Errorf("capture.backend must be \"audiosocket\" or \"websocket\", got %q", c.Capture.Backend)
	}
	if c.Capture.Backend == "websocket" && c.Capture.StreamURL == "" {
		return fmt.Errorf("capture.stream_url is required for the websocket backend")
	}
	return nil
}
