package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rioharper/VoiceDatasetCreation/internal/audio"
	"github.com/rioharper/VoiceDatasetCreation/internal/config"
	"github.com/rioharper/VoiceDatasetCreation/internal/events"
	"github.com/rioharper/VoiceDatasetCreation/internal/wizard"
	"github.com/rioharper/VoiceDatasetCreation/internal/workspace"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Record and curate labeled speech datasets",
	Long: `The speech dataset wizard prompts you with generated sentences, records
your voice into correctly framed WAV files, and keeps the recording-id to
transcription ledger (metadata.csv) in sync. A batch command trims
leading and trailing silence from every recording.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env first so it can supply the WIZARD_* overrides.
		_ = godotenv.Load()
		var err error
		cfg, err = config.Load(cfgFile)
		return err
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "configuration file path")
}

// newWizard validates the config and builds the dataset context shared by
// all commands.
func newWizard() (*wizard.Wizard, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ws := workspace.New(cfg.Dataset.Root, cfg.Dataset.Name, workspace.IDStyle(cfg.Dataset.IDStyle))

	var pub events.Publisher = events.Nop{}
	if cfg.Events.RedisAddr != "" {
		redisPub, err := events.NewRedisPublisher(cfg.Events.RedisAddr, cfg.Events.Channel)
		if err != nil {
			return nil, err
		}
		pub = redisPub
	}

	w, err := wizard.New(ws, audio.DefaultDeviceConfig(), pub)
	if err != nil {
		return nil, err
	}
	w.TrimThresholdDBFS = cfg.Trim.ThresholdDBFS
	w.TrimChunkMS = cfg.Trim.ChunkMS
	return w, nil
}

// captureBackend builds the configured capture device backend.
func captureBackend() (audio.Backend, error) {
	switch cfg.Capture.Backend {
	case "audiosocket":
		return &audio.SocketBackend{ListenAddr: cfg.Capture.ListenAddr}, nil
	case "websocket":
		return &audio.WebSocketBackend{URL: cfg.Capture.StreamURL}, nil
	default:
		return nil, fmt.Errorf("unknown capture backend %q", cfg.Capture.Backend)
	}
}
