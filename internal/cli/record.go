package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rioharper/VoiceDatasetCreation/internal/session"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Interactively record prompted sentences",
	Long: `Record prompts you with a sentence drawn from the configured generator
sources, captures audio from the configured backend while you read it
aloud, and appends the finished recording to the dataset ledger.`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newWizard()
	if err != nil {
		return err
	}
	defer w.Publisher.Close()

	if len(cfg.Generator.Sources) == 0 {
		return fmt.Errorf("no generator sources configured (generator.sources)")
	}
	for _, src := range cfg.Generator.Sources {
		if err := w.AddSource(src); err != nil {
			return err
		}
	}

	stdin := bufio.NewScanner(os.Stdin)
	for {
		if ctx.Err() != nil {
			return nil
		}

		sentence, err := w.GenerateSentence()
		if err != nil {
			return err
		}
		fmt.Printf("\nRead aloud:\n\n    %s\n\n", sentence)
		fmt.Print("[Enter] record  [s] skip  [q] quit > ")

		line, ok := readLine(stdin)
		if !ok {
			return nil
		}
		switch strings.TrimSpace(line) {
		case "q":
			return nil
		case "s":
			continue
		}

		backend, err := captureBackend()
		if err != nil {
			return err
		}
		if err := w.StartRecording(backend); err != nil {
			log.Printf("Failed to start recording: %v", err)
			continue
		}
		fmt.Print("Recording... press Enter to stop > ")

		pumpCtx, stopPump := context.WithCancel(ctx)
		g, gctx := errgroup.WithContext(pumpCtx)
		g.Go(func() error {
			err := session.NewPump(w.Session, cfg.Capture.TicksPerSecond).Run(gctx)
			if err != nil {
				fmt.Println("\nCapture device failed; press Enter to continue")
			}
			return err
		})
		g.Go(func() error {
			readLine(stdin)
			stopPump()
			return nil
		})
		err = g.Wait()
		stopPump()
		if err != nil {
			log.Printf("Recording aborted: %v", err)
			continue
		}

		utt, err := w.StopRecording()
		if err != nil {
			log.Printf("Failed to save recording: %v", err)
			continue
		}
		fmt.Printf("Saved %s (%d entries)\n", utt.RecordingID, w.Ledger.Len())
		if m := w.Session.Metrics(); m != nil {
			log.Printf("Recording metrics:\n%s", m.Summary())
		}
	}
}

// readLine blocks for one line of operator input. ok is false when stdin
// is closed.
func readLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return scanner.Text(), true
}
