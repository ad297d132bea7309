package cli

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Trim leading and trailing silence from every recording",
	Long: `Trim runs the two-phase silence trimmer over every ledger entry: all
trimmed buffers are computed in memory first, then written back over the
source files. Interrupting during the compute phase leaves every file
untouched.`,
	RunE: runTrim,
}

func init() {
	rootCmd.AddCommand(trimCmd)
}

func runTrim(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newWizard()
	if err != nil {
		return err
	}
	defer w.Publisher.Close()

	if w.Ledger.Len() == 0 {
		log.Printf("Ledger is empty, nothing to trim")
		return nil
	}

	progress := func(phase, recordingID string, index, total int) {
		switch phase {
		case "compute":
			log.Printf("Computing trimmed audio (%d/%d): %s", index+1, total, recordingID)
		case "write":
			log.Printf("Saving (%d/%d): %s", index+1, total, recordingID)
		}
	}

	if err := w.TrimSilence(ctx, progress); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("Trim canceled; recordings not yet written were left untouched")
			return nil
		}
		return err
	}
	log.Printf("Trimmed %d recordings", w.Ledger.Len())
	return nil
}
