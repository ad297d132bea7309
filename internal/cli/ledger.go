package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and edit the transcript ledger",
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all ledger entries in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := newWizard()
		if err != nil {
			return err
		}
		defer w.Publisher.Close()

		for i, e := range w.Ledger.Entries() {
			fmt.Printf("%4d  %s|%s\n", i, e.RecordingID, e.Transcription)
		}
		return nil
	},
}

var ledgerRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove the ledger entry at index (the WAV file is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("index must be an integer: %w", err)
		}

		w, err := newWizard()
		if err != nil {
			return err
		}
		defer w.Publisher.Close()

		if err := w.RemoveEntry(index); err != nil {
			return err
		}
		fmt.Printf("Removed entry %d (%d entries remain)\n", index, w.Ledger.Len())
		return nil
	},
}

func init() {
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerRemoveCmd)
	rootCmd.AddCommand(ledgerCmd)
}
