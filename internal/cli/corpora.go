package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rioharper/VoiceDatasetCreation/internal/corpus"
)

var corporaCmd = &cobra.Command{
	Use:   "corpora",
	Short: "Show the configured generator sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Generator.Sources) == 0 {
			fmt.Println("No generator sources configured")
			return nil
		}
		for _, src := range cfg.Generator.Sources {
			c, err := corpus.Load(src)
			if err != nil {
				fmt.Printf("%s: %v\n", src, err)
				continue
			}
			fmt.Printf("%s: %d sentences\n", c.Origin(), c.Len())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(corporaCmd)
}
