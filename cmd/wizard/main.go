package main

import (
	"os"

	"github.com/rioharper/VoiceDatasetCreation/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
