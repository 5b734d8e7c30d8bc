package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// This is the main entry point for the API server and the transcription
// client. Both share the same configuration file.
func main() {
	rootCmd := &cobra.Command{
		Use:     "omniscribe",
		Short:   "Multilingual speech transcription with word-level alignment",
		Version: version,
	}
	rootCmd.PersistentFlags().String("config-dir", ".", "directory holding config_<env>.yaml")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTranscribeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
