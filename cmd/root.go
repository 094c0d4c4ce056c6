package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "floralens",
		Short: "Plant identification tool powered by vision LLMs",
		Long: `FloraLens identifies plants from photographs using vision-capable LLMs.

It serves a single-page web interface for uploading or camera-capturing a
photo, and ships a CLI for one-shot identification and accuracy evaluation.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newIdentifyCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}
