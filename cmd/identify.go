package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/floralens/floralens/internal/identify"
	"github.com/floralens/floralens/internal/imaging"
	"github.com/floralens/floralens/internal/models"
	"github.com/spf13/cobra"
)

func newIdentifyCmd() *cobra.Command {
	var provider string
	var model string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "identify <image>",
		Short: "Identify the plant in a local image file",
		Args:  cobra.ExactArgs(1),
		Example: `  # Identify with the default provider
  floralens identify rose.jpg

  # Identify with a specific provider and model
  floralens identify rose.jpg --provider ollama --model llava:13b`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			artifact, err := imaging.NewArtifact(data, args[0], models.SourcePicker)
			if err != nil {
				return err
			}

			service := identify.NewService(
				identify.WithProvider(provider),
				identify.WithModel(model),
				identify.WithTimeout(timeout),
			)

			record, err := service.Identify(cmd.Context(), artifact)
			if err != nil {
				return err
			}

			fmt.Printf("Name:            %s\n", record.Name)
			fmt.Printf("Scientific name: %s\n", record.ScientificName)
			fmt.Printf("Family:          %s\n", record.Family)
			fmt.Printf("Origin:          %s\n", record.Origin)
			fmt.Printf("Characteristics: %s\n", record.Characteristics)
			fmt.Printf("Uses:            %s\n", record.Uses)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (gemini, ollama, openai)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults per provider)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Bound on the identification call (default 60s)")

	return cmd
}
