package evalcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/floralens/floralens/internal/eval/results"
	"github.com/spf13/cobra"
)

// NewReportCmd creates the eval report command
func NewReportCmd() *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a summary of a saved evaluation report",
		Example: `  # Summarize the most recent report under evals/
  floralens eval report

  # Summarize a specific report
  floralens eval report --file evals/eval_gemini_2026-08-30_10-00-00.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeReport(reportPath)
		},
	}

	cmd.Flags().StringVarP(&reportPath, "file", "f", "", "Report file (defaults to the newest in evals/)")

	return cmd
}

func executeReport(reportPath string) error {
	if reportPath == "" {
		latest, err := latestReport("evals")
		if err != nil {
			return err
		}
		reportPath = latest
	}

	spec, err := results.LoadFromYAML(reportPath)
	if err != nil {
		return err
	}

	fmt.Printf("Report:   %s\n", reportPath)
	fmt.Printf("Provider: %s\n", spec.Config.Provider)
	fmt.Printf("Model:    %s\n", spec.Config.Model)
	fmt.Printf("Dataset:  %s (%d samples)\n", spec.Config.DatasetPath, spec.Config.SampleSize)
	fmt.Println()
	printSummary(spec.Summary)

	// Show the misses; those are what need attention
	var misses int
	for _, r := range spec.Results {
		if r.Matched || r.Error != "" {
			continue
		}
		if misses == 0 {
			fmt.Println("\nMisidentified:")
		}
		misses++
		fmt.Printf("  [%s] expected %q, got %q (score %.2f)\n", r.Identifier, r.ExpectedScientific, r.IdentifiedSci, r.ScientificScore)
	}

	return nil
}

func latestReport(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read reports directory: %w", err)
	}

	var reports []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".yaml" {
			reports = append(reports, filepath.Join(dir, entry.Name()))
		}
	}
	if len(reports) == 0 {
		return "", fmt.Errorf("no reports found in %s", dir)
	}

	sort.Strings(reports)
	return reports[len(reports)-1], nil
}
