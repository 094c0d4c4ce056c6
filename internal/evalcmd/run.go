package evalcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/floralens/floralens/internal/eval/dataset"
	"github.com/floralens/floralens/internal/eval/metrics"
	"github.com/floralens/floralens/internal/eval/results"
	"github.com/floralens/floralens/internal/identify"
	"github.com/floralens/floralens/internal/imaging"
	"github.com/floralens/floralens/internal/models"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the eval run command
func NewRunCmd() *cobra.Command {
	var datasetPath string
	var provider string
	var model string
	var sampleSize int
	var concurrency int
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run identification over a labeled dataset and score accuracy",
		Example: `  # Evaluate Gemini on 50 samples
  floralens eval run --dataset plants.jsonl --provider gemini --sample 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(cmd.Context(), datasetPath, provider, model, sampleSize, concurrency, timeout)
		},
	}

	cmd.Flags().StringVarP(&datasetPath, "dataset", "d", "", "Path to labeled dataset (.parquet or .jsonl)")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (gemini, ollama, openai)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults per provider)")
	cmd.Flags().IntVarP(&sampleSize, "sample", "s", 0, "Evaluate at most this many records (0 = all)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Concurrent identification calls")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Bound on each identification call (default 60s)")
	if err := cmd.MarkFlagRequired("dataset"); err != nil {
		slog.Error("Failed to mark flag required", "err", err)
	}

	return cmd
}

func executeRun(ctx context.Context, datasetPath, provider, model string, sampleSize, concurrency int, timeout time.Duration) error {
	slog.Info("Starting evaluation run", "dataset", datasetPath, "provider", provider, "model", model)

	// Load dataset
	records, err := dataset.NewLoader(datasetPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	// Unlabeled rows cannot be scored
	labeled := records[:0]
	for _, record := range records {
		if record.HasLabel() {
			labeled = append(labeled, record)
		}
	}
	records = labeled

	if sampleSize > 0 && sampleSize < len(records) {
		records = records[:sampleSize]
	}
	slog.Info("Dataset loaded", "items", len(records))

	service := identify.NewService(
		identify.WithProvider(provider),
		identify.WithModel(model),
		identify.WithTimeout(timeout),
	)

	// Process items with concurrency control
	slog.Info("Processing items", "concurrency", concurrency, "provider", service.Provider(), "model", service.Model())

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	resultsChan := make(chan metrics.EvaluationResult, len(records))

	for i, record := range records {
		wg.Add(1)
		go func(idx int, record dataset.LabeledPlantRecord) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Info("Processing item", "id", record.ID, "progress", fmt.Sprintf("%d/%d", idx+1, len(records)))
			resultsChan <- processItem(ctx, service, record)
		}(i, record)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	var evalResults []metrics.EvaluationResult
	for result := range resultsChan {
		evalResults = append(evalResults, result)
	}
	sort.Slice(evalResults, func(i, j int) bool { return evalResults[i].ID < evalResults[j].ID })

	summary := metrics.Aggregate(evalResults)

	path, err := results.SaveToYAML(service.Provider(), service.Model(), datasetPath, len(records), summary, evalResults)
	if err != nil {
		return err
	}
	slog.Info("Results saved", "path", path)

	printSummary(summary)
	return nil
}

func processItem(ctx context.Context, service *identify.Service, record dataset.LabeledPlantRecord) metrics.EvaluationResult {
	data, err := os.ReadFile(record.ImagePath)
	if err != nil {
		return failedResult(record, fmt.Errorf("failed to read image: %w", err))
	}

	artifact, err := imaging.NewArtifact(data, record.ImagePath, models.SourcePicker)
	if err != nil {
		return failedResult(record, err)
	}

	identified, err := service.Identify(ctx, artifact)
	if err != nil {
		return failedResult(record, err)
	}

	return metrics.ScoreResult(record.ID, record.CommonName, record.ScientificName, identified)
}

func failedResult(record dataset.LabeledPlantRecord, err error) metrics.EvaluationResult {
	return metrics.EvaluationResult{
		ID:                 record.ID,
		ExpectedCommon:     record.CommonName,
		ExpectedScientific: record.ScientificName,
		Error:              err.Error(),
	}
}

func printSummary(summary metrics.Summary) {
	fmt.Println("========================================")
	fmt.Println("Plant Identification Evaluation Summary")
	fmt.Println("========================================")
	fmt.Printf("Total items:       %d\n", summary.Total)
	fmt.Printf("Succeeded:         %d\n", summary.Succeeded)
	fmt.Printf("Failed:            %d\n", summary.Failed)
	fmt.Printf("Matched:           %d (%.1f%%)\n", summary.Matched, summary.MatchRate*100)
	fmt.Printf("Mean score:        %.3f\n", summary.MeanScore)
	fmt.Printf("Scientific names:  %.3f\n", summary.MeanScientific)
	fmt.Printf("Common names:      %.3f\n", summary.MeanCommon)
}
