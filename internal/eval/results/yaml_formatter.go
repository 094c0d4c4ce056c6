package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/floralens/floralens/internal/eval/metrics"
	"gopkg.in/yaml.v3"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Timestamp   string `yaml:"timestamp"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Identifier         string  `yaml:"identifier"`
	ExpectedCommon     string  `yaml:"expectedcommon,omitempty"`
	ExpectedScientific string  `yaml:"expectedscientific,omitempty"`
	IdentifiedCommon   string  `yaml:"identifiedcommon,omitempty"`
	IdentifiedSci      string  `yaml:"identifiedscientific,omitempty"`
	ScientificScore    float64 `yaml:"scientificscore"`
	CommonScore        float64 `yaml:"commonscore"`
	OverallScore       float64 `yaml:"overallscore"`
	Matched            bool    `yaml:"matched"`
	Error              string  `yaml:"error,omitempty"`
}

// EvalSpec represents the complete evaluation report
type EvalSpec struct {
	Config  EvalConfig      `yaml:"config"`
	Summary metrics.Summary `yaml:"summary"`
	Results []EvalResult    `yaml:"results"`
}

// SaveToYAML saves evaluation results to a YAML file in the evals/ directory
// and returns the written path.
func SaveToYAML(provider, model, datasetPath string, sampleSize int, summary metrics.Summary, results []metrics.EvaluationResult) (string, error) {
	// Create evals directory
	if err := os.MkdirAll("evals", 0755); err != nil {
		return "", fmt.Errorf("failed to create evals directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")

	spec := EvalSpec{
		Config: EvalConfig{
			Provider:    provider,
			Model:       model,
			DatasetPath: datasetPath,
			SampleSize:  sampleSize,
			Timestamp:   timestamp,
		},
		Summary: summary,
		Results: make([]EvalResult, 0, len(results)),
	}

	for _, r := range results {
		evalResult := EvalResult{
			Identifier:         r.ID,
			ExpectedCommon:     r.ExpectedCommon,
			ExpectedScientific: r.ExpectedScientific,
			ScientificScore:    r.ScientificMatch.Score,
			CommonScore:        r.CommonMatch.Score,
			OverallScore:       r.OverallScore,
			Matched:            r.Matched,
			Error:              r.Error,
		}
		if r.Record != nil {
			evalResult.IdentifiedCommon = r.Record.Name
			evalResult.IdentifiedSci = r.Record.ScientificName
		}
		spec.Results = append(spec.Results, evalResult)
	}

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal eval results: %w", err)
	}

	path := filepath.Join("evals", fmt.Sprintf("eval_%s_%s.yaml", provider, timestamp))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write eval results: %w", err)
	}
	return path, nil
}

// LoadFromYAML reads a saved evaluation report
func LoadFromYAML(path string) (*EvalSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read eval report: %w", err)
	}

	var spec EvalSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse eval report %s: %w", path, err)
	}
	return &spec, nil
}
