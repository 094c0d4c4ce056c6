package metrics

// Summary aggregates the outcome of an evaluation run
type Summary struct {
	Total          int     `yaml:"total"`
	Succeeded      int     `yaml:"succeeded"`
	Failed         int     `yaml:"failed"`
	Matched        int     `yaml:"matched"`
	MatchRate      float64 `yaml:"matchrate"`
	MeanScore      float64 `yaml:"meanscore"`
	MeanScientific float64 `yaml:"meanscientific"`
	MeanCommon     float64 `yaml:"meancommon"`
}

// Aggregate computes summary statistics over all evaluation results. Failed
// items count toward the total but not toward the score means.
func Aggregate(results []EvaluationResult) Summary {
	summary := Summary{Total: len(results)}

	var sumOverall, sumScientific, sumCommon float64
	for _, r := range results {
		if r.Error != "" {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		if r.Matched {
			summary.Matched++
		}
		sumOverall += r.OverallScore
		sumScientific += r.ScientificMatch.Score
		sumCommon += r.CommonMatch.Score
	}

	if summary.Succeeded > 0 {
		n := float64(summary.Succeeded)
		summary.MeanScore = sumOverall / n
		summary.MeanScientific = sumScientific / n
		summary.MeanCommon = sumCommon / n
	}
	if summary.Total > 0 {
		summary.MatchRate = float64(summary.Matched) / float64(summary.Total)
	}
	return summary
}
