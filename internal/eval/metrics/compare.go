package metrics

import (
	"strings"
	"unicode"

	"github.com/floralens/floralens/internal/models"
)

// FieldMatch represents the comparison result for a single name field
type FieldMatch struct {
	Expected string  `yaml:"expected"`
	Actual   string  `yaml:"actual"`
	Score    float64 `yaml:"score"`  // 0.0 to 1.0
	Method   string  `yaml:"method"` // "exact", "partial", "fuzzy", "missing"
}

// EvaluationResult captures one dataset item's outcome
type EvaluationResult struct {
	ID                 string
	ExpectedCommon     string
	ExpectedScientific string
	Record             *models.PlantRecord
	CommonMatch        FieldMatch
	ScientificMatch    FieldMatch
	OverallScore       float64
	Matched            bool
	Error              string
}

// MatchThreshold is the scientific-name score at or above which an item
// counts as correctly identified.
const MatchThreshold = 0.85

// ScoreResult compares an identification record against the reference names
func ScoreResult(id, expectedCommon, expectedScientific string, record *models.PlantRecord) EvaluationResult {
	result := EvaluationResult{
		ID:                 id,
		ExpectedCommon:     expectedCommon,
		ExpectedScientific: expectedScientific,
		Record:             record,
	}

	if record == nil {
		result.CommonMatch = FieldMatch{Expected: expectedCommon, Method: "missing"}
		result.ScientificMatch = FieldMatch{Expected: expectedScientific, Method: "missing"}
		return result
	}

	result.CommonMatch = CompareNames(expectedCommon, record.Name)
	result.ScientificMatch = CompareNames(expectedScientific, record.ScientificName)

	// Scientific name dominates: it is the unambiguous label
	result.OverallScore = 0.7*result.ScientificMatch.Score + 0.3*result.CommonMatch.Score
	result.Matched = result.ScientificMatch.Score >= MatchThreshold
	return result
}

// CompareNames scores an identified name against the reference name
func CompareNames(expected, actual string) FieldMatch {
	match := FieldMatch{Expected: expected, Actual: actual}

	normExpected := normalizeName(expected)
	normActual := normalizeName(actual)

	switch {
	case normExpected == "":
		// Nothing to compare against; treat as neutral full credit
		match.Score = 1.0
		match.Method = "exact"
	case normActual == "":
		match.Score = 0.0
		match.Method = "missing"
	case normExpected == normActual:
		match.Score = 1.0
		match.Method = "exact"
	case strings.Contains(normActual, normExpected) || strings.Contains(normExpected, normActual):
		match.Score = 0.9
		match.Method = "partial"
	default:
		match.Score = similarity(normExpected, normActual)
		match.Method = "fuzzy"
	}
	return match
}

// normalizeName lowercases, strips punctuation, and collapses whitespace so
// "Rosa rugosa Thunb." and "rosa rugosa" compare equal.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// similarity converts Levenshtein distance to a 0..1 score
func similarity(a, b string) float64 {
	distance := levenshtein(a, b)
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1.0
	}
	score := 1.0 - float64(distance)/float64(longest)
	if score < 0 {
		return 0
	}
	return score
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
