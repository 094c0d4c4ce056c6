package metrics

import (
	"testing"

	"github.com/floralens/floralens/internal/models"
)

func TestCompareNames(t *testing.T) {
	tests := []struct {
		name       string
		expected   string
		actual     string
		minScore   float64
		maxScore   float64
		wantMethod string
	}{
		{
			name:       "exact match",
			expected:   "Rosa rugosa",
			actual:     "Rosa rugosa",
			minScore:   1.0,
			maxScore:   1.0,
			wantMethod: "exact",
		},
		{
			name:       "case and punctuation insensitive",
			expected:   "Rosa rugosa Thunb.",
			actual:     "rosa rugosa thunb",
			minScore:   1.0,
			maxScore:   1.0,
			wantMethod: "exact",
		},
		{
			name:       "partial containment",
			expected:   "Rosa rugosa",
			actual:     "Rosa rugosa var. alba",
			minScore:   0.9,
			maxScore:   0.9,
			wantMethod: "partial",
		},
		{
			name:       "fuzzy near miss",
			expected:   "Rosa rugosa",
			actual:     "Rosa rugose",
			minScore:   0.8,
			maxScore:   0.99,
			wantMethod: "fuzzy",
		},
		{
			name:       "different species",
			expected:   "Rosa rugosa",
			actual:     "Quercus robur",
			minScore:   0.0,
			maxScore:   0.5,
			wantMethod: "fuzzy",
		},
		{
			name:       "missing actual",
			expected:   "Rosa rugosa",
			actual:     "",
			minScore:   0.0,
			maxScore:   0.0,
			wantMethod: "missing",
		},
		{
			name:       "no reference name",
			expected:   "",
			actual:     "Rosa rugosa",
			minScore:   1.0,
			maxScore:   1.0,
			wantMethod: "exact",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := CompareNames(tt.expected, tt.actual)
			if match.Score < tt.minScore || match.Score > tt.maxScore {
				t.Errorf("Expected score in [%.2f, %.2f], got %.2f", tt.minScore, tt.maxScore, match.Score)
			}
			if match.Method != tt.wantMethod {
				t.Errorf("Expected method %s, got %s", tt.wantMethod, match.Method)
			}
		})
	}
}

func TestScoreResult(t *testing.T) {
	record := &models.PlantRecord{
		Name:           "Rugosa rose",
		ScientificName: "Rosa rugosa",
	}

	result := ScoreResult("item-1", "Rugosa rose", "Rosa rugosa", record)
	if !result.Matched {
		t.Error("Expected an exact scientific match to count as matched")
	}
	if result.OverallScore < 0.99 {
		t.Errorf("Expected overall score near 1.0, got %.2f", result.OverallScore)
	}

	wrong := ScoreResult("item-2", "English oak", "Quercus robur", record)
	if wrong.Matched {
		t.Error("Expected a wrong species not to count as matched")
	}

	absent := ScoreResult("item-3", "English oak", "Quercus robur", nil)
	if absent.Matched || absent.OverallScore != 0 {
		t.Errorf("Expected zero score for absent record, got %+v", absent)
	}
	if absent.ScientificMatch.Method != "missing" {
		t.Errorf("Expected missing method, got %s", absent.ScientificMatch.Method)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"rosa", "", 4},
		{"", "rosa", 4},
		{"rosa", "rosa", 0},
		{"rosa", "rose", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.expected {
			t.Errorf("levenshtein(%q, %q) = %d, expected %d", tt.a, tt.b, got, tt.expected)
		}
	}
}
