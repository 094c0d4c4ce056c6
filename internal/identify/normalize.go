package identify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/floralens/floralens/internal/models"
)

// DefaultStripPatterns returns the noise prefixes/suffixes stripped from
// provider replies before parsing. The service is not contractually
// guaranteed to return bare JSON; this list covers the wrappers seen in
// practice and can be extended through configuration.
func DefaultStripPatterns() []string {
	return []string{"```json", "```JSON", "```"}
}

// Normalizer strips formatting noise from a provider reply and parses it
// into the fixed six-field record.
type Normalizer struct {
	patterns []string
}

func NewNormalizer(patterns ...string) *Normalizer {
	return &Normalizer{patterns: patterns}
}

// Clean strips surrounding code fences and whitespace from a raw reply.
// Patterns are re-applied until nothing changes, so stacked wrappers come
// off regardless of their order in the pattern list.
func (n *Normalizer) Clean(raw string) string {
	cleaned := strings.TrimSpace(raw)
	for {
		before := cleaned
		for _, pattern := range n.patterns {
			cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, pattern))
			cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, pattern))
		}
		if cleaned == before {
			return cleaned
		}
	}
}

// ParseRecord parses a cleaned reply into a PlantRecord. All six fields
// must be present and non-empty; anything less is a malformed response and
// yields no record at all.
func (n *Normalizer) ParseRecord(raw string) (*models.PlantRecord, error) {
	cleaned := n.Clean(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var record models.PlantRecord
	if err := json.Unmarshal([]byte(cleaned), &record); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}

	missing := missingFields(record)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields %s", ErrMalformedResponse, strings.Join(missing, ", "))
	}
	return &record, nil
}

func missingFields(record models.PlantRecord) []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", record.Name},
		{"scientificName", record.ScientificName},
		{"family", record.Family},
		{"origin", record.Origin},
		{"characteristics", record.Characteristics},
		{"uses", record.Uses},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}
