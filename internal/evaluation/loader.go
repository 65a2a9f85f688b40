package evaluation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
)

//go:embed golden_cases.json
var defaultGoldenCases []byte

// DefaultGoldenCases returns the golden set shipped with the binary.
func DefaultGoldenCases() ([]GoldenCase, error) {
	return ParseGoldenCases(defaultGoldenCases)
}

// LoadGoldenCases reads and parses a golden case set from a JSON file.
func LoadGoldenCases(path string) ([]GoldenCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden cases file: %w", err)
	}
	return ParseGoldenCases(data)
}

// ParseGoldenCases decodes a JSON array of golden cases.
func ParseGoldenCases(data []byte) ([]GoldenCase, error) {
	var cases []GoldenCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to parse golden cases: %w", err)
	}
	return cases, nil
}

// ValidateGoldenCases checks that all golden cases have required fields and valid values.
func ValidateGoldenCases(cases []GoldenCase) error {
	seen := make(map[string]struct{}, len(cases))

	for i, c := range cases {
		if c.ID == "" {
			return fmt.Errorf("case at index %d: missing id", i)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("case at index %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = struct{}{}

		if c.Text == "" {
			return fmt.Errorf("case %q: missing text", c.ID)
		}
		if !c.ExpectedKind.IsValid() {
			return fmt.Errorf("case %q: invalid expected_kind %q", c.ID, c.ExpectedKind)
		}
		if c.ExpectedKind == entities.MatchKindMatched && c.ExpectedSpecialist == "" {
			return fmt.Errorf("case %q: matched case needs expected_specialist", c.ID)
		}
		if c.ExpectedKind != entities.MatchKindMatched && c.ExpectedSpecialist != "" {
			return fmt.Errorf("case %q: expected_specialist is only allowed for matched cases", c.ID)
		}
		if !c.Difficulty.IsValid() {
			return fmt.Errorf("case %q: invalid difficulty %q (must be easy/medium/hard)", c.ID, c.Difficulty)
		}
	}

	return nil
}
