package services

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
	"github.com/zatekoja/symptomatch/backend/internal/lexicon"
	apperrors "github.com/zatekoja/symptomatch/backend/pkg/errors"
	"github.com/zatekoja/symptomatch/backend/pkg/similarity"
)

// MatcherConfig holds the tunable constants of the specialist matcher.
type MatcherConfig struct {
	MinInputLength  int     // trimmed inputs with fewer runes are too short
	MaxInputLength  int     // longer inputs are truncated to this many runes
	Threshold       float64 // a category must score strictly above this
	ExactMatchScore float64 // score pinned for a keyword substring hit
}

// DefaultMatcherConfig returns the production matcher constants. Threshold and
// ExactMatchScore are empirical values, not derived from labelled data.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		MinInputLength:  3,
		MaxInputLength:  500,
		Threshold:       0.3,
		ExactMatchScore: 0.9,
	}
}

// Validate checks the config is usable.
func (c MatcherConfig) Validate() error {
	if c.MinInputLength < 1 {
		return apperrors.NewValidationErrorf("min input length must be at least 1, got %d", c.MinInputLength)
	}
	if c.MaxInputLength < c.MinInputLength {
		return apperrors.NewValidationErrorf("max input length %d is below min input length %d", c.MaxInputLength, c.MinInputLength)
	}
	if !isFinite(c.Threshold) || !isFinite(c.ExactMatchScore) {
		return apperrors.NewValidationErrorf("threshold and exact match score must be finite, got %v and %v", c.Threshold, c.ExactMatchScore)
	}
	if c.Threshold < 0 || c.Threshold >= 1 {
		return apperrors.NewValidationErrorf("threshold must be in [0,1), got %v", c.Threshold)
	}
	if c.ExactMatchScore <= c.Threshold || c.ExactMatchScore > 1 {
		return apperrors.NewValidationErrorf("exact match score must be in (threshold,1], got %v", c.ExactMatchScore)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// CategoryScore is how one lexicon category scored against an input.
type CategoryScore struct {
	Specialist   string  `json:"specialist"`
	FuzzyRating  float64 `json:"fuzzy_rating"`
	BestKeyword  string  `json:"best_keyword,omitempty"`
	ExactKeyword string  `json:"exact_keyword,omitempty"`
	Score        float64 `json:"score"`
}

// Explanation is a classification together with the per-category scores
// that produced it.
type Explanation struct {
	Result        entities.MatchResult `json:"result"`
	EmergencyTerm string               `json:"emergency_term,omitempty"`
	Scores        []CategoryScore      `json:"scores,omitempty"`
}

// SpecialistMatcher suggests a specialist for a free-text symptom
// description. It holds only read-only state and is safe for concurrent use.
type SpecialistMatcher struct {
	lexicon *lexicon.Lexicon
	config  MatcherConfig
}

// NewSpecialistMatcher creates a matcher over lex. An empty lexicon or an
// invalid config is a startup error.
func NewSpecialistMatcher(lex *lexicon.Lexicon, config MatcherConfig) (*SpecialistMatcher, error) {
	if lex == nil || lex.Len() == 0 {
		return nil, apperrors.NewValidationError("specialist matcher requires a non-empty lexicon")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SpecialistMatcher{lexicon: lex, config: config}, nil
}

// Config returns the matcher constants.
func (m *SpecialistMatcher) Config() MatcherConfig {
	return m.config
}

// Classify maps input to a MatchResult. It is deterministic, performs no I/O
// and returns a result for every string.
func (m *SpecialistMatcher) Classify(input string) entities.MatchResult {
	return m.evaluate(input, nil).Result
}

// Explain classifies input and also reports every category's score.
func (m *SpecialistMatcher) Explain(input string) Explanation {
	scores := make([]CategoryScore, 0, m.lexicon.Len())
	return m.evaluate(input, &scores)
}

func (m *SpecialistMatcher) evaluate(input string, scores *[]CategoryScore) Explanation {
	trimmed := strings.TrimSpace(input)
	if utf8.RuneCountInString(trimmed) < m.config.MinInputLength {
		return Explanation{Result: entities.NewUnmatchedResult(entities.ReasonInputTooShort)}
	}

	normalized := lexicon.Normalize(truncateRunes(trimmed, m.config.MaxInputLength))

	if term, ok := m.lexicon.MatchEmergency(normalized); ok {
		return Explanation{Result: entities.NewEmergencyResult(), EmergencyTerm: term}
	}

	var (
		best      entities.SpecialistCategory
		bestScore float64
		found     bool
	)
	for category := range m.lexicon.All() {
		cs := m.scoreCategory(normalized, category)
		if scores != nil {
			*scores = append(*scores, cs)
		}
		// Strictly greater: the first category in lexicon order wins ties.
		if cs.Score > bestScore {
			best, bestScore, found = category, cs.Score, true
		}
	}

	explanation := Explanation{Result: entities.NewUnmatchedResult(entities.ReasonNoClearMatch)}
	if scores != nil {
		explanation.Scores = *scores
	}
	if found && bestScore > m.config.Threshold {
		explanation.Result = entities.NewMatchedResult(best.Name, best.Icon, bestScore)
	}
	return explanation
}

func (m *SpecialistMatcher) scoreCategory(normalized string, category entities.SpecialistCategory) CategoryScore {
	match := similarity.FindBestMatch(normalized, category.Keywords)

	cs := CategoryScore{
		Specialist:  category.Name,
		FuzzyRating: match.BestMatch.Rating,
		BestKeyword: match.BestMatch.Target,
		Score:       match.BestMatch.Rating,
	}
	for _, kw := range category.Keywords {
		if strings.Contains(normalized, kw) {
			cs.ExactKeyword = kw
			cs.Score = m.config.ExactMatchScore
			break
		}
	}
	return cs
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
