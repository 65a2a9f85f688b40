package services

import (
	"fmt"

	"github.com/zatekoja/symptomatch/backend/internal/lexicon"
	"github.com/zatekoja/symptomatch/backend/pkg/config"
)

// NewMatcherFromConfig loads the lexicon named by cfg (the embedded one when
// LexiconPath is empty) and builds a matcher tuned by cfg.
func NewMatcherFromConfig(cfg config.MatcherConfig) (*lexicon.Lexicon, *SpecialistMatcher, error) {
	var (
		lex *lexicon.Lexicon
		err error
	)
	if cfg.LexiconPath != "" {
		lex, err = lexicon.LoadFile(cfg.LexiconPath)
	} else {
		lex, err = lexicon.Default()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load lexicon: %w", err)
	}

	matcher, err := NewSpecialistMatcher(lex, MatcherConfig{
		MinInputLength:  cfg.MinInputLength,
		MaxInputLength:  cfg.MaxInputLength,
		Threshold:       cfg.Threshold,
		ExactMatchScore: cfg.ExactMatchScore,
	})
	if err != nil {
		return nil, nil, err
	}
	return lex, matcher, nil
}
