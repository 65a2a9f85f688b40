package entities

import (
	"encoding/json"
	"math"
)

// EmergencyLabel is the specialist label reported for emergency results.
const EmergencyLabel = "Emergency"

// SpecialistCategory is one medical specialty in the symptom lexicon.
type SpecialistCategory struct {
	Name     string   `json:"name" yaml:"name"`
	Icon     string   `json:"icon" yaml:"icon"`
	Keywords []string `json:"keywords" yaml:"keywords"` // lowercase, deduplicated
}

// MatchKind tags which variant a MatchResult holds.
type MatchKind string

const (
	MatchKindMatched   MatchKind = "matched"
	MatchKindEmergency MatchKind = "emergency"
	MatchKindUnmatched MatchKind = "unmatched"
)

// IsValid checks if the kind is one of the defined constants.
func (k MatchKind) IsValid() bool {
	switch k {
	case MatchKindMatched, MatchKindEmergency, MatchKindUnmatched:
		return true
	}
	return false
}

// UnmatchedReason explains why no specialist was suggested.
type UnmatchedReason string

const (
	ReasonInputTooShort UnmatchedReason = "input_too_short"
	ReasonNoClearMatch  UnmatchedReason = "no_clear_match"
)

// MatchResult is the outcome of classifying a symptom description.
// Exactly one of the three shapes is populated, selected by Kind:
//   - matched: Specialist, Confidence in (threshold, 1], Icon
//   - emergency: Specialist is EmergencyLabel, Confidence is 1
//   - unmatched: Reason only
type MatchResult struct {
	Kind       MatchKind       `json:"kind"`
	Specialist string          `json:"specialist,omitempty"`
	Confidence float64         `json:"confidence"`
	Icon       string          `json:"icon,omitempty"`
	Reason     UnmatchedReason `json:"reason,omitempty"`
}

// NewMatchedResult builds a matched result for a lexicon category.
func NewMatchedResult(specialist, icon string, confidence float64) MatchResult {
	return MatchResult{
		Kind:       MatchKindMatched,
		Specialist: specialist,
		Confidence: clampConfidence(confidence),
		Icon:       icon,
	}
}

// NewEmergencyResult builds the emergency result.
func NewEmergencyResult() MatchResult {
	return MatchResult{
		Kind:       MatchKindEmergency,
		Specialist: EmergencyLabel,
		Confidence: 1.0,
	}
}

// NewUnmatchedResult builds an unmatched result. It never carries a specialist.
func NewUnmatchedResult(reason UnmatchedReason) MatchResult {
	return MatchResult{
		Kind:   MatchKindUnmatched,
		Reason: reason,
	}
}

// IsMatched reports whether a specialist was suggested.
func (r MatchResult) IsMatched() bool { return r.Kind == MatchKindMatched }

// IsEmergency reports whether the input triggered emergency triage.
func (r MatchResult) IsEmergency() bool { return r.Kind == MatchKindEmergency }

// ConfidencePercent returns the confidence as a rounded percentage for display.
func (r MatchResult) ConfidencePercent() int {
	return int(math.Round(r.Confidence * 100))
}

// MarshalJSON adds confidence_percent to the encoded result.
func (r MatchResult) MarshalJSON() ([]byte, error) {
	type plain MatchResult
	return json.Marshal(struct {
		plain
		ConfidencePercent int `json:"confidence_percent"`
	}{plain(r), r.ConfidencePercent()})
}

func clampConfidence(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
