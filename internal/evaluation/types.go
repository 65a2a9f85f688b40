package evaluation

import (
	"time"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
)

// Difficulty grades how hard a golden case is for the matcher.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"   // a keyword appears verbatim
	DifficultyMedium Difficulty = "medium" // misspelt, relies on fuzzy scoring
	DifficultyHard   Difficulty = "hard"   // tie-breaks, overlapping vocabularies
)

// IsValid checks if the difficulty value is one of the defined constants.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// GoldenCase is a labelled symptom description with its expected outcome.
type GoldenCase struct {
	ID                 string             `json:"id"`
	Text               string             `json:"text"`
	ExpectedKind       entities.MatchKind `json:"expected_kind"`
	ExpectedSpecialist string             `json:"expected_specialist,omitempty"` // matched cases only
	Difficulty         Difficulty         `json:"difficulty"`
}

// Label is the class a case is scored under: the specialist for matched
// cases, otherwise the kind.
func (c GoldenCase) Label() string {
	return label(c.ExpectedKind, c.ExpectedSpecialist)
}

func label(kind entities.MatchKind, specialist string) string {
	if kind == entities.MatchKindMatched {
		return specialist
	}
	return string(kind)
}

// CaseResult holds the evaluation outcome for a single case.
type CaseResult struct {
	CaseID        string             `json:"case_id"`
	Text          string             `json:"text"`
	Difficulty    Difficulty         `json:"difficulty"`
	ExpectedLabel string             `json:"expected"`
	GotLabel      string             `json:"got"`
	GotKind       entities.MatchKind `json:"got_kind"`
	Confidence    float64            `json:"confidence"`
	Correct       bool               `json:"correct"`
	Latency       time.Duration      `json:"latency_ns"`
}

// EvalSummary holds aggregate metrics across all golden cases.
type EvalSummary struct {
	Total           int                          `json:"total"`
	Correct         int                          `json:"correct"`
	Accuracy        float64                      `json:"accuracy"`
	EmergencyRecall float64                      `json:"emergency_recall"`
	AvgLatency      time.Duration                `json:"avg_latency_ns"`
	ByDifficulty    map[Difficulty]*GroupSummary `json:"by_difficulty"`
	ByLabel         map[string]*LabelMetrics     `json:"by_label"`
	Failures        []CaseResult                 `json:"failures"`
}

// GroupSummary holds accuracy for a subset of cases.
type GroupSummary struct {
	Count    int     `json:"count"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// LabelMetrics holds one-vs-rest precision and recall for a label.
type LabelMetrics struct {
	Support       int     `json:"support"`   // cases expecting this label
	Predicted     int     `json:"predicted"` // cases classified as this label
	TruePositives int     `json:"true_positives"`
	Precision     float64 `json:"precision"`
	Recall        float64 `json:"recall"`
	F1            float64 `json:"f1"`
}
