package evaluation

import (
	"context"
	"time"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
)

// Classifier maps free text to a specialist suggestion.
type Classifier interface {
	Classify(input string) entities.MatchResult
}

// Runner runs evaluation across a set of golden cases.
type Runner struct {
	classifier Classifier
}

func NewRunner(classifier Classifier) *Runner {
	return &Runner{classifier: classifier}
}

// Run classifies every case. It stops early only if ctx is cancelled.
func (r *Runner) Run(ctx context.Context, cases []GoldenCase) (*EvalSummary, error) {
	summary := &EvalSummary{
		ByDifficulty: make(map[Difficulty]*GroupSummary),
		ByLabel:      make(map[string]*LabelMetrics),
		Failures:     []CaseResult{},
	}

	for _, gc := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		got := r.classifier.Classify(gc.Text)
		duration := time.Since(start)

		result := CaseResult{
			CaseID:        gc.ID,
			Text:          gc.Text,
			Difficulty:    gc.Difficulty,
			ExpectedLabel: gc.Label(),
			GotLabel:      label(got.Kind, got.Specialist),
			GotKind:       got.Kind,
			Confidence:    got.Confidence,
			Latency:       duration,
		}
		result.Correct = result.ExpectedLabel == result.GotLabel

		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) updateSummary(s *EvalSummary, res CaseResult) {
	s.Total++
	s.AvgLatency += res.Latency
	if res.Correct {
		s.Correct++
	} else {
		s.Failures = append(s.Failures, res)
	}

	group := s.ByDifficulty[res.Difficulty]
	if group == nil {
		group = &GroupSummary{}
		s.ByDifficulty[res.Difficulty] = group
	}
	group.Count++
	if res.Correct {
		group.Correct++
	}

	labelMetrics(s, res.ExpectedLabel).Support++
	labelMetrics(s, res.GotLabel).Predicted++
	if res.Correct {
		labelMetrics(s, res.ExpectedLabel).TruePositives++
	}
}

func labelMetrics(s *EvalSummary, name string) *LabelMetrics {
	m := s.ByLabel[name]
	if m == nil {
		m = &LabelMetrics{}
		s.ByLabel[name] = m
	}
	return m
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	s.Accuracy = Ratio(s.Correct, s.Total)
	if s.Total > 0 {
		s.AvgLatency /= time.Duration(s.Total)
	}

	for _, group := range s.ByDifficulty {
		group.Accuracy = Ratio(group.Correct, group.Count)
	}

	for _, m := range s.ByLabel {
		m.Precision = Precision(m.TruePositives, m.Predicted)
		m.Recall = Recall(m.TruePositives, m.Support)
		m.F1 = F1(m.Precision, m.Recall)
	}

	// A set without emergency cases cannot miss one.
	s.EmergencyRecall = 1.0
	if m, ok := s.ByLabel[string(entities.MatchKindEmergency)]; ok && m.Support > 0 {
		s.EmergencyRecall = m.Recall
	}
}
