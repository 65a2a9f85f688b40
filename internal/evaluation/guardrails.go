package evaluation

import "fmt"

// GuardrailConfig sets the minimum quality a matcher build must reach.
type GuardrailConfig struct {
	MinAccuracy        float64
	MinEmergencyRecall float64
	MinCases           int
}

// DefaultGuardrailConfig never lets an emergency through unflagged.
func DefaultGuardrailConfig() GuardrailConfig {
	return GuardrailConfig{
		MinAccuracy:        0.9,
		MinEmergencyRecall: 1.0,
		MinCases:           1,
	}
}

type Guardrails struct {
	config GuardrailConfig
}

func NewGuardrails(config GuardrailConfig) *Guardrails {
	if config.MinCases <= 0 {
		config.MinCases = 1
	}
	return &Guardrails{config: config}
}

// Check returns one message per violated guardrail; none means the build passes.
func (g *Guardrails) Check(s *EvalSummary) []string {
	var violations []string
	if s.Total < g.config.MinCases {
		violations = append(violations, fmt.Sprintf("only %d cases evaluated, need %d", s.Total, g.config.MinCases))
	}
	if s.Accuracy < g.config.MinAccuracy {
		violations = append(violations, fmt.Sprintf("accuracy %.3f below %.3f", s.Accuracy, g.config.MinAccuracy))
	}
	if s.EmergencyRecall < g.config.MinEmergencyRecall {
		violations = append(violations, fmt.Sprintf("emergency recall %.3f below %.3f", s.EmergencyRecall, g.config.MinEmergencyRecall))
	}
	return violations
}

func (g *Guardrails) Passed(s *EvalSummary) bool {
	return len(g.Check(s)) == 0
}

// Report is the printable outcome of an evaluation run.
type Report struct {
	Passed     bool         `json:"passed"`
	Violations []string     `json:"violations"`
	Summary    *EvalSummary `json:"summary"`
}

// Report checks s and bundles the verdict with it.
func (g *Guardrails) Report(s *EvalSummary) Report {
	violations := g.Check(s)
	if violations == nil {
		violations = []string{}
	}
	return Report{Passed: len(violations) == 0, Violations: violations, Summary: s}
}
