package cmd

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zatekoja/symptomatch/backend/internal/evaluation"
)

var errGuardrails = errors.New("evaluation guardrails failed")

func newEvalCmd(opts *rootOptions) *cobra.Command {
	guardrails := evaluation.DefaultGuardrailConfig()

	c := &cobra.Command{
		Use:   "eval [golden-cases.json]",
		Short: "Run the golden-case evaluation and check the guardrails",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cases []evaluation.GoldenCase
				err   error
			)
			if len(args) == 1 {
				cases, err = evaluation.LoadGoldenCases(args[0])
			} else {
				cases, err = evaluation.DefaultGoldenCases()
			}
			if err != nil {
				return err
			}
			if err := evaluation.ValidateGoldenCases(cases); err != nil {
				return err
			}

			_, matcher, err := opts.matcher()
			if err != nil {
				return err
			}

			summary, err := evaluation.NewRunner(matcher).Run(cmd.Context(), cases)
			if err != nil {
				return err
			}
			report := evaluation.NewGuardrails(guardrails).Report(summary)

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				printReport(out, report)
			}

			if !report.Passed {
				return errGuardrails
			}
			return nil
		},
	}
	c.Flags().Float64Var(&guardrails.MinAccuracy, "min-accuracy", guardrails.MinAccuracy, "minimum overall accuracy")
	c.Flags().Float64Var(&guardrails.MinEmergencyRecall, "min-emergency-recall", guardrails.MinEmergencyRecall, "minimum recall on emergency cases")
	return c
}

func printReport(w io.Writer, r evaluation.Report) {
	s := r.Summary
	fmt.Fprintf(w, "cases: %d  correct: %d  accuracy: %.3f  emergency recall: %.3f\n",
		s.Total, s.Correct, s.Accuracy, s.EmergencyRecall)

	labels := make([]string, 0, len(s.ByLabel))
	for name := range s.ByLabel {
		labels = append(labels, name)
	}
	slices.Sort(labels)
	for _, name := range labels {
		m := s.ByLabel[name]
		fmt.Fprintf(w, "  %-20s P=%.2f R=%.2f F1=%.2f (n=%d)\n", name, m.Precision, m.Recall, m.F1, m.Support)
	}

	for _, f := range s.Failures {
		fmt.Fprintf(w, "FAIL %s %q: want %s, got %s\n", f.CaseID, f.Text, f.ExpectedLabel, f.GotLabel)
	}

	if r.Passed {
		fmt.Fprintln(w, "guardrails: passed")
		return
	}
	fmt.Fprintf(w, "guardrails: FAILED (%s)\n", strings.Join(r.Violations, "; "))
}
