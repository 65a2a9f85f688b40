package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zatekoja/symptomatch/backend/internal/application/services"
	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
)

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	var explain bool

	c := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Suggest a specialist for a symptom description",
		Long:  "Classify the arguments joined by spaces, or standard input when no arguments are given.",
		Example: `  symptomatch classify "tooth pain since yesterday"
  echo "skin rash" | symptomatch classify --explain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				text = string(data)
			}

			_, matcher, err := opts.matcher()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if explain {
				e := matcher.Explain(text)
				if opts.jsonOutput {
					return writeJSON(out, e)
				}
				printExplanation(out, e)
				return nil
			}

			result := matcher.Classify(text)
			if opts.jsonOutput {
				return writeJSON(out, result)
			}
			printResult(out, result)
			return nil
		},
	}
	c.Flags().BoolVar(&explain, "explain", false, "show per-category scores")
	return c
}

func printResult(w io.Writer, r entities.MatchResult) {
	switch r.Kind {
	case entities.MatchKindMatched:
		fmt.Fprintf(w, "%s %s (%d%% confidence)\n", r.Icon, r.Specialist, r.ConfidencePercent())
	case entities.MatchKindEmergency:
		fmt.Fprintln(w, "EMERGENCY: seek immediate medical care")
	default:
		fmt.Fprintf(w, "no specialist matched (%s)\n", r.Reason)
	}
}

func printExplanation(w io.Writer, e services.Explanation) {
	printResult(w, e.Result)
	if e.EmergencyTerm != "" {
		fmt.Fprintf(w, "emergency term: %q\n", e.EmergencyTerm)
	}
	for _, s := range e.Scores {
		hit := s.BestKeyword
		if s.ExactKeyword != "" {
			hit = s.ExactKeyword + " (substring)"
		}
		fmt.Fprintf(w, "  %-20s %.3f  %s\n", s.Specialist, s.Score, hit)
	}
}
