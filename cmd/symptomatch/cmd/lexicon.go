package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
)

type lexiconView struct {
	Categories     []entities.SpecialistCategory `json:"categories"`
	EmergencyTerms []string                      `json:"emergency_terms"`
}

func newLexiconCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lexicon",
		Short: "Print the specialist categories and emergency terms in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lex, _, err := opts.matcher()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, lexiconView{Categories: lex.Categories(), EmergencyTerms: lex.EmergencyTerms()})
			}

			for c := range lex.All() {
				fmt.Fprintf(out, "%s %s: %s\n", c.Icon, c.Name, strings.Join(c.Keywords, ", "))
			}
			fmt.Fprintf(out, "emergency: %s\n", strings.Join(lex.EmergencyTerms(), ", "))
			return nil
		},
	}
}
