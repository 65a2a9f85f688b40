package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zatekoja/symptomatch/backend/internal/application/services"
	"github.com/zatekoja/symptomatch/backend/internal/lexicon"
	"github.com/zatekoja/symptomatch/backend/pkg/config"
)

type rootOptions struct {
	lexiconPath string
	jsonOutput  bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "symptomatch",
		Short:        "Match symptom descriptions to a medical specialist",
		Long:         "Classify free-text symptoms against the specialist lexicon and check matcher quality on the golden cases.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.lexiconPath, "lexicon", "", "lexicon YAML file (defaults to LEXICON_PATH, then the embedded lexicon)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of text")

	root.AddCommand(newClassifyCmd(opts))
	root.AddCommand(newLexiconCmd(opts))
	root.AddCommand(newEvalCmd(opts))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// matcher builds the matcher from the environment, with --lexicon taking
// precedence over LEXICON_PATH.
func (o *rootOptions) matcher() (*lexicon.Lexicon, *services.SpecialistMatcher, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.lexiconPath != "" {
		cfg.Matcher.LexiconPath = o.lexiconPath
	}
	return services.NewMatcherFromConfig(cfg.Matcher)
}
