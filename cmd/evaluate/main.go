package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/symptomatch/backend/internal/application/services"
	"github.com/zatekoja/symptomatch/backend/internal/evaluation"
	"github.com/zatekoja/symptomatch/backend/internal/infrastructure/observability"
	"github.com/zatekoja/symptomatch/backend/pkg/config"
)

// Usage: evaluate [golden-cases.json]
// Without an argument the embedded golden set is used.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-evaluate", cfg.Env, cfg.LogLevel)

	_, matcher, err := services.NewMatcherFromConfig(cfg.Matcher)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build specialist matcher")
	}

	var cases []evaluation.GoldenCase
	if len(os.Args) > 1 {
		cases, err = evaluation.LoadGoldenCases(os.Args[1])
	} else {
		cases, err = evaluation.DefaultGoldenCases()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load golden cases")
	}
	if err := evaluation.ValidateGoldenCases(cases); err != nil {
		log.Fatal().Err(err).Msg("Invalid golden cases")
	}

	summary, err := evaluation.NewRunner(matcher).Run(context.Background(), cases)
	if err != nil {
		log.Fatal().Err(err).Msg("Evaluation failed")
	}

	report := evaluation.NewGuardrails(evaluation.DefaultGuardrailConfig()).Report(summary)

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode report")
	}
	fmt.Println(string(out))

	if !report.Passed {
		log.Error().Strs("violations", report.Violations).Msg("Guardrails failed")
		os.Exit(1)
	}
}
