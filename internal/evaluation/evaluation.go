// Package evaluation runs the complete appraisal of a configured project:
// cash flows, indicators, sensitivity scenarios and break-even searches.
package evaluation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/project-viability/internal/config"
	"github.com/iwvelando/project-viability/internal/metrics"
	"github.com/iwvelando/project-viability/internal/optimizer"
	"github.com/iwvelando/project-viability/pkg/adapters"
	"github.com/iwvelando/project-viability/pkg/cashflow"
	"github.com/iwvelando/project-viability/pkg/indicators"
	"github.com/iwvelando/project-viability/pkg/optimization"
	"github.com/iwvelando/project-viability/pkg/sensitivity"
	"go.uber.org/zap"
)

// Report holds everything produced by one evaluation.
type Report struct {
	ID          string                        `json:"id"`
	Project     string                        `json:"project"`
	CashFlows   cashflow.Series               `json:"cashFlows"`
	Indicators  indicators.Result             `json:"indicators"`
	Scenarios   []sensitivity.Result          `json:"scenarios"`
	Sensitivity map[string]sensitivity.Result `json:"sensitivity"`
	BreakEven   []optimization.Summary        `json:"breakEven,omitempty"`
	Warnings    []string                      `json:"warnings,omitempty"`
	EvaluatedAt time.Time                     `json:"evaluatedAt"`
}

// Options tune a single evaluation.
type Options struct {
	// Metrics receives the outcome; nil records nothing.
	Metrics *metrics.Metrics
	// FixedTime stamps the report instead of the current time when set.
	FixedTime time.Time
}

// GetEvaluation evaluates the configured project.
func GetEvaluation(logger *zap.Logger, conf config.Configuration) (Report, error) {
	return GetEvaluationWithOptions(logger, conf, Options{})
}

// GetEvaluationWithOptions evaluates the configured project with injectable
// metrics and timestamp.
func GetEvaluationWithOptions(logger *zap.Logger, conf config.Configuration, opts Options) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()

	p, err := adapters.ToProject(&conf)
	if err != nil {
		return Report{}, fmt.Errorf("invalid project: %w", err)
	}

	evaluator, err := indicators.NewEvaluator(logger, p)
	if err != nil {
		return Report{}, fmt.Errorf("failed to project cash flows: %w", err)
	}
	result := evaluator.Evaluate()

	scenarios, err := sensitivity.NewEngine(logger).Run(p, conf.SensitivityScenarios())
	if err != nil {
		return Report{}, fmt.Errorf("sensitivity analysis failed: %w", err)
	}

	var breakEven []optimization.Summary
	if conf.BreakEven.Enabled {
		runner, err := optimizer.NewRunner(logger, p, conf.BreakEvenSettings())
		if err != nil {
			return Report{}, fmt.Errorf("invalid break-even settings: %w", err)
		}
		optimized, err := runner.Run()
		if err != nil {
			return Report{}, fmt.Errorf("break-even search failed: %w", err)
		}
		breakEven = optimized.Summaries
	} else {
		logger.Debug("skipping break-even search because it is disabled",
			zap.String("op", "evaluation.GetEvaluation"),
		)
	}

	evaluatedAt := opts.FixedTime
	if evaluatedAt.IsZero() {
		evaluatedAt = time.Now().UTC()
	}

	report := Report{
		ID:          uuid.NewString(),
		Project:     p.Name,
		CashFlows:   evaluator.CashFlows(),
		Indicators:  result,
		Scenarios:   scenarios,
		Sensitivity: sensitivity.Collect(scenarios),
		BreakEven:   breakEven,
		Warnings:    conf.ValidateConfiguration(),
		EvaluatedAt: evaluatedAt,
	}

	elapsed := time.Since(start)
	opts.Metrics.ObserveEvaluation(result, elapsed)
	opts.Metrics.ObserveScenarios(scenarios)

	logger.Info("project evaluated",
		zap.String("op", "evaluation.GetEvaluation"),
		zap.String("id", report.ID),
		zap.String("project", report.Project),
		zap.Float64("npv", result.NPV),
		zap.String("decision", string(result.Decision)),
		zap.Int("scenarios", len(scenarios)),
		zap.Duration("elapsed", elapsed),
	)

	return report, nil
}
