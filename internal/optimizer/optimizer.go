// Package optimizer searches for the break-even unit price and sales volume
// of a project by bisection over the scenario simulation.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/project-viability/pkg/cashflow"
	"github.com/iwvelando/project-viability/pkg/constants"
	"github.com/iwvelando/project-viability/pkg/format"
	"github.com/iwvelando/project-viability/pkg/indicators"
	"github.com/iwvelando/project-viability/pkg/mathutil"
	"github.com/iwvelando/project-viability/pkg/optimization"
	"github.com/iwvelando/project-viability/pkg/project"
	"github.com/iwvelando/project-viability/pkg/sensitivity"
	"go.uber.org/zap"
)

// Fields a break-even search can move.
const (
	FieldPrice  = "price"
	FieldVolume = "volumeFactor"
)

// Settings bound the break-even search. Zero values fall back to the
// package defaults.
type Settings struct {
	MaxPrice      float64
	MaxVolume     float64
	Tolerance     float64
	MaxIterations int
}

// Normalize fills unset settings with defaults.
func (s *Settings) Normalize() {
	if s.MaxPrice == 0 {
		s.MaxPrice = constants.DefaultBreakEvenMaxPrice
	}
	if s.MaxVolume == 0 {
		s.MaxVolume = constants.DefaultBreakEvenMaxVolume
	}
	if s.Tolerance == 0 {
		s.Tolerance = constants.DefaultBreakEvenTolerance
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = constants.DefaultBreakEvenMaxIterations
	}
}

// Validate reports settings the search cannot run with.
func (s Settings) Validate() error {
	if s.MaxPrice < 0 {
		return fmt.Errorf("break-even maxPrice cannot be negative")
	}
	if s.MaxVolume < 0 {
		return fmt.Errorf("break-even maxVolume cannot be negative")
	}
	if s.Tolerance < 0 {
		return fmt.Errorf("break-even tolerance cannot be negative")
	}
	if s.MaxIterations < 0 {
		return fmt.Errorf("break-even maxIterations cannot be negative")
	}
	return nil
}

type Runner struct {
	logger   *zap.Logger
	project  project.Project
	settings Settings
	baseline sensitivity.Scenario
}

type target struct {
	field    string
	original float64
	minValue float64
	maxValue float64
}

type evaluation struct {
	value float64
	npv   float64
}

func (e evaluation) feasible() bool {
	return e.npv >= 0
}

// Result holds one summary per searched field, in search order.
type Result struct {
	Summaries []optimization.Summary
}

// Empty indicates whether any searches were run.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// NewRunner constructs a Runner for the project. Searches hold every other
// input at the base scenario: the project's unit price (or the default base
// price when unset), unchanged volume and costs, the project's discount rate.
func NewRunner(logger *zap.Logger, p project.Project, settings Settings) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings.Normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := p.Parameters.Validate(); err != nil {
		return nil, fmt.Errorf("break-even project: %w", err)
	}

	baseline := sensitivity.DefaultScenarios(p.Parameters.DiscountRate)[1]
	if p.Parameters.UnitPrice > 0 {
		baseline.Price = p.Parameters.UnitPrice
	}

	return &Runner{logger: logger, project: p, settings: settings, baseline: baseline}, nil
}

// Run searches the break-even price, then the break-even volume factor.
func (r *Runner) Run() (*Result, error) {
	targets := []target{
		{field: FieldPrice, original: r.baseline.Price, minValue: 0, maxValue: r.settings.MaxPrice},
		{field: FieldVolume, original: r.baseline.VolumeFactor, minValue: 0, maxValue: r.settings.MaxVolume},
	}

	result := &Result{}
	for _, t := range targets {
		summary, err := r.search(t)
		if err != nil {
			return nil, err
		}
		result.Summaries = append(result.Summaries, summary)

		r.logger.Info("break-even search finished",
			zap.String("op", "optimizer.Run"),
			zap.String("project", r.project.Name),
			zap.String("field", t.field),
			zap.Float64("original", summary.Original),
			zap.Float64("value", summary.Value),
			zap.Float64("npv", summary.NPV),
			zap.Int("iterations", summary.Iterations),
			zap.Bool("converged", summary.Converged),
		)
	}
	return result, nil
}

func (r *Runner) search(t target) (optimization.Summary, error) {
	lowerEval, err := r.evaluate(t, t.minValue)
	if err != nil {
		return optimization.Summary{}, err
	}
	upperEval, err := r.evaluate(t, t.maxValue)
	if err != nil {
		return optimization.Summary{}, err
	}

	summary := optimization.Summary{
		Scope:           "project",
		TargetName:      r.project.Name,
		Field:           t.field,
		Original:        t.original,
		OriginalDisplay: formatFieldDisplay(t.field, t.original),
		Lower:           t.minValue,
		Upper:           t.maxValue,
	}

	// NPV rises with both price and volume, so a crossing exists only when
	// the lower bound loses money and the upper bound does not.
	if lowerEval.feasible() || !upperEval.feasible() {
		chased := upperEval
		note := fmt.Sprintf("NPV stays negative within bounds %s to %s",
			formatFieldDisplay(t.field, t.minValue), formatFieldDisplay(t.field, t.maxValue))
		if lowerEval.feasible() {
			chased = lowerEval
			note = fmt.Sprintf("NPV is non-negative across bounds %s to %s",
				formatFieldDisplay(t.field, t.minValue), formatFieldDisplay(t.field, t.maxValue))
		}
		summary.Value = chased.value
		summary.ValueDisplay = formatFieldDisplay(t.field, chased.value)
		summary.NPV = mathutil.Round(chased.npv)
		summary.Notes = []string{note}
		return summary, nil
	}

	iterations := 0
	lower, upper := lowerEval.value, upperEval.value
	finalEval := upperEval
	for iterations < r.settings.MaxIterations && math.Abs(upper-lower) > r.settings.Tolerance {
		mid := lower + (upper-lower)/2
		evalMid, err := r.evaluate(t, mid)
		if err != nil {
			return optimization.Summary{}, err
		}
		iterations++
		if evalMid.feasible() {
			finalEval = evalMid
			upper = mid
		} else {
			lower = mid
		}
	}

	converged := math.Abs(upper-lower) <= r.settings.Tolerance
	summary.Value = finalEval.value
	summary.ValueDisplay = formatFieldDisplay(t.field, finalEval.value)
	summary.NPV = mathutil.Round(finalEval.npv)
	summary.Iterations = iterations
	summary.Converged = converged
	if !converged {
		summary.Notes = []string{fmt.Sprintf("stopped after %d iterations with bracket %s to %s",
			iterations, formatFieldDisplay(t.field, lower), formatFieldDisplay(t.field, upper))}
	}
	return summary, nil
}

// evaluate returns the unrounded NPV with the target field set to value.
func (r *Runner) evaluate(t target, value float64) (evaluation, error) {
	value = clampValue(value, t.minValue, t.maxValue)

	scenario := r.baseline
	switch t.field {
	case FieldPrice:
		scenario.Price = value
	case FieldVolume:
		scenario.VolumeFactor = value
	default:
		return evaluation{}, fmt.Errorf("unsupported break-even field %q", t.field)
	}

	simulated := sensitivity.Simulate(r.project, scenario)
	series, err := cashflow.Project(simulated.Parameters, simulated.Costs, simulated.Revenues)
	if err != nil {
		return evaluation{}, fmt.Errorf("break-even evaluation failed: %w", err)
	}

	return evaluation{
		value: value,
		npv:   indicators.NetPresentValue(series.Net, series.DiscountRate, simulated.Parameters.InitialInvestment),
	}, nil
}

func clampValue(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func formatFieldDisplay(field string, value float64) string {
	switch field {
	case FieldPrice:
		return format.Currency(value)
	case FieldVolume:
		return fmt.Sprintf("%.2f%%", value)
	default:
		return fmt.Sprintf("%.2f", value)
	}
}
