package sensitivity

import (
	"fmt"

	"github.com/iwvelando/project-viability/pkg/indicators"
	"github.com/iwvelando/project-viability/pkg/project"
	"go.uber.org/zap"
)

// Result is the outcome of one scenario.
type Result struct {
	NPV       float64   `json:"npv"`
	IRR       *float64  `json:"irr"`
	Viability Viability `json:"viability"`
	Scenario  Scenario  `json:"scenario"`
}

// Engine evaluates scenarios against a project.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a scenario engine.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Assess maps the indicator classification onto a viability label.
func Assess(npv float64, irr *float64, discountRate float64) Viability {
	switch indicators.Classify(npv, irr, discountRate) {
	case indicators.OutcomeFavorable:
		return Viable
	case indicators.OutcomeUnfavorable:
		return NotViable
	default:
		return Indifferent
	}
}

// Evaluate runs a single scenario.
func (e *Engine) Evaluate(p project.Project, s Scenario) (Result, error) {
	simulated := Simulate(p, s)

	npv, err := indicators.QuickNPV(simulated.Parameters, simulated.Costs, simulated.Revenues)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	irr, err := indicators.QuickIRR(simulated.Parameters, simulated.Costs, simulated.Revenues)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	result := Result{
		NPV:       npv,
		IRR:       irr,
		Viability: Assess(npv, irr, s.DiscountRate),
		Scenario:  s,
	}

	e.logger.Debug("scenario evaluated",
		zap.String("op", "sensitivity.Evaluate"),
		zap.String("project", p.Name),
		zap.String("scenario", s.Name),
		zap.Float64("npv", npv),
		zap.String("viability", string(result.Viability)),
	)

	return result, nil
}

// Run evaluates the scenarios in order.
func (e *Engine) Run(p project.Project, scenarios []Scenario) ([]Result, error) {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		result, err := e.Evaluate(p, s)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// RunDefault evaluates DefaultScenarios at the project's discount rate.
func (e *Engine) RunDefault(p project.Project) (map[string]Result, error) {
	return e.RunCustom(p, DefaultScenarios(p.Parameters.DiscountRate))
}

// RunCustom evaluates caller-supplied scenarios, keyed by name. A later
// scenario overwrites an earlier one with the same name.
func (e *Engine) RunCustom(p project.Project, scenarios []Scenario) (map[string]Result, error) {
	results, err := e.Run(p, scenarios)
	if err != nil {
		return nil, err
	}
	return Collect(results), nil
}

// Collect keys results by scenario name.
func Collect(results []Result) map[string]Result {
	byName := make(map[string]Result, len(results))
	for _, r := range results {
		byName[r.Scenario.Name] = r
	}
	return byName
}
