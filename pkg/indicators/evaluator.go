package indicators

import (
	"github.com/iwvelando/project-viability/pkg/cashflow"
	"github.com/iwvelando/project-viability/pkg/project"
	"go.uber.org/zap"
)

// Result is the full indicator record of one evaluation. Nil pointers mark
// indicators that are undefined for the inputs.
type Result struct {
	NPV                float64  `json:"npv"`
	IRR                *float64 `json:"irr"`
	IRRIterations      int      `json:"irrIterations"`
	ProfitabilityIndex *float64 `json:"profitabilityIndex"`
	BenefitCost        *float64 `json:"benefitCost"`
	Payback            *float64 `json:"payback"`
	ROI                *float64 `json:"roi"`
	Profits
	Decision        Decision `json:"decision"`
	Narrative       string   `json:"narrative"`
	NonConventional bool     `json:"nonConventional"`
}

// Evaluator is the evaluation context of a single project. It caches the
// cash-flow series, which Update regenerates when the items change. An
// Evaluator must not be mutated concurrently.
type Evaluator struct {
	logger  *zap.Logger
	project project.Project
	series  cashflow.Series
}

// NewEvaluator validates the project and projects its cash flows.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEvaluator(logger *zap.Logger, p project.Project) (*Evaluator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Evaluator{logger: logger, project: p}
	if err := e.Update(p.Costs, p.Revenues); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the cost and revenue items and regenerates the series.
func (e *Evaluator) Update(costs []project.Cost, revenues []project.Revenue) error {
	series, err := cashflow.Project(e.project.Parameters, costs, revenues)
	if err != nil {
		return err
	}
	e.project.Costs = costs
	e.project.Revenues = revenues
	e.series = series
	return nil
}

// CashFlows returns the cached series.
func (e *Evaluator) CashFlows() cashflow.Series {
	return e.series
}

// Project returns the project under evaluation.
func (e *Evaluator) Project() project.Project {
	return e.project
}

// NPV returns the rounded net present value.
func (e *Evaluator) NPV() float64 {
	return NPV(e.series, e.project.Parameters.InitialInvestment)
}

// IRR runs the bisection solver over the cached net flows.
func (e *Evaluator) IRR() IRRSolution {
	solution := SolveIRR(e.series.Net, e.project.Parameters.InitialInvestment)
	if !solution.Converged {
		e.logger.Debug("IRR solver found no result",
			zap.String("op", "indicators.IRR"),
			zap.String("project", e.project.Name),
			zap.Int("iterations", solution.Iterations),
		)
	}
	return solution
}

// ProfitabilityIndex returns (NPV + I0) / I0, or nil when I0 is zero.
func (e *Evaluator) ProfitabilityIndex() *float64 {
	return ProfitabilityIndex(e.NPV(), e.project.Parameters.InitialInvestment)
}

// BenefitCost returns the discounted benefit/cost ratio.
func (e *Evaluator) BenefitCost() *float64 {
	return BenefitCost(e.series, e.project.Parameters.InitialInvestment)
}

// Payback returns the interpolated recovery period.
func (e *Evaluator) Payback() *float64 {
	return Payback(e.series, e.project.Parameters.InitialInvestment)
}

// ROI returns the pre-tax return on the initial investment.
func (e *Evaluator) ROI() *float64 {
	return ROI(e.series, e.project.Parameters.InitialInvestment)
}

// Profits returns revenue, cost and profit totals.
func (e *Evaluator) Profits() Profits {
	return ComputeProfits(e.project.Costs, e.project.Revenues, e.project.Parameters.TaxRate)
}

// Evaluate computes every indicator, the decision and the narrative.
func (e *Evaluator) Evaluate() Result {
	params := e.project.Parameters

	npv := e.NPV()
	irr := e.IRR()
	pi := ProfitabilityIndex(npv, params.InitialInvestment)
	bc := e.BenefitCost()
	payback := e.Payback()
	nonConventional := SignChanges(e.series.Net, params.InitialInvestment) > 1

	if nonConventional {
		e.logger.Warn("cash flows change sign more than once; IRR may be unreliable",
			zap.String("op", "indicators.Evaluate"),
			zap.String("project", e.project.Name),
		)
	}

	result := Result{
		NPV:                npv,
		IRR:                irr.Value(),
		IRRIterations:      irr.Iterations,
		ProfitabilityIndex: pi,
		BenefitCost:        bc,
		Payback:            payback,
		ROI:                e.ROI(),
		Profits:            e.Profits(),
		Decision:           Decide(npv, irr.Value(), params.DiscountRate),
		NonConventional:    nonConventional,
	}
	result.Narrative = Narrate(NarrativeInput{
		NPV:                npv,
		IRR:                result.IRR,
		DiscountRate:       params.DiscountRate,
		ProfitabilityIndex: pi,
		BenefitCost:        bc,
		Payback:            payback,
		NonConventional:    nonConventional,
	})

	e.logger.Debug("indicators computed",
		zap.String("op", "indicators.Evaluate"),
		zap.String("project", e.project.Name),
		zap.Float64("npv", npv),
		zap.Bool("irrConverged", irr.Converged),
		zap.String("decision", string(result.Decision)),
	)

	return result
}

// Evaluate is the stateless form of Evaluator.Evaluate.
func Evaluate(params project.Parameters, costs []project.Cost, revenues []project.Revenue) (Result, error) {
	e, err := NewEvaluator(nil, project.Project{Parameters: params, Costs: costs, Revenues: revenues})
	if err != nil {
		return Result{}, err
	}
	return e.Evaluate(), nil
}

// QuickNPV computes only the NPV, for live what-if previews.
func QuickNPV(params project.Parameters, costs []project.Cost, revenues []project.Revenue) (float64, error) {
	series, err := cashflow.Project(params, costs, revenues)
	if err != nil {
		return 0, err
	}
	return NPV(series, params.InitialInvestment), nil
}

// QuickIRR computes only the IRR, for live what-if previews. A nil rate
// means the solver found no result.
func QuickIRR(params project.Parameters, costs []project.Cost, revenues []project.Revenue) (*float64, error) {
	series, err := cashflow.Project(params, costs, revenues)
	if err != nil {
		return nil, err
	}
	return SolveIRR(series.Net, params.InitialInvestment).Value(), nil
}
