// Package sensitivity re-evaluates a project under alternative price, volume,
// cost and discount-rate assumptions and labels each outcome's viability.
package sensitivity

import (
	"github.com/iwvelando/project-viability/pkg/constants"
	"github.com/iwvelando/project-viability/pkg/project"
)

// Viability is the label attached to a scenario outcome.
type Viability string

const (
	Viable      Viability = "VIABLE"
	NotViable   Viability = "NO VIABLE"
	Indifferent Viability = "INDIFERENTE"
)

// Names of the default scenarios.
const (
	ScenarioPessimistic = "PESSIMISTIC"
	ScenarioBase        = "BASE"
	ScenarioOptimistic  = "OPTIMISTIC"
)

// Scenario is one what-if assumption set. CostFactor and VolumeFactor are
// percentages of the baseline, 100 meaning unchanged.
type Scenario struct {
	Name         string  `json:"name"`
	DiscountRate float64 `json:"discountRate"`
	Price        float64 `json:"price"`
	CostFactor   float64 `json:"costFactor"`
	VolumeFactor float64 `json:"volumeFactor"`
}

// DefaultScenarios returns the pessimistic, base and optimistic scenarios at
// the given discount rate. A higher price is paired with lower demand.
func DefaultScenarios(discountRate float64) []Scenario {
	return []Scenario{
		{Name: ScenarioPessimistic, DiscountRate: discountRate, Price: 2.00, CostFactor: constants.UnchangedFactor, VolumeFactor: 73.17},
		{Name: ScenarioBase, DiscountRate: discountRate, Price: constants.BaselineUnitPrice, CostFactor: constants.UnchangedFactor, VolumeFactor: constants.UnchangedFactor},
		{Name: ScenarioOptimistic, DiscountRate: discountRate, Price: 1.00, CostFactor: constants.UnchangedFactor, VolumeFactor: 139.53},
	}
}

// simulatedCost scales a cost item by a factor, keeping its category.
type simulatedCost struct {
	base   project.Cost
	factor float64
}

func (c simulatedCost) AmountAt(period int) float64 {
	return c.base.AmountAt(period) * c.factor
}

func (c simulatedCost) CostCategory() project.Category {
	return c.base.CostCategory()
}

// simulatedRevenue yields the same adjusted units × price in every period.
type simulatedRevenue struct {
	base   project.Revenue
	amount float64
}

func (r simulatedRevenue) AmountAt(period int) float64 {
	if period < 0 || period >= constants.Horizon {
		return 0
	}
	return r.amount
}

func (r simulatedRevenue) UnitsAt(period int) int {
	return r.base.UnitsAt(period)
}

// BaselineUnits estimates the units behind a revenue item: its first-period
// amount over the unit price, else its recorded period-1 units, else
// constants.FallbackBaselineUnits.
func BaselineUnits(revenue project.Revenue, unitPrice float64) float64 {
	if unitPrice > 0 {
		return revenue.AmountAt(0) / unitPrice
	}
	if units := revenue.UnitsAt(1); units != 0 {
		return float64(units)
	}
	return constants.FallbackBaselineUnits
}

// Simulate returns a copy of the project re-parameterised for the scenario.
// The original project is not modified.
func Simulate(p project.Project, s Scenario) project.Project {
	costFactor := s.CostFactor / constants.PercentageMultiplier
	volumeFactor := s.VolumeFactor / constants.PercentageMultiplier

	params := p.Parameters
	params.DiscountRate = s.DiscountRate
	params.ProductionUnits = p.Parameters.ProductionUnits * volumeFactor
	params.UnitPrice = s.Price

	costs := make([]project.Cost, 0, len(p.Costs))
	for _, cost := range p.Costs {
		if cost == nil {
			continue
		}
		costs = append(costs, simulatedCost{base: cost, factor: costFactor})
	}

	revenues := make([]project.Revenue, 0, len(p.Revenues))
	for _, revenue := range p.Revenues {
		if revenue == nil {
			continue
		}
		units := BaselineUnits(revenue, p.Parameters.UnitPrice) * volumeFactor
		revenues = append(revenues, simulatedRevenue{base: revenue, amount: units * s.Price})
	}

	return project.Project{
		Name:       p.Name,
		Parameters: params,
		Costs:      costs,
		Revenues:   revenues,
	}
}
