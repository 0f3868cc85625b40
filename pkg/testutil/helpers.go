// Package testutil provides common fixtures for testing.
package testutil

import (
	"github.com/iwvelando/project-viability/pkg/constants"
	"github.com/iwvelando/project-viability/pkg/project"
)

// SampleUnitPrice is the baseline unit price of the sample project.
const SampleUnitPrice = 1.50

// SampleParameters returns the parameters of the gelatin-stand sample
// project: 4% discount rate, no tax, 52.00 initial investment.
func SampleParameters() project.Parameters {
	return project.Parameters{
		DiscountRate:      0.04,
		TaxRate:           0.0,
		Horizon:           constants.Horizon,
		InitialInvestment: 52.00,
		ProductionUnits:   30,
		UnitPrice:         SampleUnitPrice,
	}
}

// SampleCostItems returns variable and fixed cost items totalling 20.64 per
// period (17.60 variable, 3.04 fixed).
func SampleCostItems() []project.CostItem {
	return []project.CostItem{
		{Name: "Gelatin", Category: project.CategoryVariable, Amounts: project.Flat(14.00)},
		{Name: "Cups", Category: project.CategoryVariable, Amounts: project.Flat(2.10)},
		{Name: "Spoons", Category: project.CategoryVariable, Amounts: project.Flat(1.50)},
		{Name: "Fridge rental", Category: project.CategoryFixed, Amounts: project.Flat(2.00)},
		{Name: "Kitchen rental", Category: project.CategoryFixed, Amounts: project.Flat(1.00)},
		{Name: "Water", Category: project.CategoryFixed, Amounts: project.Flat(0.04)},
	}
}

// SampleRevenueItems returns a single revenue line of 45.00 per period
// (30 units at 1.50).
func SampleRevenueItems() []project.RevenueItem {
	return []project.RevenueItem{
		{Name: "Gelatin sales", Amounts: project.Flat(45.00), Units: [constants.Horizon - 1]int{30, 30, 30, 30}},
	}
}

// SampleProject assembles the sample project.
func SampleProject() project.Project {
	return project.Project{
		Name:       "Gelatin stand",
		Parameters: SampleParameters(),
		Costs:      project.Costs(SampleCostItems()...),
		Revenues:   project.Revenues(SampleRevenueItems()...),
	}
}

// FlatProject builds a single-cost, single-revenue project with the same
// amounts in every period.
func FlatProject(rate, tax, investment, revenue, cost float64) project.Project {
	return project.Project{
		Name: "Flat",
		Parameters: project.Parameters{
			DiscountRate:      rate,
			TaxRate:           tax,
			Horizon:           constants.Horizon,
			InitialInvestment: investment,
		},
		Costs: project.Costs(project.CostItem{
			Name: "Cost", Category: project.CategoryVariable, Amounts: project.Flat(cost),
		}),
		Revenues: project.Revenues(project.RevenueItem{
			Name: "Revenue", Amounts: project.Flat(revenue),
		}),
	}
}
