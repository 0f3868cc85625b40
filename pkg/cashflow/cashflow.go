// Package cashflow projects per-period net, discounted and cumulative cash
// flows from a project's cost and revenue items.
package cashflow

import (
	"github.com/iwvelando/project-viability/pkg/constants"
	"github.com/iwvelando/project-viability/pkg/mathutil"
	"github.com/iwvelando/project-viability/pkg/project"
)

// Series is the cash-flow projection of one project. Every field is derived;
// regenerate it with Project whenever the inputs change.
type Series struct {
	DiscountRate float64 `json:"discountRate"`
	TaxRate      float64 `json:"taxRate"`

	// Raw pre-tax totals per period.
	Revenue project.Periods `json:"revenue"`
	Cost    project.Periods `json:"cost"`

	Net        project.Periods `json:"net"`
	Discounted project.Periods `json:"discounted"`
	Cumulative project.Periods `json:"cumulative"`
}

// Project computes the cash-flow series. Period index k is discounted with
// exponent k+1, so no period is ever left undiscounted.
func Project(params project.Parameters, costs []project.Cost, revenues []project.Revenue) (Series, error) {
	if err := params.Validate(); err != nil {
		return Series{}, err
	}

	series := Series{
		DiscountRate: params.DiscountRate,
		TaxRate:      params.TaxRate,
		Revenue:      RevenueTotals(revenues),
		Cost:         CostTotals(costs),
	}

	cumulative := 0.0
	for k := 0; k < constants.Horizon; k++ {
		operating := series.Revenue[k] - series.Cost[k]
		net := operating * (1 - params.TaxRate)

		series.Net[k] = net
		series.Discounted[k] = net / mathutil.DiscountFactor(params.DiscountRate, k+1)
		cumulative += net
		series.Cumulative[k] = cumulative
	}

	return series, nil
}

// RevenueTotals sums every revenue item per period.
func RevenueTotals(revenues []project.Revenue) project.Periods {
	var totals project.Periods
	for k := 0; k < constants.Horizon; k++ {
		for _, revenue := range revenues {
			if revenue == nil {
				continue
			}
			totals[k] += revenue.AmountAt(k)
		}
	}
	return totals
}

// CostTotals sums every cost item per period regardless of category.
func CostTotals(costs []project.Cost) project.Periods {
	var totals project.Periods
	for k := 0; k < constants.Horizon; k++ {
		for _, cost := range costs {
			if cost == nil {
				continue
			}
			totals[k] += cost.AmountAt(k)
		}
	}
	return totals
}

// CategoryTotals sums the cost items of a single category per period.
func CategoryTotals(costs []project.Cost, category project.Category) project.Periods {
	var totals project.Periods
	for k := 0; k < constants.Horizon; k++ {
		for _, cost := range costs {
			if cost == nil || cost.CostCategory() != category {
				continue
			}
			totals[k] += cost.AmountAt(k)
		}
	}
	return totals
}

// DiscountedSum returns the sum of the discounted flows.
func (s Series) DiscountedSum() float64 {
	return s.Discounted.Sum()
}
