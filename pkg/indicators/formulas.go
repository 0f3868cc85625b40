// Package indicators derives investment-appraisal indicators (NPV, IRR,
// profitability index, benefit/cost ratio, payback, ROI) from a projected
// cash-flow series, and renders a decision and narrative from them.
package indicators

import (
	"github.com/iwvelando/project-viability/pkg/cashflow"
	"github.com/iwvelando/project-viability/pkg/constants"
	"github.com/iwvelando/project-viability/pkg/mathutil"
	"github.com/iwvelando/project-viability/pkg/project"
)

// PresentValue discounts each flow with its 1-based period number as the
// exponent: flows[k-1] / (1+rate)^k.
func PresentValue(flows project.Periods, rate float64) float64 {
	sum := 0.0
	for k := 1; k <= constants.Horizon; k++ {
		sum += flows[k-1] / mathutil.DiscountFactor(rate, k)
	}
	return sum
}

// NetPresentValue is the unrounded NPV of the flows at the given rate.
func NetPresentValue(flows project.Periods, rate, investment float64) float64 {
	return -investment + PresentValue(flows, rate)
}

// NPV returns the series NPV at its own discount rate, rounded to 2 decimals.
func NPV(series cashflow.Series, investment float64) float64 {
	return mathutil.RoundTo(NetPresentValue(series.Net, series.DiscountRate, investment), constants.MoneyDecimals)
}

// ProfitabilityIndex returns (NPV + I0) / I0, or nil when there is no
// initial investment.
func ProfitabilityIndex(npv, investment float64) *float64 {
	if investment == 0 {
		return nil
	}
	pi := mathutil.RoundTo((npv+investment)/investment, constants.RatioDecimals)
	return &pi
}

// BenefitCost returns the discounted pre-tax revenue divided by the
// discounted pre-tax costs plus the initial investment, or nil when that
// denominator is zero.
func BenefitCost(series cashflow.Series, investment float64) *float64 {
	benefits := PresentValue(series.Revenue, series.DiscountRate)
	costs := PresentValue(series.Cost, series.DiscountRate) + investment
	if costs == 0 {
		return nil
	}
	bc := mathutil.RoundTo(benefits/costs, constants.RatioDecimals)
	return &bc
}

// Payback returns the 1-based period in which the cumulative net flow
// recovers the initial investment, interpolated within that period.
//
// Recovery inside the first period yields nil, the same as never
// recovering. That boundary is kept for compatibility with previously
// reported figures.
func Payback(series cashflow.Series, investment float64) *float64 {
	before := -1
	found := false
	for k := 0; k < constants.Horizon; k++ {
		if series.Cumulative[k] >= investment {
			before = k - 1
			found = true
			break
		}
	}
	if !found || before < 0 {
		return nil
	}

	recovered := series.Cumulative[before]
	next := series.Net[before+1]
	if next == 0 {
		days := float64(before + 2)
		return &days
	}

	days := mathutil.RoundTo(float64(before)+(investment-recovered)/next+1, constants.MoneyDecimals)
	return &days
}

// ROI returns the pre-tax operating profit over the horizon, net of the
// initial investment, relative to that investment. Tax is deliberately not
// applied here, unlike the net flows NPV is computed from.
func ROI(series cashflow.Series, investment float64) *float64 {
	if investment == 0 {
		return nil
	}
	profit := 0.0
	for k := 0; k < constants.Horizon; k++ {
		profit += series.Revenue[k] - series.Cost[k]
	}
	roi := mathutil.RoundTo((profit-investment)/investment, constants.RatioDecimals)
	return &roi
}

// Profits summarises the totals reported alongside the indicators.
type Profits struct {
	TotalRevenue    float64 `json:"totalRevenue"`
	VariableCosts   float64 `json:"variableCosts"`
	FixedCosts      float64 `json:"fixedCosts"`
	InvestmentCosts float64 `json:"investmentCosts"`
	// TotalCost covers variable and fixed costs; investment-category items
	// are reported separately.
	TotalCost   float64 `json:"totalCost"`
	GrossProfit float64 `json:"grossProfit"`
	NetProfit   float64 `json:"netProfit"`
}

// ComputeProfits returns gross profit (revenue less variable costs only) and
// net profit (gross after tax), with the underlying totals.
func ComputeProfits(costs []project.Cost, revenues []project.Revenue, taxRate float64) Profits {
	revenue := cashflow.RevenueTotals(revenues).Sum()
	variable := cashflow.CategoryTotals(costs, project.CategoryVariable).Sum()
	fixed := cashflow.CategoryTotals(costs, project.CategoryFixed).Sum()
	investment := cashflow.CategoryTotals(costs, project.CategoryInvestment).Sum()

	gross := revenue - variable
	return Profits{
		TotalRevenue:    mathutil.Round(revenue),
		VariableCosts:   mathutil.Round(variable),
		FixedCosts:      mathutil.Round(fixed),
		InvestmentCosts: mathutil.Round(investment),
		TotalCost:       mathutil.Round(variable + fixed),
		GrossProfit:     mathutil.Round(gross),
		NetProfit:       mathutil.Round(gross * (1 - taxRate)),
	}
}

// SignChanges counts sign changes in the flow sequence -I0, F1..F5,
// ignoring zeros. More than one change means NPV is not guaranteed to be
// monotonic in the rate.
func SignChanges(flows project.Periods, investment float64) int {
	sequence := make([]float64, 0, constants.Horizon+1)
	sequence = append(sequence, -investment)
	sequence = append(sequence, flows[:]...)

	changes := 0
	previous := 0.0
	for _, v := range sequence {
		if v == 0 {
			continue
		}
		if previous != 0 && (v > 0) != (previous > 0) {
			changes++
		}
		previous = v
	}
	return changes
}
