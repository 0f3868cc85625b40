// Package output provides utilities for formatting and displaying evaluation results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/project-viability/internal/evaluation"
	"github.com/iwvelando/project-viability/pkg/constants"
	"github.com/iwvelando/project-viability/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const notAvailable = "n/a"

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report evaluation.Report) error {
	p := message.NewPrinter(language.English)
	var b bytes.Buffer

	fmt.Fprintf(&b, "--- Evaluation of %s ---\n", report.Project)
	fmt.Fprintf(&b, "Period | Revenue | Cost | Net | Discounted | Cumulative\n")
	fmt.Fprintf(&b, "______ | _______ | ____ | ___ | __________ | __________\n")
	series := report.CashFlows
	for k := 0; k < constants.Horizon; k++ {
		_, _ = p.Fprintf(&b, "%d | $%.2f | $%.2f | $%.2f | $%.2f | $%.2f\n",
			k+1, series.Revenue[k], series.Cost[k], series.Net[k], series.Discounted[k], series.Cumulative[k])
	}

	ind := report.Indicators
	fmt.Fprintf(&b, "\n--- Indicators ---\n")
	_, _ = p.Fprintf(&b, "NPV: $%.2f\n", ind.NPV)
	fmt.Fprintf(&b, "IRR: %s\n", format.OptionalPercent(ind.IRR))
	fmt.Fprintf(&b, "Profitability index: %s\n", format.Optional(ind.ProfitabilityIndex, constants.RatioDecimals))
	fmt.Fprintf(&b, "Benefit/cost: %s\n", format.Optional(ind.BenefitCost, constants.RatioDecimals))
	fmt.Fprintf(&b, "Payback (periods): %s\n", format.Optional(ind.Payback, constants.MoneyDecimals))
	fmt.Fprintf(&b, "ROI: %s\n", format.OptionalPercent(ind.ROI))
	_, _ = p.Fprintf(&b, "Total revenue: $%.2f | Total cost: $%.2f | Investment costs: $%.2f\n",
		ind.TotalRevenue, ind.TotalCost, ind.InvestmentCosts)
	_, _ = p.Fprintf(&b, "Gross profit: $%.2f | Net profit: $%.2f\n", ind.GrossProfit, ind.NetProfit)
	fmt.Fprintf(&b, "Decision: %s\n", ind.Decision)
	fmt.Fprintf(&b, "%s\n", ind.Narrative)

	if len(report.Scenarios) > 0 {
		fmt.Fprintf(&b, "\n--- Scenarios ---\n")
		fmt.Fprintf(&b, "Scenario | Price | Volume | Costs | Rate | NPV | IRR | Viability\n")
		fmt.Fprintf(&b, "________ | _____ | ______ | _____ | ____ | ___ | ___ | _________\n")
		for _, r := range report.Scenarios {
			s := r.Scenario
			_, _ = p.Fprintf(&b, "%s | $%.2f | %.2f%% | %.2f%% | %.2f%% | $%.2f | %s | %s\n",
				s.Name, s.Price, s.VolumeFactor, s.CostFactor, s.DiscountRate*constants.PercentageMultiplier,
				r.NPV, format.OptionalPercent(r.IRR), r.Viability)
		}
	}

	if len(report.BreakEven) > 0 {
		fmt.Fprintf(&b, "\n--- Break-even ---\n")
		for _, s := range report.BreakEven {
			status := "converged"
			if !s.Converged {
				status = "not converged"
			}
			fmt.Fprintf(&b, "%s: %s (from %s, %s after %d iterations)", s.Field, s.ValueDisplay, s.OriginalDisplay, status, s.Iterations)
			if len(s.Notes) > 0 {
				fmt.Fprintf(&b, " - %s", strings.Join(s.Notes, "; "))
			}
			fmt.Fprintf(&b, "\n")
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(&b, "\n--- Warnings ---\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}

	_, err := w.Write(b.Bytes())
	return err
}

// CsvFormat writes the report as comma-separated sections: cash flows,
// indicators, then scenarios.
func CsvFormat(w io.Writer, report evaluation.Report) error {
	cw := csv.NewWriter(w)

	series := report.CashFlows
	rows := [][]string{{"period", "revenue", "cost", "net", "discounted", "cumulative"}}
	for k := 0; k < constants.Horizon; k++ {
		rows = append(rows, []string{
			strconv.Itoa(k + 1),
			money(series.Revenue[k]),
			money(series.Cost[k]),
			money(series.Net[k]),
			money(series.Discounted[k]),
			money(series.Cumulative[k]),
		})
	}

	ind := report.Indicators
	rows = append(rows,
		[]string{},
		[]string{"indicator", "value"},
		[]string{"npv", money(ind.NPV)},
		[]string{"irr", optional(ind.IRR, constants.RatioDecimals)},
		[]string{"profitability_index", optional(ind.ProfitabilityIndex, constants.RatioDecimals)},
		[]string{"benefit_cost", optional(ind.BenefitCost, constants.RatioDecimals)},
		[]string{"payback", optional(ind.Payback, constants.MoneyDecimals)},
		[]string{"roi", optional(ind.ROI, constants.RatioDecimals)},
		[]string{"gross_profit", money(ind.GrossProfit)},
		[]string{"net_profit", money(ind.NetProfit)},
		[]string{"decision", string(ind.Decision)},
	)

	if len(report.Scenarios) > 0 {
		rows = append(rows, []string{}, []string{"scenario", "discount_rate", "price", "cost_factor", "volume_factor", "npv", "irr", "viability"})
		for _, r := range report.Scenarios {
			s := r.Scenario
			rows = append(rows, []string{
				s.Name,
				strconv.FormatFloat(s.DiscountRate, 'f', -1, 64),
				money(s.Price),
				strconv.FormatFloat(s.CostFactor, 'f', -1, 64),
				strconv.FormatFloat(s.VolumeFactor, 'f', -1, 64),
				money(r.NPV),
				optional(r.IRR, constants.RatioDecimals),
				string(r.Viability),
			})
		}
	}

	// Empty rows are written as blank lines between sections.
	return cw.WriteAll(rows)
}

// CsvString returns the CSV rendering of the report.
func CsvString(report evaluation.Report) (string, error) {
	var b strings.Builder
	if err := CsvFormat(&b, report); err != nil {
		return "", err
	}
	return b.String(), nil
}

// JSONFormat writes the report as indented JSON.
func JSONFormat(w io.Writer, report evaluation.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func money(value float64) string {
	return strconv.FormatFloat(value, 'f', constants.MoneyDecimals, 64)
}

func optional(value *float64, decimals int) string {
	if value == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*value, 'f', decimals, 64)
}
