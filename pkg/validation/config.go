// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/project-viability/pkg/constants"
)

// ValidateRate warns when a rate looks like a percentage rather than a
// decimal fraction, or is negative.
func ValidateRate(name string, rate float64) string {
	if rate > constants.SuspiciousRate {
		return fmt.Sprintf("%s %.4g is above 1; rates are decimal fractions (0.04 = 4%%)", name, rate)
	}
	if rate < 0 {
		return fmt.Sprintf("%s %.4g is negative", name, rate)
	}
	return ""
}

// ValidateAmounts warns about negative period amounts in a cost or revenue
// line.
func ValidateAmounts(label string, amounts []float64) []string {
	var warnings []string
	for k, amount := range amounts {
		if amount < 0 {
			warnings = append(warnings, fmt.Sprintf("%s has a negative amount in period %d (%.2f)", label, k, amount))
		}
	}
	return warnings
}

// ConfigValidator performs comprehensive configuration validation
type ConfigValidator struct {
	Project      ProjectConfig
	RevenueCount int
	Items        []ItemConfig
	Scenarios    []ScenarioConfig
}

type ProjectConfig struct {
	Name              string
	DiscountRate      float64
	TaxRate           float64
	InitialInvestment float64
	UnitPrice         float64
}

type ItemConfig struct {
	Label   string
	Amounts []float64
}

type ScenarioConfig struct {
	Name         string
	DiscountRate float64
	Price        float64
	CostFactor   float64
	VolumeFactor float64
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if cv.Project.Name == "" {
		warnings = append(warnings, "project has no name")
	}
	if w := ValidateRate("discount rate", cv.Project.DiscountRate); w != "" {
		warnings = append(warnings, w)
	}
	if w := ValidateRate("tax rate", cv.Project.TaxRate); w != "" {
		warnings = append(warnings, w)
	}
	if cv.Project.InitialInvestment == 0 {
		warnings = append(warnings, "initial investment is zero; profitability index and ROI will be undefined")
	}
	if cv.RevenueCount == 0 {
		warnings = append(warnings, "project has no revenues")
	}
	if cv.Project.UnitPrice <= 0 && len(cv.Scenarios) > 0 {
		warnings = append(warnings, "unit price is not set; scenario baseline units fall back to recorded units")
	}

	for _, item := range cv.Items {
		warnings = append(warnings, ValidateAmounts(item.Label, item.Amounts)...)
	}

	seen := make(map[string]bool)
	for _, scenario := range cv.Scenarios {
		if seen[scenario.Name] {
			warnings = append(warnings, fmt.Sprintf("scenario '%s' is defined more than once; the last definition wins", scenario.Name))
		}
		seen[scenario.Name] = true

		if w := ValidateRate(fmt.Sprintf("scenario '%s' discount rate", scenario.Name), scenario.DiscountRate); w != "" {
			warnings = append(warnings, w)
		}
		if scenario.Price <= 0 {
			warnings = append(warnings, fmt.Sprintf("scenario '%s' has a non-positive price", scenario.Name))
		}
		if scenario.CostFactor < 0 || scenario.VolumeFactor < 0 {
			warnings = append(warnings, fmt.Sprintf("scenario '%s' has a negative factor", scenario.Name))
		}
		if scenario.CostFactor == 0 {
			warnings = append(warnings, fmt.Sprintf("scenario '%s' has a zero cost factor; every cost is removed", scenario.Name))
		}
		if scenario.VolumeFactor == 0 {
			warnings = append(warnings, fmt.Sprintf("scenario '%s' has a zero volume factor; revenue is zero", scenario.Name))
		}
	}

	return warnings
}
