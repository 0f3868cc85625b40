package config

import (
	"github.com/iwvelando/project-viability/internal/optimizer"
	"github.com/iwvelando/project-viability/pkg/constants"
	"github.com/iwvelando/project-viability/pkg/sensitivity"
)

// SensitivityScenarios returns the scenarios to evaluate: the defaults at
// the project's discount rate when enabled, followed by the custom ones.
func (c *Configuration) SensitivityScenarios() []sensitivity.Scenario {
	var scenarios []sensitivity.Scenario
	if c.Sensitivity.Defaults {
		scenarios = append(scenarios, sensitivity.DefaultScenarios(c.Project.DiscountRate)...)
	}
	for _, s := range c.Sensitivity.Scenarios {
		scenarios = append(scenarios, s.ToScenario(c.Project))
	}
	return scenarios
}

// ToScenario converts a configured scenario to a sensitivity.Scenario. An
// omitted discount rate or price takes the project's value, and omitted
// factors leave the baseline unchanged. Explicit zeros are kept.
func (s ScenarioConfig) ToScenario(p ProjectConfig) sensitivity.Scenario {
	price := p.UnitPrice
	if price <= 0 {
		price = constants.BaselineUnitPrice
	}
	return sensitivity.Scenario{
		Name:         s.Name,
		DiscountRate: valueOr(s.DiscountRate, p.DiscountRate),
		Price:        valueOr(s.Price, price),
		CostFactor:   valueOr(s.CostFactor, constants.UnchangedFactor),
		VolumeFactor: valueOr(s.VolumeFactor, constants.UnchangedFactor),
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// BreakEvenSettings converts the break-even bounds to optimizer settings.
// Unset bounds are filled with defaults by the optimizer.
func (c *Configuration) BreakEvenSettings() optimizer.Settings {
	return optimizer.Settings{
		MaxPrice:      c.BreakEven.MaxPrice,
		MaxVolume:     c.BreakEven.MaxVolume,
		Tolerance:     c.BreakEven.Tolerance,
		MaxIterations: c.BreakEven.MaxIterations,
	}
}
