// Package adapters provides adapter implementations between different package interfaces.
package adapters

import (
	"fmt"
	"strings"

	"github.com/iwvelando/project-viability/internal/config"
	"github.com/iwvelando/project-viability/pkg/constants"
	"github.com/iwvelando/project-viability/pkg/project"
)

// ConfigCostAdapter wraps config.Cost to implement project.Cost
type ConfigCostAdapter struct {
	Cost     config.Cost
	Category project.Category
}

// AmountAt returns the configured amount for the period, or 0 when absent
func (w ConfigCostAdapter) AmountAt(period int) float64 {
	return amountAt(w.Cost.Amounts, period)
}

// CostCategory returns the parsed cost category
func (w ConfigCostAdapter) CostCategory() project.Category {
	return w.Category
}

// ConfigRevenueAdapter wraps config.Revenue to implement project.Revenue
type ConfigRevenueAdapter struct {
	Revenue config.Revenue
}

// AmountAt returns the configured amount for the period, or 0 when absent
func (w ConfigRevenueAdapter) AmountAt(period int) float64 {
	return amountAt(w.Revenue.Amounts, period)
}

// UnitsAt returns the configured units for periods 1..4, or 0
func (w ConfigRevenueAdapter) UnitsAt(period int) int {
	if period < 1 || period >= constants.Horizon || period > len(w.Revenue.Units) {
		return 0
	}
	return w.Revenue.Units[period-1]
}

func amountAt(amounts []float64, period int) float64 {
	if period < 0 || period >= len(amounts) || period >= constants.Horizon {
		return 0
	}
	return amounts[period]
}

// CostsToProjectCosts converts config.Cost slices to project.Cost slices
func CostsToProjectCosts(costs []config.Cost) ([]project.Cost, error) {
	if costs == nil {
		return nil, nil
	}

	projectCosts := make([]project.Cost, 0, len(costs))
	for _, cost := range costs {
		category, err := project.ParseCategory(strings.ToLower(strings.TrimSpace(cost.Category)))
		if err != nil {
			return nil, fmt.Errorf("cost %s: %w", cost.Name, err)
		}
		projectCosts = append(projectCosts, ConfigCostAdapter{Cost: cost, Category: category})
	}
	return projectCosts, nil
}

// RevenuesToProjectRevenues converts config.Revenue slices to project.Revenue slices
func RevenuesToProjectRevenues(revenues []config.Revenue) []project.Revenue {
	if revenues == nil {
		return nil
	}

	projectRevenues := make([]project.Revenue, 0, len(revenues))
	for _, revenue := range revenues {
		projectRevenues = append(projectRevenues, ConfigRevenueAdapter{Revenue: revenue})
	}
	return projectRevenues
}

// ParametersFromConfig converts the project section to project.Parameters
func ParametersFromConfig(p config.ProjectConfig) project.Parameters {
	return project.Parameters{
		DiscountRate:      p.DiscountRate,
		TaxRate:           p.TaxRate,
		Horizon:           p.Periods,
		InitialInvestment: p.InitialInvestment,
		ProductionUnits:   p.ProductionUnits,
		UnitPrice:         p.UnitPrice,
	}
}

// ToProject validates the configuration and assembles the project it
// describes.
func ToProject(conf *config.Configuration) (project.Project, error) {
	if conf == nil {
		return project.Project{}, fmt.Errorf("configuration cannot be nil")
	}
	if err := conf.Validate(); err != nil {
		return project.Project{}, err
	}

	costs, err := CostsToProjectCosts(conf.Costs)
	if err != nil {
		return project.Project{}, err
	}

	return project.Project{
		Name:       conf.Project.Name,
		Parameters: ParametersFromConfig(conf.Project),
		Costs:      costs,
		Revenues:   RevenuesToProjectRevenues(conf.Revenues),
	}, nil
}
