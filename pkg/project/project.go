// Package project defines the value objects the appraisal engine operates on:
// project parameters, cost and revenue items, and the period capabilities the
// engine reads them through.
package project

import (
	"errors"
	"fmt"

	"github.com/iwvelando/project-viability/pkg/constants"
)

// ErrInvalidHorizon is returned when a project is not evaluated over exactly
// constants.Horizon periods.
var ErrInvalidHorizon = errors.New("project horizon must be exactly 5 periods")

// ErrNegativeInvestment is returned when the initial investment is below zero.
var ErrNegativeInvestment = errors.New("initial investment cannot be negative")

// Periods holds one value per period, index 0 being the first period.
type Periods [constants.Horizon]float64

// Sum returns the total across all periods.
func (p Periods) Sum() float64 {
	total := 0.0
	for _, v := range p {
		total += v
	}
	return total
}

// Category classifies a cost item.
type Category string

const (
	CategoryFixed      Category = "fixed"
	CategoryVariable   Category = "variable"
	CategoryInvestment Category = "investment"
)

// ParseCategory maps a configured category to a Category. The Spanish labels
// used by older project files are accepted as aliases.
func ParseCategory(value string) (Category, error) {
	switch value {
	case "fixed", "fijo":
		return CategoryFixed, nil
	case "variable":
		return CategoryVariable, nil
	case "investment", "inversion":
		return CategoryInvestment, nil
	default:
		return "", fmt.Errorf("unknown cost category %q", value)
	}
}

// Parameters are the financial parameters of one project. Rates are decimal
// fractions (0.04 = 4%).
type Parameters struct {
	DiscountRate      float64
	TaxRate           float64
	Horizon           int
	InitialInvestment float64
	ProductionUnits   float64
	UnitPrice         float64
}

// Validate checks the invariants the engine relies on.
func (p Parameters) Validate() error {
	if p.Horizon != constants.Horizon {
		return fmt.Errorf("%w: got %d", ErrInvalidHorizon, p.Horizon)
	}
	if p.InitialInvestment < 0 {
		return fmt.Errorf("%w: got %.2f", ErrNegativeInvestment, p.InitialInvestment)
	}
	return nil
}

// Cost is anything exposing a per-period cost amount and a category.
type Cost interface {
	AmountAt(period int) float64
	CostCategory() Category
}

// Revenue is anything exposing a per-period revenue amount and, for periods
// 1..4, a recorded unit count (0 when unrecorded).
type Revenue interface {
	AmountAt(period int) float64
	UnitsAt(period int) int
}

// CostItem is a recorded cost line.
type CostItem struct {
	Name     string
	Category Category
	Amounts  Periods
	UnitCost *float64
}

// AmountAt returns the amount at the given 0-based period.
func (c CostItem) AmountAt(period int) float64 {
	if period < 0 || period >= constants.Horizon {
		return 0
	}
	return c.Amounts[period]
}

// CostCategory returns the item category.
func (c CostItem) CostCategory() Category {
	return c.Category
}

// RevenueItem is a recorded revenue line. Units holds the unit counts for
// periods 1..4; period 0 never carries a unit count.
type RevenueItem struct {
	Name    string
	Amounts Periods
	Units   [constants.Horizon - 1]int
}

// AmountAt returns the amount at the given 0-based period.
func (r RevenueItem) AmountAt(period int) float64 {
	if period < 0 || period >= constants.Horizon {
		return 0
	}
	return r.Amounts[period]
}

// UnitsAt returns the recorded unit count for period 1..4, or 0.
func (r RevenueItem) UnitsAt(period int) int {
	if period < 1 || period >= constants.Horizon {
		return 0
	}
	return r.Units[period-1]
}

// Project bundles everything one evaluation needs.
type Project struct {
	Name       string
	Parameters Parameters
	Costs      []Cost
	Revenues   []Revenue
}

// Costs converts cost items to the Cost capability.
func Costs(items ...CostItem) []Cost {
	costs := make([]Cost, 0, len(items))
	for _, item := range items {
		costs = append(costs, item)
	}
	return costs
}

// Revenues converts revenue items to the Revenue capability.
func Revenues(items ...RevenueItem) []Revenue {
	revenues := make([]Revenue, 0, len(items))
	for _, item := range items {
		revenues = append(revenues, item)
	}
	return revenues
}

// Flat returns a Periods value with the same amount in every period.
func Flat(amount float64) Periods {
	var p Periods
	for k := range p {
		p[k] = amount
	}
	return p
}
