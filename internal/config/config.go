// Package config defines the data structures related to configuration and
// includes functions for loading, parsing and validating the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/project-viability/pkg/constants"
	"github.com/iwvelando/project-viability/pkg/project"
	"github.com/iwvelando/project-viability/pkg/validation"
	"github.com/spf13/viper"
)

// ErrInvalidConfiguration is wrapped by every hard validation failure.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Configuration holds all configuration for one project evaluation.
type Configuration struct {
	Project     ProjectConfig     `yaml:"project"`
	Costs       []Cost            `yaml:"costs"`
	Revenues    []Revenue         `yaml:"revenues"`
	Sensitivity SensitivityConfig `yaml:"sensitivity,omitempty"`
	BreakEven   BreakEvenConfig   `yaml:"breakEven,omitempty"`
	Logging     LoggingConfig     `yaml:"logging,omitempty"`
	Output      OutputConfig      `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// ProjectConfig holds the financial parameters of the project. Rates are
// decimal fractions.
type ProjectConfig struct {
	Name              string  `yaml:"name"`
	DiscountRate      float64 `yaml:"discountRate"`
	TaxRate           float64 `yaml:"taxRate"`
	Periods           int     `yaml:"periods"`
	InitialInvestment float64 `yaml:"initialInvestment"`
	ProductionUnits   float64 `yaml:"productionUnits,omitempty"`
	UnitPrice         float64 `yaml:"unitPrice,omitempty"`
}

// Cost is a configured cost line with one amount per period.
type Cost struct {
	Name     string    `yaml:"name"`
	Category string    `yaml:"category"` // fixed, variable, investment
	Amounts  []float64 `yaml:"amounts"`
	UnitCost *float64  `yaml:"unitCost,omitempty"`
}

// Revenue is a configured revenue line. Units are optional and cover
// periods 1..4 only.
type Revenue struct {
	Name    string    `yaml:"name"`
	Amounts []float64 `yaml:"amounts"`
	Units   []int     `yaml:"units,omitempty"`
}

// SensitivityConfig controls which scenarios are evaluated.
type SensitivityConfig struct {
	Defaults  bool             `yaml:"defaults"`
	Scenarios []ScenarioConfig `yaml:"scenarios,omitempty"`
}

// ScenarioConfig is a custom what-if scenario. Factors are percentages of
// the baseline. Omitted fields fall back to the project's values, see
// ToScenario.
type ScenarioConfig struct {
	Name         string   `yaml:"name"`
	DiscountRate *float64 `yaml:"discountRate,omitempty"`
	Price        *float64 `yaml:"price,omitempty"`
	CostFactor   *float64 `yaml:"costFactor,omitempty"`
	VolumeFactor *float64 `yaml:"volumeFactor,omitempty"`
}

// BreakEvenConfig enables and bounds the break-even search.
type BreakEvenConfig struct {
	Enabled       bool    `yaml:"enabled"`
	MaxPrice      float64 `yaml:"maxPrice,omitempty"`
	MaxVolume     float64 `yaml:"maxVolume,omitempty"`
	Tolerance     float64 `yaml:"tolerance,omitempty"`
	MaxIterations int     `yaml:"maxIterations,omitempty"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetDefault("project.periods", constants.Horizon)
	v.SetDefault("sensitivity.defaults", true)
	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML (or JSON) configuration from r.
// Each call uses its own viper instance, so concurrent loads are safe.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// Validate reports the first hard violation: a horizon other than
// constants.Horizon, amount lists of the wrong length, too many unit counts,
// an unknown cost category or a negative initial investment.
func (c *Configuration) Validate() error {
	if c.Project.Periods != constants.Horizon {
		return fmt.Errorf("%w: %w: got %d", ErrInvalidConfiguration, project.ErrInvalidHorizon, c.Project.Periods)
	}
	if c.Project.InitialInvestment < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, project.ErrNegativeInvestment)
	}

	for i, cost := range c.Costs {
		label := itemLabel("cost", i, cost.Name)
		if len(cost.Amounts) != constants.Horizon {
			return fmt.Errorf("%w: %s has %d amounts, expected %d", ErrInvalidConfiguration, label, len(cost.Amounts), constants.Horizon)
		}
		if _, err := project.ParseCategory(strings.ToLower(strings.TrimSpace(cost.Category))); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfiguration, label, err)
		}
	}

	for i, revenue := range c.Revenues {
		label := itemLabel("revenue", i, revenue.Name)
		if len(revenue.Amounts) != constants.Horizon {
			return fmt.Errorf("%w: %s has %d amounts, expected %d", ErrInvalidConfiguration, label, len(revenue.Amounts), constants.Horizon)
		}
		if len(revenue.Units) > constants.Horizon-1 {
			return fmt.Errorf("%w: %s has %d unit counts, at most %d allowed", ErrInvalidConfiguration, label, len(revenue.Units), constants.Horizon-1)
		}
	}

	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		Project: validation.ProjectConfig{
			Name:              c.Project.Name,
			DiscountRate:      c.Project.DiscountRate,
			TaxRate:           c.Project.TaxRate,
			InitialInvestment: c.Project.InitialInvestment,
			UnitPrice:         c.Project.UnitPrice,
		},
		RevenueCount: len(c.Revenues),
	}
	for i, cost := range c.Costs {
		validator.Items = append(validator.Items, validation.ItemConfig{Label: itemLabel("cost", i, cost.Name), Amounts: cost.Amounts})
	}
	for i, revenue := range c.Revenues {
		validator.Items = append(validator.Items, validation.ItemConfig{Label: itemLabel("revenue", i, revenue.Name), Amounts: revenue.Amounts})
	}
	for _, scenario := range c.Sensitivity.Scenarios {
		resolved := scenario.ToScenario(c.Project)
		validator.Scenarios = append(validator.Scenarios, validation.ScenarioConfig{
			Name:         resolved.Name,
			DiscountRate: resolved.DiscountRate,
			Price:        resolved.Price,
			CostFactor:   resolved.CostFactor,
			VolumeFactor: resolved.VolumeFactor,
		})
	}

	return validator.ValidateAll()
}

func itemLabel(kind string, index int, name string) string {
	if name == "" {
		return fmt.Sprintf("%s #%d", kind, index+1)
	}
	return fmt.Sprintf("%s '%s'", kind, name)
}
