// Package constants provides shared constants for the project-viability application.
package constants

import "time"

// Horizon is the number of periods every project is evaluated over.
const Horizon = 5

// Rounding precision for reported indicators.
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// MoneyDecimals is the number of decimals used for NPV, payback and profits
	MoneyDecimals = 2

	// RatioDecimals is the number of decimals used for IRR, PI, B/C and ROI
	RatioDecimals = 4
)

// IRR bisection parameters.
const (
	// IRRLowerBound is the lowest rate the solver will consider (-99%)
	IRRLowerBound = -0.99

	// IRRUpperBound is the highest rate the solver will consider (1000%)
	IRRUpperBound = 10.0

	// IRRTolerance is the NPV magnitude accepted as a root
	IRRTolerance = 0.0001

	// IRRBracketWidth stops the search once the bracket is this narrow
	IRRBracketWidth = IRRTolerance / 100

	// IRRMaxIterations bounds the bisection loop
	IRRMaxIterations = 1000
)

// Narrative thresholds, expressed in percent.
const (
	// HighlyAttractiveIRRPercent is the IRR above which a project is highly attractive
	HighlyAttractiveIRRPercent = 20.0

	// AttractiveIRRPercent is the IRR above which a project is attractive with reservations
	AttractiveIRRPercent = 10.0
)

// Sensitivity defaults.
const (
	// FallbackBaselineUnits is used when neither the unit price nor the
	// period-1 unit count can provide baseline units for a revenue item.
	FallbackBaselineUnits = 30

	// BaselineUnitPrice is the BASE scenario price, also used for custom
	// scenarios without a price when the project has no unit price
	BaselineUnitPrice = 1.50

	// UnchangedFactor is the percent factor that leaves a baseline untouched
	UnchangedFactor = 100.0

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Break-even solver defaults.
const (
	DefaultBreakEvenMaxPrice      = 100.0
	DefaultBreakEvenMaxVolume     = 1000.0
	DefaultBreakEvenTolerance     = 0.0001
	DefaultBreakEvenMaxIterations = 200
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default project file name
	DefaultConfigFile = "project.yaml"

	// ExampleConfigFile is the example project file name
	ExampleConfigFile = "project.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML projects (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultReadHeaderTimeout bounds how long a client may take to send headers
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown
	DefaultShutdownTimeout = 15 * time.Second
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// SuspiciousRate is the rate above which a decimal rate was probably
	// entered as a percentage.
	SuspiciousRate = 1.0
)
