// Package constants provides shared constants for the buy-vs-invest application.
package constants

// Numeric constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// WorkingScale is the number of fractional digits kept for intermediate
	// products such as interest and the annuity installment.
	WorkingScale int32 = 18

	// PowerScale is the number of fractional digits kept while raising the
	// growth factor to the term length.
	PowerScale int32 = 30

	// DisplayScale is the number of fractional digits used to render currency.
	DisplayScale int32 = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = "0.01"
)

// Audit thresholds, expressed as total interest over principal.
const (
	// MinInterestRatioConstantPrincipal is the lowest plausible ratio for SAC schedules.
	MinInterestRatioConstantPrincipal = "0.05"

	// MinInterestRatioConstantInstallment is the lowest plausible ratio for Price schedules.
	MinInterestRatioConstantInstallment = "0.10"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// DefaultMaxRows is the number of schedule rows printed by the pretty format.
	DefaultMaxRows = 120
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultEnvFile is the optional dotenv file loaded before configuration.
	DefaultEnvFile = ".env"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "BUYVSINVEST"

	// ServerEnvPrefix is the prefix for server configuration overrides.
	ServerEnvPrefix = EnvPrefix + "_SERVER"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxRequestSizeBytes int64 = 256 * 1024

	// RequestIDHeader carries the request identifier on every response.
	RequestIDHeader = "X-Request-ID"
)
