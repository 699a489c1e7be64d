package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/buy-vs-invest/internal/config"
	"github.com/iwvelando/buy-vs-invest/internal/logging"
	"github.com/iwvelando/buy-vs-invest/internal/scenario"
	"github.com/iwvelando/buy-vs-invest/pkg/constants"
	"github.com/iwvelando/buy-vs-invest/pkg/output"
	"github.com/iwvelando/buy-vs-invest/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	envFile := flag.String("env-file", constants.DefaultEnvFile, "optional dotenv file loaded before the configuration")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	devMode := flag.Bool("dev", false, "run the schedule sanity audit")
	flag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		logging.Fatalf("main", fmt.Sprintf("failed to load env file %s", *envFile), err)
	}

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		logging.Fatalf("main", fmt.Sprintf("failed to load configuration at %s", *configLocation), err)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		logging.Fatalf("main", "failed to initialize logger", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if *devMode {
		conf.Audit.DevMode = true
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	results, err := scenario.Run(logger, *conf)
	if err != nil {
		logger.Fatal("failed to evaluate scenarios",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, results, conf.Output.MaxRowsOrDefault())
	case constants.OutputFormatCSV:
		if err := output.CsvFormat(os.Stdout, results); err != nil {
			logger.Fatal("failed to write CSV output",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}
