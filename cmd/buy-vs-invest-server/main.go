package main

import (
	"flag"
	"fmt"
	"net/http"

	"github.com/iwvelando/buy-vs-invest/internal/config"
	"github.com/iwvelando/buy-vs-invest/internal/logging"
	"github.com/iwvelando/buy-vs-invest/internal/server"
	"github.com/iwvelando/buy-vs-invest/pkg/constants"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	envFile := flag.String("env-file", constants.DefaultEnvFile, "optional dotenv file loaded before the configuration")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	devMode := flag.Bool("dev", false, "audit every computed schedule")
	flag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		logging.Fatalf("main", fmt.Sprintf("failed to load env file %s", *envFile), err)
	}

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		logging.Fatalf("main", fmt.Sprintf("failed to load server configuration at %s", *configLocation), err)
	}
	if *address != "" {
		cfg.Address = *address
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		logging.Fatalf("main", "failed to initialize logger", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	handler := server.NewHandler(logger, cfg.MaxRequestSize, version, *devMode || cfg.DevMode)

	logger.Info("starting server",
		zap.String("op", "main"),
		zap.String("address", cfg.Address),
		zap.Int64("maxRequestSize", cfg.MaxRequestSize),
		zap.String("version", version),
	)
	if err := http.ListenAndServe(cfg.Address, handler); err != nil {
		logger.Fatal("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
