package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/appcfg/internal/application"
	"github.com/eugenenazirov/appcfg/internal/config"
	"github.com/eugenenazirov/appcfg/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "appcfg: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	kingpinApp := kingpin.New("appcfg", "Resolve the environment-specific configuration of a Go project")
	caller := kingpinApp.Arg("caller", "Source file, directory or import path whose config to resolve").String()
	format := kingpinApp.Flag("format", "Output format (yaml or json)").Enum(config.FormatYAML, config.FormatJSON)
	logLevel := kingpinApp.Flag("log-level", "Level of diagnostics written to stderr").String()
	envFiles := kingpinApp.Flag("env-file", "Dotenv file to load before resolving (repeatable)").Strings()
	var tomlSet, watchSet bool
	toml := kingpinApp.Flag("toml", "Also look for .toml config files").IsSetByUser(&tomlSet).Bool()
	watch := kingpinApp.Flag("watch", "Print the config again whenever a config file changes").IsSetByUser(&watchSet).Bool()
	reloadInterval := kingpinApp.Flag("reload-interval", "Minimum time between reloads in watch mode").Duration()

	if _, err := kingpinApp.Parse(args); err != nil {
		return err
	}

	overrides := &config.CLIOverrides{
		EnvFiles: *envFiles,
	}

	if *caller != "" {
		overrides.Caller = caller
	}

	if *format != "" {
		overrides.Format = format
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if tomlSet {
		overrides.TOML = toml
	}

	if watchSet {
		overrides.Watch = watch
	}

	if *reloadInterval > 0 {
		overrides.ReloadInterval = reloadInterval
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	logger, err := logging.NewAtLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger, stdout)
	if err != nil {
		return err
	}

	ctx, cancel := withShutdown(context.Background(), logger)
	defer cancel()

	return app.Run(ctx)
}

// withShutdown returns a context cancelled on SIGINT or SIGTERM.
func withShutdown(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-quit:
			logger.Info("shutting down", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(quit)
	}()

	return ctx, cancel
}
