package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/adapter/cli/country"
	cliMCP "github.com/felixgeelhaar/digibank/adapter/cli/mcp"
	"github.com/felixgeelhaar/digibank/adapter/cli/user"
	"github.com/felixgeelhaar/digibank/adapter/cli/validate"
	"github.com/felixgeelhaar/digibank/internal/app"
	mcpinternal "github.com/felixgeelhaar/digibank/internal/mcp"
	"github.com/felixgeelhaar/digibank/internal/validation"
	"github.com/felixgeelhaar/digibank/pkg/config"
	"github.com/felixgeelhaar/digibank/pkg/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	logger := observability.NewLogger(observability.DefaultLogConfig())

	cfg, err := config.Load()
	if err != nil {
		// Validation commands work without any configuration
		logger.Warn("failed to load config, running validation only", "error", err)
		cfg = &config.Config{AppEnv: "development", ActorID: "system"}
	} else {
		logCfg := observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version)
		logCfg.Output = os.Stderr
		logger = observability.NewLogger(logCfg)
	}
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(cli.ExitFailure)
		}
		logger.Warn("failed to initialize container, user commands disabled", "error", err)
		cliApp = cli.NewApp(validation.NewService(nil, logger), cfg.ActorID)
	} else {
		defer container.Close()

		if cfg.OutboxProcessorEnabled {
			go container.OutboxProcessor.Start(ctx)
		} else {
			logger.Info("outbox processor disabled in CLI")
		}

		cliApp = mcpinternal.NewCLIApp(container, cfg.ActorID)
	}

	cli.SetApp(cliApp)

	cli.AddCommand(validate.Cmd)
	cli.AddCommand(country.Cmd)
	cli.AddCommand(user.Cmd)
	cli.AddCommand(cliMCP.Cmd)

	cli.Execute(ctx)
}
