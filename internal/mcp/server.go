package mcp

import (
	"context"
	"errors"
	"log/slog"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	mcplocal "github.com/felixgeelhaar/digibank/adapter/mcp"
	"github.com/felixgeelhaar/digibank/pkg/config"
	"github.com/felixgeelhaar/digibank/pkg/observability"
)

// ServerName identifies the MCP server to clients.
const ServerName = "digibank-mcp"

// Serve registers the Digibank tools, resources and prompts on a new MCP
// server and serves it over HTTP until ctx is done.
func Serve(ctx context.Context, cfg *config.Config, cliApp *cli.App, metrics *observability.Metrics, version string, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if cliApp == nil {
		return errors.New("digibank app is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv := mcpgo.NewServer(mcpgo.ServerInfo{
		Name:    ServerName,
		Version: version,
		Capabilities: mcpgo.Capabilities{
			Tools:     true,
			Resources: true,
			Prompts:   true,
		},
	})

	deps := mcplocal.ToolDependencies{
		App:     cliApp,
		Logger:  logger,
		Metrics: metrics,
		Version: version,
	}

	if err := mcplocal.RegisterCLITools(srv, deps); err != nil {
		return err
	}

	if err := mcplocal.RegisterResources(srv, deps); err != nil {
		logger.Warn("mcp resources unavailable", "error", err)
	}

	if err := mcplocal.RegisterPrompts(srv, deps); err != nil {
		logger.Warn("mcp prompts unavailable", "error", err)
	}

	logger.Info("mcp server listening", "addr", cfg.MCPAddr, "authenticated", cfg.MCPAuthToken != "")
	stack := middlewareStack(cfg.MCPAuthToken, cliApp.Actor, logger)
	return mcpgo.ServeHTTPWithMiddleware(ctx, srv, cfg.MCPAddr, nil, mcpgo.WithMiddleware(stack...))
}

// middlewareStack prepends bearer auth to the default stack when a token is
// configured. Every authenticated request acts as actor.
func middlewareStack(token, actor string, logger *slog.Logger) []middleware.Middleware {
	adapter := mcpLogger{logger: logger}
	stack := middleware.DefaultStack(adapter)
	if token == "" {
		logger.Warn("MCP_AUTH_TOKEN not set; tools are reachable without credentials")
		return stack
	}

	identities := middleware.StaticTokens(map[string]*middleware.Identity{
		token: {ID: actor, Name: actor},
	})
	auth := middleware.Auth(middleware.BearerTokenAuthenticator(identities), middleware.WithAuthLogger(adapter))
	return append([]middleware.Middleware{auth}, stack...)
}

type mcpLogger struct {
	logger *slog.Logger
}

func (l mcpLogger) Info(msg string, fields ...middleware.Field) {
	l.logger.Info(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Error(msg string, fields ...middleware.Field) {
	l.logger.Error(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Debug(msg string, fields ...middleware.Field) {
	l.logger.Debug(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Warn(msg string, fields ...middleware.Field) {
	l.logger.Warn(msg, fieldsToArgs(fields)...)
}

func fieldsToArgs(fields []middleware.Field) []any {
	args := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		args = append(args, field.Key, field.Value)
	}
	return args
}
