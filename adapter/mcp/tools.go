package mcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/pkg/observability"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App     *cli.App
	Logger  *slog.Logger
	Metrics *observability.Metrics
	Version string
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	if err := registerSystemTools(srv, deps); err != nil {
		return err
	}
	if err := registerValidationTools(srv, deps); err != nil {
		return err
	}
	if err := registerCountryTools(srv, deps); err != nil {
		return err
	}
	if err := registerUserTools(srv, deps); err != nil {
		return err
	}

	return nil
}

type healthOutput struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	UsersEnabled bool   `json:"users_enabled"`
}

func registerSystemTools(srv *mcp.Server, deps ToolDependencies) error {
	srv.Tool("cli.health").
		Description("Report whether the server is up and which tools are backed by a database").
		Handler(func(ctx context.Context, _ struct{}) (healthOutput, error) {
			_, err := deps.App.RequireUsers()
			return healthOutput{
				Status:       "ok",
				Version:      deps.Version,
				UsersEnabled: err == nil,
			}, nil
		})
	return nil
}

// instrument runs fn under a fresh request context and records its duration
// and outcome as the named operation.
func instrument[In, Out any](deps ToolDependencies, operation string, fn func(context.Context, In) (Out, error)) func(context.Context, In) (Out, error) {
	return func(ctx context.Context, input In) (Out, error) {
		ctx = observability.NewRequestContext(ctx, observability.CorrelationIDFromContext(ctx))
		return observability.TimeOperationResult(ctx, deps.Logger, deps.Metrics, "mcp."+operation, func() (Out, error) {
			return fn(ctx, input)
		})
	}
}
