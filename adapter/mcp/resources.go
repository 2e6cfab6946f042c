package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/digibank/internal/identity/application/queries"
)

// RegisterResources registers MCP resources that expose Digibank data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Resource("digibank://countries").
		Name("Countries").
		Description("Every known international dialing code with its Portuguese country name").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			svc, err := validationService(deps)
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, svc.Countries())
		})

	srv.Resource("digibank://users").
		Name("Users").
		Description("The first page of users, oldest first").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			users, err := deps.App.RequireUsers()
			if err != nil {
				return nil, err
			}
			page, err := users.List.Handle(ctx, queries.ListUsersQuery{Size: queries.MaxPageSize})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, page)
		})

	srv.Resource("digibank://users/inactive").
		Name("Inactive users").
		Description("The first page of deactivated users").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			users, err := deps.App.RequireUsers()
			if err != nil {
				return nil, err
			}
			active := false
			page, err := users.List.Handle(ctx, queries.ListUsersQuery{Size: queries.MaxPageSize, Active: &active})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, page)
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
