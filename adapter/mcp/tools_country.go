package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/digibank/internal/validation"
)

type countryLookupInput struct {
	AreaCode int `json:"area_code" jsonschema:"required"`
}

type countryCodeInput struct {
	Name string `json:"name" jsonschema:"required"`
}

func registerCountryTools(srv *mcp.Server, deps ToolDependencies) error {
	srv.Tool("country.lookup").
		Description("Resolve an international dialing code to a country name. Unknown codes resolve to \"País desconhecido\"").
		Handler(instrument(deps, "country.lookup", lookupCountry(deps)))

	srv.Tool("country.code").
		Description("Find the dialing code of a country by its exact Portuguese name").
		Handler(instrument(deps, "country.code", countryCode(deps)))

	srv.Tool("country.list").
		Description("List every known dialing code, sorted by code").
		Handler(instrument(deps, "country.list", listCountries(deps)))

	return nil
}

func lookupCountry(deps ToolDependencies) func(context.Context, countryLookupInput) (validation.CountryReport, error) {
	return func(ctx context.Context, input countryLookupInput) (validation.CountryReport, error) {
		svc, err := validationService(deps)
		if err != nil {
			return validation.CountryReport{}, err
		}
		return svc.Country(ctx, input.AreaCode), nil
	}
}

func countryCode(deps ToolDependencies) func(context.Context, countryCodeInput) (validation.CountryReport, error) {
	return func(ctx context.Context, input countryCodeInput) (validation.CountryReport, error) {
		svc, err := validationService(deps)
		if err != nil {
			return validation.CountryReport{}, err
		}
		return svc.AreaCode(ctx, input.Name)
	}
}

func listCountries(deps ToolDependencies) func(context.Context, struct{}) ([]validation.CountryReport, error) {
	return func(ctx context.Context, _ struct{}) ([]validation.CountryReport, error) {
		svc, err := validationService(deps)
		if err != nil {
			return nil, err
		}
		return svc.Countries(), nil
	}
}
