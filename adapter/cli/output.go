package cli

import (
	"encoding/json"
	"errors"
	"io"

	identity "github.com/felixgeelhaar/digibank/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidInput = 2
	ExitNotFound     = 3
)

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case sharedDomain.IsValidationError(err):
		return ExitInvalidInput
	case errors.Is(err, identity.ErrUserNotFound), errors.Is(err, identity.ErrCountryNotFound):
		return ExitNotFound
	default:
		return ExitFailure
	}
}

// JSONOutput reports whether --json was given.
func JSONOutput() bool {
	return jsonOutput
}

// SetJSONOutput overrides --json.
func SetJSONOutput(v bool) {
	jsonOutput = v
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
