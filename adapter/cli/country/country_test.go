package country

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/digibank/adapter/cli"
	identity "github.com/felixgeelhaar/digibank/internal/identity/domain"
	"github.com/felixgeelhaar/digibank/internal/validation"
)

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	cli.SetApp(cli.NewApp(validation.NewService(nil, nil), "tester"))
	t.Cleanup(func() { cli.SetApp(nil) })

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return buf.String(), err
}

func TestLookupCmd(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"55", "Brasil"},
		{"351", "Portugal"},
		{"999", identity.UnknownCountry},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			out, err := run(t, lookupCmd, tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, strings.TrimSpace(out))
		})
	}

	t.Run("non numeric", func(t *testing.T) {
		_, err := run(t, lookupCmd, "BR")
		assert.Error(t, err)
	})
}

func TestCodeCmd(t *testing.T) {
	out, err := run(t, codeCmd, "Brasil")
	require.NoError(t, err)
	assert.Equal(t, "55", strings.TrimSpace(out))

	_, err = run(t, codeCmd, "Atlântida")
	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrCountryNotFound)
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
}

func TestListCmd(t *testing.T) {
	out, err := run(t, listCmd)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 1)
	assert.Contains(t, lines[0], "CODE")
	assert.Contains(t, out, "+55")
	assert.Contains(t, out, "Reino Unido")
}
