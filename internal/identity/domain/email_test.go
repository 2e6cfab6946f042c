package domain_test

import (
	"strings"
	"testing"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "test@domain.com"},
		{name: "dotted local part", input: "john.doe@email.com"},
		{name: "unicode letters", input: "joão.silva@exemplo.com.br"},
		{name: "hyphen and underscore", input: "first_last-1@my-bank.com"},
		{name: "kept as typed", input: "Maria@Banco.COM"},
		{name: "empty", input: "", wantErr: true},
		{name: "missing tld", input: "invalid-email@domain", wantErr: true},
		{name: "missing at", input: "userdomain.com", wantErr: true},
		{name: "leading hyphen in domain", input: "user@-domain.com", wantErr: true},
		{name: "single letter tld", input: "user@domain.c", wantErr: true},
		{name: "plus sign", input: "user+tag@domain.com", wantErr: true},
		{name: "surrounding spaces", input: " user@domain.com ", wantErr: true},
		{name: "empty local part", input: "@domain.com", wantErr: true},
		{name: "local part too long", input: strings.Repeat("a", 65) + "@domain.com", wantErr: true},
		{name: "local part at limit", input: strings.Repeat("a", 64) + "@domain.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := domain.NewEmail(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, sharedDomain.ErrInvalidEmail)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, email.String())
		})
	}
}

func TestEmail_Domain(t *testing.T) {
	email, err := domain.NewEmail("test@domain.com")
	require.NoError(t, err)

	assert.Equal(t, "domain.com", email.Domain())
	assert.Equal(t, "", domain.Email{}.Domain())
}
