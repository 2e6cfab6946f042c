package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var birthDate = time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC)

func newTestUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.CreateUser(
		"John Doe", "hash", "john.doe@email.com", "12345678909",
		"+55 (31) 12345-6789", birthDate, domain.RoleUser,
	)
	require.NoError(t, err)
	return user
}

func TestCreateUser(t *testing.T) {
	user := newTestUser(t)

	assert.Equal(t, "John Doe", user.Name())
	assert.Equal(t, "hash", user.PasswordHash())
	assert.Equal(t, "john.doe@email.com", user.Email().String())
	assert.Equal(t, "12345678909", user.NationalID().String())
	assert.Equal(t, "5531123456789", user.Phone().String())
	assert.Equal(t, birthDate, user.BirthDate())
	assert.True(t, user.IsActive())
	assert.Equal(t, domain.RoleUser, user.Role())
	assert.Nil(t, user.LastLogin())

	events := user.DomainEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(*domain.UserCreated)
	require.True(t, ok)
	assert.Equal(t, domain.RoutingKeyUserCreated, created.RoutingKey())
	assert.Equal(t, user.ID(), created.AggregateID())
	assert.Contains(t, created.Description(), user.ID().String())
}

func TestCreateUser_PropagatesValueObjectErrors(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		nationalID string
		phone      string
		role       domain.Role
		kind       error
	}{
		{name: "email", email: "bad", nationalID: "12345678909", phone: "+55 (31) 12345-6789", role: domain.RoleUser, kind: sharedDomain.ErrInvalidEmail},
		{name: "national id", email: "a.b@email.com", nationalID: "12345678900", phone: "+55 (31) 12345-6789", role: domain.RoleUser, kind: sharedDomain.ErrInvalidNationalID},
		{name: "phone", email: "a.b@email.com", nationalID: "12345678909", phone: "31 12345-6789", role: domain.RoleUser, kind: sharedDomain.ErrInvalidPhone},
		{name: "role", email: "a.b@email.com", nationalID: "12345678909", phone: "+55 (31) 12345-6789", role: "ROOT", kind: sharedDomain.ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := domain.CreateUser("Jane", "hash", tt.email, tt.nationalID, tt.phone, birthDate, tt.role)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestUser_Update(t *testing.T) {
	user := newTestUser(t)
	user.ClearDomainEvents()
	newBirth := birthDate.AddDate(1, 0, 0)

	err := user.Update("John Smith", "john.smith@email.com", "529.982.247-25", "+55 (11) 9999-8888", newBirth)
	require.NoError(t, err)

	assert.Equal(t, "John Smith", user.Name())
	assert.Equal(t, "john.smith@email.com", user.Email().String())
	assert.Equal(t, "52998224725", user.NationalID().String())
	assert.Equal(t, "551199998888", user.Phone().String())
	assert.Equal(t, newBirth, user.BirthDate())

	events := user.DomainEvents()
	require.Len(t, events, 1)
	updated, ok := events[0].(*domain.UserUpdated)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{
		domain.FieldName, domain.FieldEmail, domain.FieldNationalID, domain.FieldPhone, domain.FieldBirthDate,
	}, updated.Fields)
}

func TestUser_Update_RejectsBlankValues(t *testing.T) {
	tests := []struct {
		name       string
		userName   string
		email      string
		nationalID string
		phone      string
		birth      time.Time
	}{
		{name: "name", userName: "", email: "x.y@email.com", nationalID: "12345678909", phone: "+55 (31) 12345-6789", birth: birthDate},
		{name: "email", userName: "X", email: " ", nationalID: "12345678909", phone: "+55 (31) 12345-6789", birth: birthDate},
		{name: "national id", userName: "X", email: "x.y@email.com", nationalID: "", phone: "+55 (31) 12345-6789", birth: birthDate},
		{name: "phone", userName: "X", email: "x.y@email.com", nationalID: "12345678909", phone: "", birth: birthDate},
		{name: "birth date", userName: "X", email: "x.y@email.com", nationalID: "12345678909", phone: "+55 (31) 12345-6789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := newTestUser(t)
			before := user.Snapshot()

			err := user.Update(tt.userName, tt.email, tt.nationalID, tt.phone, tt.birth)

			require.ErrorIs(t, err, sharedDomain.ErrInvalidField)
			assert.Contains(t, err.Error(), "cannot update with null or empty values")
			assert.Equal(t, before, user.Snapshot())
		})
	}
}

func TestUser_Update_IsAtomic(t *testing.T) {
	user := newTestUser(t)
	before := user.Snapshot()

	err := user.Update("New Name", "not-an-email", "52998224725", "+55 (11) 9999-8888", birthDate)

	assert.ErrorIs(t, err, sharedDomain.ErrInvalidEmail)
	assert.Equal(t, before, user.Snapshot())
}

func TestUser_Update_NoChanges(t *testing.T) {
	user := newTestUser(t)
	user.ClearDomainEvents()

	err := user.Update("John Doe", "john.doe@email.com", "123.456.789-09", "+55 (31) 12345-6789", birthDate)

	require.NoError(t, err)
	assert.Empty(t, user.DomainEvents())
}

func TestUser_ChangeFields(t *testing.T) {
	tests := []struct {
		name       string
		change     func(u *domain.User) error
		field      string
		routingKey string
		check      func(t *testing.T, u *domain.User)
	}{
		{
			name:       "email",
			change:     func(u *domain.User) error { return u.ChangeEmail("new.mail@email.com") },
			field:      domain.FieldEmail,
			routingKey: domain.RoutingKeyUserEmailChanged,
			check: func(t *testing.T, u *domain.User) {
				assert.Equal(t, "new.mail@email.com", u.Email().String())
			},
		},
		{
			name:       "phone",
			change:     func(u *domain.User) error { return u.ChangePhone("+55 (21) 98888-7777") },
			field:      domain.FieldPhone,
			routingKey: domain.RoutingKeyUserPhoneChanged,
			check: func(t *testing.T, u *domain.User) {
				assert.Equal(t, "5521988887777", u.Phone().String())
			},
		},
		{
			name:       "national id",
			change:     func(u *domain.User) error { return u.ChangeNationalID("322.034.780-04") },
			field:      domain.FieldNationalID,
			routingKey: domain.RoutingKeyUserNationalIDChanged,
			check: func(t *testing.T, u *domain.User) {
				assert.Equal(t, "32203478004", u.NationalID().String())
			},
		},
		{
			name:       "birth date",
			change:     func(u *domain.User) error { return u.ChangeBirthDate(birthDate.AddDate(0, 0, 1)) },
			field:      domain.FieldBirthDate,
			routingKey: domain.RoutingKeyUserBirthDateChanged,
			check: func(t *testing.T, u *domain.User) {
				assert.Equal(t, birthDate.AddDate(0, 0, 1), u.BirthDate())
			},
		},
		{
			name:       "password",
			change:     func(u *domain.User) error { return u.ChangePassword("new-hash") },
			field:      domain.FieldPassword,
			routingKey: domain.RoutingKeyUserPasswordChanged,
			check: func(t *testing.T, u *domain.User) {
				assert.Equal(t, "new-hash", u.PasswordHash())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := newTestUser(t)
			user.ClearDomainEvents()

			require.NoError(t, tt.change(user))
			tt.check(t, user)

			events := user.DomainEvents()
			require.Len(t, events, 1)
			changed, ok := events[0].(*domain.UserFieldChanged)
			require.True(t, ok)
			assert.Equal(t, tt.field, changed.Field)
			assert.Equal(t, tt.routingKey, changed.RoutingKey())
		})
	}
}

func TestUser_ChangeFields_RejectBlank(t *testing.T) {
	user := newTestUser(t)
	before := user.Snapshot()

	assert.ErrorIs(t, user.ChangeEmail(""), sharedDomain.ErrInvalidField)
	assert.ErrorIs(t, user.ChangePhone(" "), sharedDomain.ErrInvalidField)
	assert.ErrorIs(t, user.ChangeNationalID(""), sharedDomain.ErrInvalidField)
	assert.ErrorIs(t, user.ChangeBirthDate(time.Time{}), sharedDomain.ErrInvalidField)
	assert.ErrorIs(t, user.ChangePassword(""), sharedDomain.ErrInvalidField)

	assert.Equal(t, before, user.Snapshot())
}

func TestUser_ChangeFields_RejectInvalid(t *testing.T) {
	user := newTestUser(t)
	before := user.Snapshot()

	assert.ErrorIs(t, user.ChangeEmail("nope"), sharedDomain.ErrInvalidEmail)
	assert.ErrorIs(t, user.ChangePhone("31 12345-6789"), sharedDomain.ErrInvalidPhone)
	assert.ErrorIs(t, user.ChangeNationalID("11111111111"), sharedDomain.ErrInvalidNationalID)

	assert.Equal(t, before, user.Snapshot())
}

func TestUser_ActivateDeactivate(t *testing.T) {
	user := newTestUser(t)
	user.ClearDomainEvents()

	user.Activate()
	assert.True(t, user.IsActive())
	assert.Empty(t, user.DomainEvents())

	user.Deactivate()
	user.Deactivate()
	assert.False(t, user.IsActive())
	assert.False(t, user.Enabled())

	user.Activate()
	assert.True(t, user.IsActive())

	events := user.DomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, domain.RoutingKeyUserDeactivated, events[0].RoutingKey())
	assert.Equal(t, domain.RoutingKeyUserActivated, events[1].RoutingKey())
}

func TestUser_RecordLogin(t *testing.T) {
	user := newTestUser(t)
	user.ClearDomainEvents()
	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

	user.RecordLogin(at)

	require.NotNil(t, user.LastLogin())
	assert.Equal(t, at, *user.LastLogin())
	require.Len(t, user.DomainEvents(), 1)
	assert.Equal(t, domain.RoutingKeyUserLoggedIn, user.DomainEvents()[0].RoutingKey())
}

func TestUser_Principal(t *testing.T) {
	user := newTestUser(t)
	var principal domain.Principal = user

	assert.Equal(t, user.ID().String(), principal.Username())
	assert.Equal(t, []string{"USER"}, principal.Authorities())
	assert.Equal(t, "", principal.Password())
	assert.True(t, principal.Enabled())
}

func TestRehydrateUser(t *testing.T) {
	user := newTestUser(t)
	user.RecordLogin(time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC))
	user.StampActor("backoffice")
	user.SetVersion(3)
	snapshot := user.Snapshot()

	restored, err := domain.RehydrateUser(snapshot)
	require.NoError(t, err)

	assert.Equal(t, snapshot, restored.Snapshot())
	assert.Empty(t, restored.DomainEvents())
	assert.Equal(t, 3, restored.Version())
}

func TestRehydrateUser_RevalidatesStoredValues(t *testing.T) {
	snapshot := newTestUser(t).Snapshot()
	snapshot.NationalID = "12345678900"

	_, err := domain.RehydrateUser(snapshot)

	assert.ErrorIs(t, err, sharedDomain.ErrInvalidNationalID)
}
