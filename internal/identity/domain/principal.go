package domain

// Principal is what an authentication collaborator needs from an account.
type Principal interface {
	Username() string
	Authorities() []string
	Password() string
	Enabled() bool
}

var _ Principal = (*User)(nil)

// Username is the opaque user id, not the email.
func (u *User) Username() string {
	return u.ID().String()
}

// Authorities grants exactly the user's role.
func (u *User) Authorities() []string {
	return []string{u.role.String()}
}

// Password is always blank; credential checks use PasswordHash in the
// authentication collaborator.
func (u *User) Password() string {
	return ""
}

// Enabled mirrors the active flag.
func (u *User) Enabled() bool {
	return u.active
}
