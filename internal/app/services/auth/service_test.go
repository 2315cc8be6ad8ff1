package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domainauth "innkeep/internal/domain/auth"
	domainuser "innkeep/internal/domain/user"
	"innkeep/internal/infra/security"
	"innkeep/internal/infra/storage/memory"
)

func newService(t *testing.T) (*Service, *memory.SessionStore) {
	t.Helper()
	sessions := memory.NewSessionStore()
	return &Service{
		Users:      memory.NewUserRepository(),
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: time.Hour,
	}, sessions
}

func TestRegister_CreatesGuestWithSession(t *testing.T) {
	svc, _ := newService(t)

	result, err := svc.Register(context.Background(), RegisterParams{
		Email:    "  Anna@Example.COM ",
		Name:     "Anna",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", result.User.Email)
	assert.Equal(t, []domainuser.Role{domainuser.RoleGuest}, result.User.Roles)
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, "correct horse", result.User.PasswordHash)

	resolved, err := svc.ResolveToken(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, resolved.User.ID)
}

func TestRegister_Validations(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), RegisterParams{Name: "Anna", Password: "long enough"})
	assert.ErrorIs(t, err, domainuser.ErrEmailRequired)

	_, err = svc.Register(context.Background(), RegisterParams{Email: "a@b.c", Password: "long enough"})
	assert.ErrorIs(t, err, domainuser.ErrNameRequired)

	_, err = svc.Register(context.Background(), RegisterParams{Email: "a@b.c", Name: "Anna", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	params := RegisterParams{Email: "anna@example.com", Name: "Anna", Password: "correct horse"}

	_, err := svc.Register(context.Background(), params)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), params)
	assert.ErrorIs(t, err, domainuser.ErrEmailAlreadyUsed)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Register(context.Background(), RegisterParams{Email: "anna@example.com", Name: "Anna", Password: "correct horse"})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), LoginParams{Email: "ANNA@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = svc.Login(context.Background(), LoginParams{Email: "anna@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown accounts read the same as a bad password.
	_, err = svc.Login(context.Background(), LoginParams{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	svc, _ := newService(t)
	result, err := svc.Register(context.Background(), RegisterParams{Email: "anna@example.com", Name: "Anna", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.Token))

	_, err = svc.ResolveToken(context.Background(), result.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestResolveToken_SessionCarriesRolesAtIssueTime(t *testing.T) {
	svc, sessions := newService(t)
	result, err := svc.Register(context.Background(), RegisterParams{Email: "anna@example.com", Name: "Anna", Password: "correct horse"})
	require.NoError(t, err)

	resolved, err := svc.ResolveToken(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, []domainuser.Role{domainuser.RoleGuest}, resolved.Session.Roles)

	// Revoking every session of the user kills the token.
	require.NoError(t, sessions.DeleteByUser(context.Background(), result.User.ID))
	_, err = svc.ResolveToken(context.Background(), result.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}
