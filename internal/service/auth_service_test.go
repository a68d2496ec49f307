package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/helpdesk-pro/helpdesk-service/internal/auth"
	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	svc := NewAuthService(AuthDependencies{
		UserRepo:     repo,
		TokenManager: auth.NewTokenManager("test-secret", 60),
		BcryptCost:   bcrypt.MinCost,
	})
	return svc, repo
}

func TestRegisterDefaultsToCustomer(t *testing.T) {
	svc, _ := newAuthFixture()
	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "New.User@Example.com",
		Name:     "New User",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleCustomer, result.User.Role)
	assert.Equal(t, "new.user@example.com", result.User.Email)
	assert.Equal(t, domain.UserStatusActive, result.User.Status)
	assert.NotEmpty(t, result.Token)
	assert.False(t, result.ExpiresAt.IsZero())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()
	input := RegisterInput{Email: "dup@example.com", Name: "Dup", Password: "long enough"}

	_, err := svc.Register(ctx, input)
	require.NoError(t, err)
	_, err = svc.Register(ctx, input)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), RegisterInput{Email: "x@example.com", Name: "X", Password: "short"})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "login@example.com", Name: "L", Password: "hunter2hunter2"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, "login@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = svc.Login(ctx, "login@example.com", "wrong password")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	_, err = svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()
	result, err := svc.Register(ctx, RegisterInput{Email: "off@example.com", Name: "Off", Password: "hunter2hunter2"})
	require.NoError(t, err)

	user := *result.User
	user.Status = domain.UserStatusInactive
	require.NoError(t, repo.Update(ctx, &user))

	_, err = svc.Login(ctx, "off@example.com", "hunter2hunter2")
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"), "correct password must not revive a deactivated account")
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()
	result, err := svc.Register(ctx, RegisterInput{Email: "rot@example.com", Name: "R", Password: "original-pass"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, result.User, "wrong", "replacement-pass")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	require.NoError(t, svc.ChangePassword(ctx, result.User, "original-pass", "replacement-pass"))

	_, err = svc.Login(ctx, "rot@example.com", "replacement-pass")
	assert.NoError(t, err)
}

func TestRouteAccessByRole(t *testing.T) {
	svc, _ := newAuthFixture()

	customer := svc.RouteAccess(domain.RoleCustomer)
	assert.True(t, customer["tickets"])
	assert.True(t, customer["kb"])
	assert.False(t, customer["dashboard"])
	assert.False(t, customer["users"])

	manager := svc.RouteAccess(domain.RoleManager)
	assert.True(t, manager["dashboard"])
	assert.False(t, manager["users"])
}
