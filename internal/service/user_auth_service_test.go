package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserAuthTestService(t *testing.T) (*UserAuthService, *gorm.DB, *cache.MemoryStore) {
	t.Helper()
	db := setupServiceDB(t)
	store := cache.NewMemoryStore()
	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "user-secret"
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true}
	wallets := NewWalletService(repository.NewWalletRepository(db), store, 0)
	svc := NewUserAuthService(cfg, repository.NewUserRepository(db), repository.NewOrderRepository(db), wallets, store)
	return svc, db, store
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, _, _ := newUserAuthTestService(t)
	ctx := context.Background()
	input := SignUpInput{
		FirstName: "Meera",
		LastName:  "Iyer",
		Email:     " Meera@Example.com ",
		Phone:     "9876543210",
		Password:  "secret123",
	}

	user, token, _, err := svc.SignUp(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "meera@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	claims, err := svc.ParseUserJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, _, err = svc.SignUp(ctx, input)
	assert.ErrorIs(t, err, ErrEmailExists)
	input.Email = "other@example.com"
	_, _, _, err = svc.SignUp(ctx, input)
	assert.ErrorIs(t, err, ErrPhoneExists)

	byPhone, _, _, err := svc.SignIn(ctx, SignInInput{Identifier: "9876543210", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)
	assert.NotNil(t, byPhone.LastLoginAt)

	_, _, _, err = svc.SignIn(ctx, SignInInput{Identifier: "meera@example.com", Password: "wrong1234"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _ := newUserAuthTestService(t)
	ctx := context.Background()

	_, _, _, err := svc.SignUp(ctx, SignUpInput{FirstName: "A", Email: "bad", Phone: "1", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, _, _, err = svc.SignUp(ctx, SignUpInput{FirstName: "A", Email: "a@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrPhoneRequired)

	_, _, _, err = svc.SignUp(ctx, SignUpInput{FirstName: "A", Email: "a@example.com", Phone: "1", Password: "short1"})
	require.ErrorIs(t, err, ErrWeakPassword)
	var policyErr passwordPolicyError
	require.True(t, errors.As(err, &policyErr))
	assert.Equal(t, "error.password_min_length", policyErr.Key())

	_, _, _, err = svc.SignUp(ctx, SignUpInput{FirstName: "A", Email: "a@example.com", Phone: "1", Password: "longenough"})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestSignOutBumpsTokenVersion(t *testing.T) {
	svc, db, store := newUserAuthTestService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "signout@example.com")

	_, err := svc.Dashboard(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, store.Has(cache.DashboardKey(user.ID)))

	require.NoError(t, svc.SignOut(ctx, user.ID))
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, user.TokenVersion+1, reloaded.TokenVersion)
	assert.False(t, store.Has(cache.DashboardKey(user.ID)))

	state, hit, err := cache.GetUserAuthState(ctx, store, user.ID)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, reloaded.TokenVersion, state.TokenVersion)
}

func TestSignInRejectsDisabledUser(t *testing.T) {
	svc, _, _ := newUserAuthTestService(t)
	ctx := context.Background()
	user, _, _, err := svc.SignUp(ctx, SignUpInput{FirstName: "Ravi", Email: "ravi@example.com", Phone: "9000000001", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, models.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	_, _, _, err = svc.SignIn(ctx, SignInInput{Identifier: "ravi@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserDisabled)
}
