package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhishekjatav/dukaan/internal/config"
	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
	"github.com/abhishekjatav/dukaan/internal/repository/tables"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	store := rowstore.NewMemoryStore()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, "Users", rowstore.Row{"asha", string(hash), "Asha K", "Admin"}))
	require.NoError(t, store.Append(ctx, "Users", rowstore.Row{"ravi", "plain-pass", "Ravi", "Staff"}))

	return NewService(tables.NewUserTable(store), config.AuthConfig{
		JWTSecret: "unit-test-secret",
		TokenTTL:  time.Hour,
	}, nil)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("BcryptSuccess", func(t *testing.T) {
		token, user, err := svc.Login(ctx, "asha", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.Equal(t, "Asha K", user.DisplayName)
	})

	t.Run("LegacyPlaintextSuccess", func(t *testing.T) {
		token, user, err := svc.Login(ctx, "ravi", "plain-pass")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, models.RoleStaff, user.Role)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "asha", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestValidateToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "asha", "s3cret")
	require.NoError(t, err)

	t.Run("RoundTrip", func(t *testing.T) {
		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "asha", claims.Subject)
		assert.Equal(t, "Asha K", claims.DisplayName)
		assert.Equal(t, string(models.RoleAdmin), claims.Role)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewService(nil, config.AuthConfig{JWTSecret: "different", TokenTTL: time.Hour}, nil)
		_, err := other.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		store := rowstore.NewMemoryStore()
		require.NoError(t, store.Append(ctx, "Users", rowstore.Row{"old", "pw", "Old", "User"}))
		expired := NewService(tables.NewUserTable(store), config.AuthConfig{
			JWTSecret: "unit-test-secret",
			TokenTTL:  -time.Minute,
		}, nil)

		token, _, err := expired.Login(ctx, "old", "pw")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, models.RoleAdmin.Can(models.CapDeleteRecords))
	assert.True(t, models.RoleStaff.Can(models.CapCheckout))
	assert.False(t, models.RoleStaff.Can(models.CapDeleteRecords))
	assert.False(t, models.RoleUser.Can(models.CapCheckout))
	assert.True(t, models.RoleUser.Can(models.CapViewReports))
}
