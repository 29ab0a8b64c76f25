package services

import (
	"context"
	"testing"

	"github.com/huangang/codebook/backend/internal/config"
	"github.com/huangang/codebook/backend/internal/repository/memory"
	"github.com/huangang/codebook/backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	utils.SetJWTSecret("services-test-secret")
	return NewAuthService(memory.New(), &config.JWTConfig{ExpireHour: 2})
}

func TestRegister_NormalizesNames(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(context.Background(), &RegisterRequest{
		Username:  "  Ada ",
		Password:  "secret",
		FirstName: "ada",
		LastName:  "lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, "Ada Lovelace", user.FullName())
	assert.NotEqual(t, "secret", user.Password)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, err := svc.Register(ctx, &RegisterRequest{Username: "ada", Password: "x"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, &RegisterRequest{Username: "ADA", Password: "y"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	registered, err := svc.Register(ctx, &RegisterRequest{Username: "ada", Password: "secret"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid", "ada", "secret", nil},
		{"username case-insensitive", "ADA", "secret", nil},
		{"wrong password", "ada", "nope", ErrUnauthorized},
		{"unknown user", "bob", "secret", ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(ctx, &LoginRequest{Username: tt.username, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			claims, err := utils.ParseToken(resp.Token)
			require.NoError(t, err)
			assert.Equal(t, registered.ID, claims.UserID)
		})
	}

	user, err := svc.GetUserByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.NotNil(t, user.LastLogin)
}

func TestCreateAdminIfNotExists(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	require.NoError(t, svc.CreateAdminIfNotExists(ctx, "first"))
	require.NoError(t, svc.CreateAdminIfNotExists(ctx, "second"))

	resp, err := svc.Login(ctx, &LoginRequest{Username: "admin", Password: "first"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Role)

	_, err = svc.Login(ctx, &LoginRequest{Username: "admin", Password: "second"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
