package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvadrat/estate_go_server/config"
	"github.com/kvadrat/estate_go_server/internal/model/dto"
	"github.com/kvadrat/estate_go_server/internal/pkg/jwt"
	"github.com/kvadrat/estate_go_server/internal/repository"
	"github.com/kvadrat/estate_go_server/internal/testutil"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key"
	cfg.JWT.ExpireHours = 24

	return NewAuthService(repository.NewAgencyRepository(db), cfg)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := setupAuthService(t)

	agency, token, err := svc.Register(&dto.RegisterRequest{
		Name:     "Skyline Realty",
		Email:    "office@skyline.example",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "agency", agency.Kind)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "correct horse", agency.PasswordHash)

	claims, err := jwt.ParseToken(token, "test-secret-key")
	require.NoError(t, err)
	assert.Equal(t, agency.ID, claims.AgencyID)

	loggedIn, token2, err := svc.Login(&dto.LoginRequest{
		Email:    "office@skyline.example",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, agency.ID, loggedIn.ID)
	assert.NotEmpty(t, token2)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := setupAuthService(t)

	_, _, err := svc.Register(&dto.RegisterRequest{
		Name: "First", Email: "dup@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, _, err = svc.Register(&dto.RegisterRequest{
		Name: "Second", Email: "dup@example.com", Password: "password456",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Register_LandlordKind(t *testing.T) {
	svc := setupAuthService(t)

	agency, _, err := svc.Register(&dto.RegisterRequest{
		Name: "Private owner", Email: "owner@example.com", Password: "password123",
		Kind: "landlord",
	})
	require.NoError(t, err)
	assert.Equal(t, "landlord", agency.Kind)

	// Unknown kinds collapse to the default.
	agency, _, err = svc.Register(&dto.RegisterRequest{
		Name: "Odd", Email: "odd@example.com", Password: "password123",
		Kind: "robot",
	})
	require.NoError(t, err)
	assert.Equal(t, "agency", agency.Kind)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := setupAuthService(t)

	_, _, err := svc.Register(&dto.RegisterRequest{
		Name: "A", Email: "a@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(&dto.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := setupAuthService(t)

	_, _, err := svc.Login(&dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
