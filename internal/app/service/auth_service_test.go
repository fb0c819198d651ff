package service

import (
	"testing"
	"time"

	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/internal/app/repository"
	"github.com/pressplay/pressplay-backend/internal/db"
	"github.com/pressplay/pressplay-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testAuthServiceSecret = "test-secret-for-auth-service"

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	service := NewAuthService(userRepo, testAuthServiceSecret, 15*time.Minute, 7*24*time.Hour, false)
	return service, testDB
}

func TestAuthService_Register(t *testing.T) {
	service, testDB := setupAuthServiceTest(t)

	user, tokens, err := service.Register("player@example.com", "password123", "Player")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, tokens)
	assert.Equal(t, "player@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEmpty(t, tokens.AccessToken)

	// Password is stored hashed, never plain.
	var stored model.User
	require.NoError(t, testDB.First(&stored, user.ID).Error)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.True(t, util.VerifyPassword(stored.PasswordHash, "password123"))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	service, _ := setupAuthServiceTest(t)

	_, _, err := service.Register("player@example.com", "password123", "Player")
	require.NoError(t, err)

	_, _, err = service.Register("player@example.com", "different456", "Other")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	service, _ := setupAuthServiceTest(t)

	_, _, err := service.Register("player@example.com", "password123", "Player")
	require.NoError(t, err)

	user, tokens, err := service.Login("player@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "player@example.com", user.Email)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, _ := setupAuthServiceTest(t)

	_, _, err := service.Register("player@example.com", "password123", "Player")
	require.NoError(t, err)

	_, _, err = service.Login("player@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	service, _ := setupAuthServiceTest(t)

	_, _, err := service.Login("ghost@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RefreshToken(t *testing.T) {
	service, _ := setupAuthServiceTest(t)

	_, tokens, err := service.Register("player@example.com", "password123", "Player")
	require.NoError(t, err)

	refreshed, err := service.RefreshToken(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
}

func TestAuthService_RefreshToken_Invalid(t *testing.T) {
	service, _ := setupAuthServiceTest(t)

	_, err := service.RefreshToken("not.a.jwt")
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	service, _ := setupAuthServiceTest(t)

	user, _, err := service.Register("player@example.com", "password123", "Old Name")
	require.NoError(t, err)

	updated, err := service.UpdateProfile(user.ID, "New Name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
}

func TestAuthService_GetUserByID_NotFound(t *testing.T) {
	service, _ := setupAuthServiceTest(t)

	_, err := service.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
