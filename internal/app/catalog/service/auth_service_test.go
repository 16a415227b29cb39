package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/repository"
	"pepagora/internal/app/catalog/repository/mocks"
	"pepagora/internal/app/catalog/util"
)

func newTestAuthService() (*AuthService, *mocks.MockUserRepository, *util.JWTManager) {
	userRepo := new(mocks.MockUserRepository)
	jwtManager := util.NewJWTManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(userRepo, jwtManager), userRepo, jwtManager
}

func newTestUser() *entity.User {
	hash, _ := util.HashPassword("secret1")
	return &entity.User{
		ID:           primitive.NewObjectID(),
		Email:        "a@x.com",
		Username:     "a",
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
	}
}

// ==================== Signup ====================

func TestAuthService_Signup_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("GetByEmail", ctx, "a@x.com").Return(nil, repository.ErrNotFound)
	userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil)

	req := &entity.SignupRequest{
		Email:    "a@x.com",
		Username: "a",
		Password: "secret1",
		Role:     entity.RoleAdmin,
	}

	// Act
	user, err := svc.Signup(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, entity.RoleAdmin, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Signup_DefaultRole(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("GetByEmail", ctx, "b@x.com").Return(nil, repository.ErrNotFound)
	userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil)

	user, err := svc.Signup(ctx, &entity.SignupRequest{
		Email:    "b@x.com",
		Username: "b",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.RolePepagoraManager, user.Role)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("GetByEmail", ctx, "a@x.com").Return(newTestUser(), nil)

	user, err := svc.Signup(ctx, &entity.SignupRequest{
		Email:    "a@x.com",
		Username: "a",
		Password: "secret1",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthService_Signup_InvalidRole(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("GetByEmail", ctx, "a@x.com").Return(nil, repository.ErrNotFound)

	user, err := svc.Signup(ctx, &entity.SignupRequest{
		Email:    "a@x.com",
		Username: "a",
		Password: "secret1",
		Role:     entity.Role("superuser"),
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrValidation)
}

// ==================== Login ====================

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, userRepo, jwtManager := newTestAuthService()
	testUser := newTestUser()

	userRepo.On("GetByEmail", ctx, "a@x.com").Return(testUser, nil)
	userRepo.On("SetRefreshTokenHash", ctx, testUser.ID, mock.AnythingOfType("string")).Return(nil)

	// Act
	user, tokens, err := svc.Login(ctx, &entity.LoginRequest{Email: "a@x.com", Password: "secret1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, testUser.Email, user.Email)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := jwtManager.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID.Hex(), claims.UserID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)

	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("GetByEmail", ctx, "a@x.com").Return(newTestUser(), nil)

	user, tokens, err := svc.Login(ctx, &entity.LoginRequest{Email: "a@x.com", Password: "wrong"})

	assert.Nil(t, user)
	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	// Несуществующий email дает ту же ошибку, что и неверный пароль
	ctx := context.Background()
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("GetByEmail", ctx, "nobody@x.com").Return(nil, repository.ErrNotFound)

	user, tokens, err := svc.Login(ctx, &entity.LoginRequest{Email: "nobody@x.com", Password: "secret1"})

	assert.Nil(t, user)
	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// ==================== Refresh ====================

func TestAuthService_Refresh_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, userRepo, jwtManager := newTestAuthService()
	testUser := newTestUser()

	refreshToken, err := jwtManager.GenerateRefreshToken(testUser.ID.Hex())
	require.NoError(t, err)
	testUser.RefreshTokenHash = util.HashToken(refreshToken)

	userRepo.On("GetByID", ctx, testUser.ID.Hex()).Return(testUser, nil)
	userRepo.On("SetRefreshTokenHash", ctx, testUser.ID, mock.AnythingOfType("string")).Return(nil)

	// Act
	tokens, err := svc.Refresh(ctx, refreshToken)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	expired := util.NewJWTManager("test-secret-key", 15*time.Minute, -time.Minute)
	token, err := expired.GenerateRefreshToken(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	tokens, err := svc.Refresh(ctx, token)

	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_RevokedToken(t *testing.T) {
	// После logout хэш пуст - валидный по подписи токен отклоняется
	ctx := context.Background()
	svc, userRepo, jwtManager := newTestAuthService()
	testUser := newTestUser()
	testUser.RefreshTokenHash = ""

	refreshToken, err := jwtManager.GenerateRefreshToken(testUser.ID.Hex())
	require.NoError(t, err)

	userRepo.On("GetByID", ctx, testUser.ID.Hex()).Return(testUser, nil)

	tokens, err := svc.Refresh(ctx, refreshToken)

	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_RotatedTokenRejected(t *testing.T) {
	// В хранилище хэш другого (последнего выданного) токена
	ctx := context.Background()
	svc, userRepo, jwtManager := newTestAuthService()
	testUser := newTestUser()
	testUser.RefreshTokenHash = util.HashToken("some-newer-token")

	refreshToken, err := jwtManager.GenerateRefreshToken(testUser.ID.Hex())
	require.NoError(t, err)

	userRepo.On("GetByID", ctx, testUser.ID.Hex()).Return(testUser, nil)

	tokens, err := svc.Refresh(ctx, refreshToken)

	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

// ==================== Logout ====================

func TestAuthService_Logout_Success(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestAuthService()
	testUser := newTestUser()

	userRepo.On("GetByID", ctx, testUser.ID.Hex()).Return(testUser, nil)
	userRepo.On("SetRefreshTokenHash", ctx, testUser.ID, "").Return(nil)

	err := svc.Logout(ctx, testUser.ID.Hex())

	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Logout_UnknownUser_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestAuthService()

	id := primitive.NewObjectID().Hex()
	userRepo.On("GetByID", ctx, id).Return(nil, repository.ErrNotFound)

	err := svc.Logout(ctx, id)

	assert.NoError(t, err)
}
