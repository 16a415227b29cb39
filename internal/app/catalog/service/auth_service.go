package service

import (
	"context"
	"errors"
	"fmt"

	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/repository"
	"pepagora/internal/app/catalog/util"
)

// AuthService обрабатывает бизнес-логику аутентификации и сессий
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *util.JWTManager
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, jwtManager *util.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// TokenPair - пара выданных токенов
// Refresh токен возвращается вызывающему для установки в HttpOnly cookie,
// сервер хранит только его хэш
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Signup регистрирует нового пользователя
// Роль по умолчанию - pepagora_manager (read-only)
func (s *AuthService) Signup(ctx context.Context, req *entity.SignupRequest) (*entity.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	role := req.Role
	if role == "" {
		role = entity.RolePepagoraManager
	}
	if !role.IsValid() {
		return nil, ErrValidation
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login проверяет учетные данные и выдает пару токенов
// Несуществующий email и неверный пароль неразличимы для вызывающего
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Refresh обменивает refresh токен на новую пару токенов
// Refresh токен ротируется: предыдущий становится недействительным сразу,
// в хранилище остается только хэш последнего выданного
// Любая ошибка проверки схлопывается в единый ErrInvalidRefreshToken
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.RefreshTokenHash == "" || user.RefreshTokenHash != util.HashToken(refreshToken) {
		return nil, ErrInvalidRefreshToken
	}

	return s.issueTokens(ctx, user)
}

// Logout очищает сохраненный хэш refresh токена
// Операция идемпотентна: повторный logout не ошибка
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.userRepo.SetRefreshTokenHash(ctx, user.ID, ""); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	return nil
}

// GetCurrentUser возвращает текущего пользователя по id из access токена
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// issueTokens выдает access + refresh токены и сохраняет хэш refresh токена
func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.userRepo.SetRefreshTokenHash(ctx, user.ID, util.HashToken(refreshToken)); err != nil {
		return nil, fmt.Errorf("failed to save refresh token hash: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
