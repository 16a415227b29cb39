package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/repository"
)

// UserService обрабатывает административные операции над пользователями
// Доступен только роли admin (гейт на уровне маршрутов)
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис администрирования пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// List возвращает страницу пользователей
func (s *UserService) List(ctx context.Context, q entity.ListQuery) ([]entity.User, *entity.Pagination, error) {
	opts := normalizeListQuery(q, MaxCategoryPageSize)

	users, total, err := s.userRepo.List(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, buildPagination(total, opts), nil
}

// Get возвращает пользователя по id
func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserRepoError(err)
	}
	return user, nil
}

// Update применяет частичное обновление пользователя
// Пустой patch - no-op, возвращается неизмененный пользователь
func (s *UserService) Update(ctx context.Context, id string, req *entity.UpdateUserRequest) (*entity.User, error) {
	fields := bson.M{}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, ErrValidation
		}
		fields["role"] = *req.Role
	}

	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	user, err := s.userRepo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, mapUserRepoError(err)
	}

	return user, nil
}

// Delete удаляет пользователя по id
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return mapUserRepoError(err)
	}
	return nil
}

// mapUserRepoError транслирует ошибки репозитория в ошибки бизнес-логики
func mapUserRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrInvalidID):
		return ErrInvalidID
	default:
		return fmt.Errorf("user repository error: %w", err)
	}
}
