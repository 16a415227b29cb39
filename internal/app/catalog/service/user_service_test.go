package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/repository"
	"pepagora/internal/app/catalog/repository/mocks"
)

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	svc := NewUserService(userRepo)

	users := []entity.User{{ID: primitive.NewObjectID(), Email: "a@x.com"}}
	userRepo.On("List", ctx, mock.AnythingOfType("repository.ListOptions")).Return(users, int64(1), nil)

	got, pagination, err := svc.List(ctx, entity.ListQuery{})

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), pagination.TotalCount)
	assert.Equal(t, int64(1), pagination.TotalPages)
}

func TestUserService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	svc := NewUserService(userRepo)

	id := primitive.NewObjectID().Hex()
	userRepo.On("GetByID", ctx, id).Return(nil, repository.ErrNotFound)

	user, err := svc.Get(ctx, id)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Update_EmptyPatch_NoOp(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	svc := NewUserService(userRepo)

	existing := &entity.User{ID: primitive.NewObjectID(), Email: "a@x.com"}
	userRepo.On("GetByID", ctx, existing.ID.Hex()).Return(existing, nil)

	user, err := svc.Update(ctx, existing.ID.Hex(), &entity.UpdateUserRequest{})

	require.NoError(t, err)
	assert.Equal(t, existing, user)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Update_Role(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	svc := NewUserService(userRepo)

	existing := &entity.User{ID: primitive.NewObjectID(), Role: entity.RoleCategoryManager}
	role := entity.RoleAdmin

	userRepo.On("Update", ctx, existing.ID.Hex(), bson.M{"role": role}).Return(existing, nil)

	_, err := svc.Update(ctx, existing.ID.Hex(), &entity.UpdateUserRequest{Role: &role})

	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestUserService_Update_InvalidRole(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	svc := NewUserService(userRepo)

	bad := entity.Role("superuser")

	user, err := svc.Update(ctx, primitive.NewObjectID().Hex(), &entity.UpdateUserRequest{Role: &bad})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService_Update_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	svc := NewUserService(userRepo)

	email := "taken@x.com"
	id := primitive.NewObjectID().Hex()
	userRepo.On("Update", ctx, id, bson.M{"email": email}).Return(nil, repository.ErrDuplicate)

	user, err := svc.Update(ctx, id, &entity.UpdateUserRequest{Email: &email})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestUserService_Delete_InvalidID(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	svc := NewUserService(userRepo)

	userRepo.On("Delete", ctx, "garbage").Return(repository.ErrInvalidID)

	err := svc.Delete(ctx, "garbage")

	assert.ErrorIs(t, err, ErrInvalidID)
}
