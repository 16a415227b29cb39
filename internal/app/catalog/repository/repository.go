package repository

import (
	"context"
	"errors"

	"pepagora/internal/app/catalog/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
	ErrInvalidID = errors.New("invalid id")
)

// ListOptions - нормализованные параметры выборки списка
// Нормализация (clamp лимита, дефолты) выполняется в service layer,
// репозиторий исполняет запрос как есть
type ListOptions struct {
	Page      int64
	Limit     int64
	Search    string // подстрока для case-insensitive поиска по имени
	SortBy    string
	SortOrder int // 1 = asc, -1 = desc
}

// Skip возвращает смещение для текущей страницы
func (o ListOptions) Skip() int64 {
	return (o.Page - 1) * o.Limit
}

// UserRepository определяет методы для работы с пользователями в MongoDB
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, opts ListOptions) ([]entity.User, int64, error)
	Update(ctx context.Context, id string, fields bson.M) (*entity.User, error)
	Delete(ctx context.Context, id string) error
	SetRefreshTokenHash(ctx context.Context, id primitive.ObjectID, hash string) error
}

// CategoryRepository определяет методы для работы с категориями в MongoDB
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	List(ctx context.Context, opts ListOptions) ([]entity.Category, int64, error)
	Update(ctx context.Context, id string, fields bson.M) (*entity.Category, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	AddChild(ctx context.Context, parentID, childID primitive.ObjectID) error
	RemoveChild(ctx context.Context, parentID, childID primitive.ObjectID) error
	ReplaceChildren(ctx context.Context, parentID primitive.ObjectID, children []primitive.ObjectID) error
	AllIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

// SubcategoryRepository определяет методы для работы с подкатегориями в MongoDB
type SubcategoryRepository interface {
	Create(ctx context.Context, subcategory *entity.Subcategory) error
	GetByID(ctx context.Context, id string) (*entity.Subcategory, error)
	GetWithParent(ctx context.Context, id string) (*entity.SubcategoryWithParent, error)
	GetByNameInParent(ctx context.Context, name string, parentID primitive.ObjectID) (*entity.Subcategory, error)
	List(ctx context.Context, opts ListOptions) ([]entity.Subcategory, int64, error)
	ListByParent(ctx context.Context, parentID primitive.ObjectID, opts ListOptions) ([]entity.Subcategory, int64, error)
	FindByParents(ctx context.Context, parentIDs []primitive.ObjectID) ([]entity.SubcategoryWithParent, error)
	IDsByParents(ctx context.Context, parentIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
	Update(ctx context.Context, id string, fields bson.M) (*entity.Subcategory, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByParent(ctx context.Context, parentID primitive.ObjectID) (int64, error)
	AddChild(ctx context.Context, parentID, childID primitive.ObjectID) error
	RemoveChild(ctx context.Context, parentID, childID primitive.ObjectID) error
	ReplaceChildren(ctx context.Context, parentID primitive.ObjectID, children []primitive.ObjectID) error
	AllIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

// ProductRepository определяет методы для работы с товарами в MongoDB
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetWithParents(ctx context.Context, id string) (*entity.ProductWithParents, error)
	GetByNameInParent(ctx context.Context, name string, parentID primitive.ObjectID) (*entity.Product, error)
	List(ctx context.Context, opts ListOptions) ([]entity.Product, int64, error)
	FindByParents(ctx context.Context, parentIDs []primitive.ObjectID) ([]entity.ProductWithParents, error)
	IDsByParent(ctx context.Context, parentID primitive.ObjectID) ([]primitive.ObjectID, error)
	Update(ctx context.Context, id string, fields bson.M) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByParent(ctx context.Context, parentID primitive.ObjectID) (int64, error)
}
