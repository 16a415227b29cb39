package service

import (
	"context"

	"pepagora/internal/app/catalog/entity"
)

// Интерфейсы сервисов для внедрения в handlers и подмены в тестах

type AuthServiceInterface interface {
	Signup(ctx context.Context, req *entity.SignupRequest) (*entity.User, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID string) error
	GetCurrentUser(ctx context.Context, userID string) (*entity.User, error)
}

type UserServiceInterface interface {
	List(ctx context.Context, q entity.ListQuery) ([]entity.User, *entity.Pagination, error)
	Get(ctx context.Context, id string) (*entity.User, error)
	Update(ctx context.Context, id string, req *entity.UpdateUserRequest) (*entity.User, error)
	Delete(ctx context.Context, id string) error
}

type CatalogServiceInterface interface {
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
	GetCategory(ctx context.Context, id string) (*entity.Category, error)
	GetAllCategories(ctx context.Context) ([]entity.Category, error)
	ListCategories(ctx context.Context, q entity.ListQuery) ([]entity.Category, *entity.Pagination, error)
	UpdateCategory(ctx context.Context, id string, req *entity.UpdateCategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateSubcategory(ctx context.Context, req *entity.CreateSubcategoryRequest) (*entity.Subcategory, error)
	GetSubcategory(ctx context.Context, id string) (*entity.SubcategoryWithParent, error)
	ListSubcategories(ctx context.Context, q entity.ListQuery) ([]entity.Subcategory, *entity.Pagination, error)
	ListSubcategoriesByCategory(ctx context.Context, categoryID string, q entity.ListQuery) ([]entity.Subcategory, *entity.Pagination, error)
	FilterSubcategories(ctx context.Context, categoryIDs []string) ([]entity.SubcategoryWithParent, error)
	UpdateSubcategory(ctx context.Context, id string, req *entity.UpdateSubcategoryRequest) (*entity.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id string) error
	CountSubcategories(ctx context.Context) (int64, error)

	CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error)
	GetProduct(ctx context.Context, id string) (*entity.ProductWithParents, error)
	ListProducts(ctx context.Context, q entity.ListQuery) ([]entity.Product, *entity.Pagination, error)
	FilterProducts(ctx context.Context, categoryIDs, subcategoryIDs []string) ([]entity.ProductWithParents, error)
	UpdateProduct(ctx context.Context, id string, req *entity.UpdateProductRequest) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CountProducts(ctx context.Context) (int64, error)
}
