package entity

// ===== Auth =====

// SignupRequest - запрос на регистрацию
// Роль по умолчанию pepagora_manager, если не указана
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"omitempty,oneof=admin category_manager pepagora_manager"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse - ответ на вход: access токен и пользователь
// Refresh токен уходит только в HttpOnly cookie
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}

// RefreshResponse - ответ на обновление токена
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// UpdateUserRequest - частичное обновление пользователя (только admin)
// Nil-поля не изменяются
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Username *string `json:"username" validate:"omitempty,min=2,max=100"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=admin category_manager pepagora_manager"`
}

// ===== Catalog =====

// CreateCategoryRequest - запрос на создание категории
type CreateCategoryRequest struct {
	MainCatName     string `json:"main_cat_name" validate:"required,min=2,max=200"`
	UniqueID        string `json:"uniqueId" validate:"omitempty,max=100"`
	LiveURL         string `json:"liveUrl" validate:"omitempty,max=500"`
	MetaTitle       string `json:"metaTitle" validate:"omitempty,max=500"`
	MetaKeyword     string `json:"metaKeyword" validate:"omitempty,max=500"`
	MetaDescription string `json:"metaDescription" validate:"omitempty,max=2000"`
	ImageURL        string `json:"imageUrl" validate:"omitempty,max=500"`
	Description     string `json:"description" validate:"omitempty,max=10000"`
}

// UpdateCategoryRequest - частичное обновление категории, nil-поля сохраняются
type UpdateCategoryRequest struct {
	MainCatName     *string `json:"main_cat_name" validate:"omitempty,min=2,max=200"`
	LiveURL         *string `json:"liveUrl" validate:"omitempty,max=500"`
	MetaTitle       *string `json:"metaTitle" validate:"omitempty,max=500"`
	MetaKeyword     *string `json:"metaKeyword" validate:"omitempty,max=500"`
	MetaDescription *string `json:"metaDescription" validate:"omitempty,max=2000"`
	ImageURL        *string `json:"imageUrl" validate:"omitempty,max=500"`
	Description     *string `json:"description" validate:"omitempty,max=10000"`
}

// CreateSubcategoryRequest - запрос на создание подкатегории
// mappedParent обязателен и проверяется до обращения к хранилищу
type CreateSubcategoryRequest struct {
	SubCatName      string `json:"sub_cat_name" validate:"required,min=2,max=200"`
	MappedParent    string `json:"mappedParent" validate:"required"`
	UniqueID        string `json:"uniqueId" validate:"omitempty,max=100"`
	LiveURL         string `json:"liveUrl" validate:"omitempty,max=500"`
	MetaTitle       string `json:"metaTitle" validate:"omitempty,max=500"`
	MetaKeyword     string `json:"metaKeyword" validate:"omitempty,max=500"`
	MetaDescription string `json:"metaDescription" validate:"omitempty,max=2000"`
	SubCatImgURL    string `json:"sub_cat_img_url" validate:"omitempty,max=500"`
	Description     string `json:"description" validate:"omitempty,max=10000"`
}

// UpdateSubcategoryRequest - частичное обновление подкатегории
type UpdateSubcategoryRequest struct {
	SubCatName      *string `json:"sub_cat_name" validate:"omitempty,min=2,max=200"`
	MappedParent    *string `json:"mappedParent" validate:"omitempty"`
	LiveURL         *string `json:"liveUrl" validate:"omitempty,max=500"`
	MetaTitle       *string `json:"metaTitle" validate:"omitempty,max=500"`
	MetaKeyword     *string `json:"metaKeyword" validate:"omitempty,max=500"`
	MetaDescription *string `json:"metaDescription" validate:"omitempty,max=2000"`
	SubCatImgURL    *string `json:"sub_cat_img_url" validate:"omitempty,max=500"`
	Description     *string `json:"description" validate:"omitempty,max=10000"`
}

// CreateProductRequest - запрос на создание товара
type CreateProductRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=200"`
	MappedParent    string `json:"mappedParent" validate:"required"`
	UniqueID        string `json:"uniqueId" validate:"omitempty,max=100"`
	LiveURL         string `json:"liveUrl" validate:"omitempty,max=500"`
	MetaTitle       string `json:"metaTitle" validate:"omitempty,max=500"`
	MetaKeyword     string `json:"metaKeyword" validate:"omitempty,max=500"`
	MetaDescription string `json:"metaDescription" validate:"omitempty,max=2000"`
	ImageURL        string `json:"imageUrl" validate:"omitempty,max=500"`
	Description     string `json:"description" validate:"omitempty,max=10000"`
}

// UpdateProductRequest - частичное обновление товара
type UpdateProductRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=200"`
	MappedParent    *string `json:"mappedParent" validate:"omitempty"`
	LiveURL         *string `json:"liveUrl" validate:"omitempty,max=500"`
	MetaTitle       *string `json:"metaTitle" validate:"omitempty,max=500"`
	MetaKeyword     *string `json:"metaKeyword" validate:"omitempty,max=500"`
	MetaDescription *string `json:"metaDescription" validate:"omitempty,max=2000"`
	ImageURL        *string `json:"imageUrl" validate:"omitempty,max=500"`
	Description     *string `json:"description" validate:"omitempty,max=10000"`
}

// ListQuery - параметры пагинации, поиска и сортировки списков
type ListQuery struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ===== Response envelope =====

// Pagination - блок пагинации в ответе
type Pagination struct {
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int64 `json:"currentPage"`
	PageSize    int64 `json:"pageSize"`
}

// Response - стандартный конверт ответа API
type Response struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
