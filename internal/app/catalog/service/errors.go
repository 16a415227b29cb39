package service

import "errors"

// Ошибки бизнес-логики для трансляции в HTTP статусы в handlers
var (
	// ErrValidation - некорректные входные данные (400)
	ErrValidation = errors.New("validation failed")
	// ErrInvalidID - синтаксически некорректный идентификатор (400)
	ErrInvalidID = errors.New("invalid id")

	// Auth
	ErrUserExists          = errors.New("user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Catalog
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrProductNotFound     = errors.New("product not found")
	// ErrParentNotFound - mappedParent указывает на несуществующую сущность (400)
	ErrParentNotFound = errors.New("parent not found")
	// ErrDuplicateName - имя уже занято в своей области уникальности (409)
	ErrDuplicateName = errors.New("name already exists")
	// ErrHasChildren - удаление запрещено, пока существуют дочерние сущности (409)
	ErrHasChildren = errors.New("entity has children")
)
