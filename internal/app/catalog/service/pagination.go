package service

import (
	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/repository"
)

// Лимиты страниц по коллекциям
const (
	DefaultPageSize = 10
	// Категорий и подкатегорий немного - допускаем крупные страницы
	MaxCategoryPageSize    = 1000
	MaxSubcategoryPageSize = 1000
	// Товаров может быть много - лимит жестче
	MaxProductPageSize = 100

	defaultSortField = "created_at"
)

// normalizeListQuery приводит сырые параметры запроса к валидным опциям выборки:
// page >= 1, limit зажат в [1, maxLimit], дефолтная сортировка created_at desc
func normalizeListQuery(q entity.ListQuery, maxLimit int64) repository.ListOptions {
	page := int64(q.Page)
	if page < 1 {
		page = 1
	}

	limit := int64(q.Limit)
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = defaultSortField
	}

	sortOrder := -1 // desc по умолчанию
	if q.SortOrder == "asc" {
		sortOrder = 1
	}

	return repository.ListOptions{
		Page:      page,
		Limit:     limit,
		Search:    q.Search,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
}

// buildPagination считает блок пагинации ответа
// totalPages = ceil(totalCount/limit); при totalCount == 0 получается 0 страниц
func buildPagination(total int64, opts repository.ListOptions) *entity.Pagination {
	totalPages := (total + opts.Limit - 1) / opts.Limit

	return &entity.Pagination{
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: opts.Page,
		PageSize:    opts.Limit,
	}
}
