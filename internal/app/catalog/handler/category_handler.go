package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/service"
)

// CategoryHandler обрабатывает HTTP запросы к категориям
type CategoryHandler struct {
	catalogService service.CatalogServiceInterface
	validator      *validator.Validate
}

func NewCategoryHandler(catalogService service.CatalogServiceInterface) *CategoryHandler {
	return &CategoryHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

// Create обрабатывает POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req entity.CreateCategoryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to create category")
		return
	}

	respondData(c, http.StatusCreated, "Category created successfully", category)
}

// List обрабатывает GET /categories (пагинация + поиск + сортировка)
func (h *CategoryHandler) List(c *gin.Context) {
	var q entity.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	categories, pagination, err := h.catalogService.ListCategories(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err, "Failed to list categories")
		return
	}

	respondPage(c, "OK", categories, pagination)
}

// GetAll обрабатывает GET /categories/all - полный список без пагинации (кеш Redis)
func (h *CategoryHandler) GetAll(c *gin.Context) {
	categories, err := h.catalogService.GetAllCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to get categories")
		return
	}

	respondData(c, http.StatusOK, "OK", categories)
}

// Get обрабатывает GET /categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.catalogService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to get category")
		return
	}

	respondData(c, http.StatusOK, "OK", category)
}

// Update обрабатывает PUT /categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var req entity.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update category")
		return
	}

	respondData(c, http.StatusOK, "Category updated successfully", category)
}

// Delete обрабатывает DELETE /categories/:id
// Возвращает 409, если у категории остались подкатегории
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete category")
		return
	}

	respondData(c, http.StatusOK, "Category deleted successfully", nil)
}
