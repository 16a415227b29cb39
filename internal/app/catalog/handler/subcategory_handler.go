package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/service"
)

// SubcategoryHandler обрабатывает HTTP запросы к подкатегориям
type SubcategoryHandler struct {
	catalogService service.CatalogServiceInterface
	validator      *validator.Validate
}

func NewSubcategoryHandler(catalogService service.CatalogServiceInterface) *SubcategoryHandler {
	return &SubcategoryHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

// Create обрабатывает POST /subcategories
func (h *SubcategoryHandler) Create(c *gin.Context) {
	var req entity.CreateSubcategoryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	subcategory, err := h.catalogService.CreateSubcategory(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to create subcategory")
		return
	}

	respondData(c, http.StatusCreated, "Subcategory created successfully", subcategory)
}

// List обрабатывает GET /subcategories
func (h *SubcategoryHandler) List(c *gin.Context) {
	var q entity.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	subcategories, pagination, err := h.catalogService.ListSubcategories(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err, "Failed to list subcategories")
		return
	}

	respondPage(c, "OK", subcategories, pagination)
}

// ListByCategory обрабатывает GET /subcategories/by-category/:id
func (h *SubcategoryHandler) ListByCategory(c *gin.Context) {
	var q entity.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	subcategories, pagination, err := h.catalogService.ListSubcategoriesByCategory(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		respondServiceError(c, err, "Failed to list subcategories")
		return
	}

	respondPage(c, "OK", subcategories, pagination)
}

// Filter обрабатывает GET /subcategories/filter?categories=id1,id2
// Пустой фильтр возвращает все подкатегории
func (h *SubcategoryHandler) Filter(c *gin.Context) {
	categoryIDs := parseIDList(c.QueryArray("categories"))

	subcategories, err := h.catalogService.FilterSubcategories(c.Request.Context(), categoryIDs)
	if err != nil {
		respondServiceError(c, err, "Failed to filter subcategories")
		return
	}

	respondData(c, http.StatusOK, "OK", subcategories)
}

// Count обрабатывает GET /subcategories/count
func (h *SubcategoryHandler) Count(c *gin.Context) {
	count, err := h.catalogService.CountSubcategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to count subcategories")
		return
	}

	respondData(c, http.StatusOK, "OK", gin.H{"count": count})
}

// Get обрабатывает GET /subcategories/:id (с родительской категорией)
func (h *SubcategoryHandler) Get(c *gin.Context) {
	subcategory, err := h.catalogService.GetSubcategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to get subcategory")
		return
	}

	respondData(c, http.StatusOK, "OK", subcategory)
}

// Update обрабатывает PUT /subcategories/:id
func (h *SubcategoryHandler) Update(c *gin.Context) {
	var req entity.UpdateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	subcategory, err := h.catalogService.UpdateSubcategory(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update subcategory")
		return
	}

	respondData(c, http.StatusOK, "Subcategory updated successfully", subcategory)
}

// Delete обрабатывает DELETE /subcategories/:id
// Возвращает 409, если в подкатегории остались товары
func (h *SubcategoryHandler) Delete(c *gin.Context) {
	if err := h.catalogService.DeleteSubcategory(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete subcategory")
		return
	}

	respondData(c, http.StatusOK, "Subcategory deleted successfully", nil)
}
