package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/service"
)

// ProductHandler обрабатывает HTTP запросы к товарам
type ProductHandler struct {
	catalogService service.CatalogServiceInterface
	validator      *validator.Validate
}

func NewProductHandler(catalogService service.CatalogServiceInterface) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

// Create обрабатывает POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req entity.CreateProductRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to create product")
		return
	}

	respondData(c, http.StatusCreated, "Product created successfully", product)
}

// List обрабатывает GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var q entity.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	products, pagination, err := h.catalogService.ListProducts(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err, "Failed to list products")
		return
	}

	respondPage(c, "OK", products, pagination)
}

// Filter обрабатывает GET /products/filter?categories=...&subcategories=...
// Возвращает полный (без пагинации) список с двумя уровнями родителей
func (h *ProductHandler) Filter(c *gin.Context) {
	categoryIDs := parseIDList(c.QueryArray("categories"))
	subcategoryIDs := parseIDList(c.QueryArray("subcategories"))

	products, err := h.catalogService.FilterProducts(c.Request.Context(), categoryIDs, subcategoryIDs)
	if err != nil {
		respondServiceError(c, err, "Failed to filter products")
		return
	}

	respondData(c, http.StatusOK, "OK", products)
}

// Count обрабатывает GET /products/count
func (h *ProductHandler) Count(c *gin.Context) {
	count, err := h.catalogService.CountProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to count products")
		return
	}

	respondData(c, http.StatusOK, "OK", gin.H{"count": count})
}

// Get обрабатывает GET /products/:id (с цепочкой родителей)
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to get product")
		return
	}

	respondData(c, http.StatusOK, "OK", product)
}

// Update обрабатывает PATCH /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req entity.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update product")
		return
	}

	respondData(c, http.StatusOK, "Product updated successfully", product)
}

// Delete обрабатывает DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete product")
		return
	}

	respondData(c, http.StatusOK, "Product deleted successfully", nil)
}
