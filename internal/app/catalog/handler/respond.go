package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/service"
)

// respondData отправляет успешный ответ в стандартном конверте
func respondData(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, entity.Response{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// respondPage отправляет страницу данных с блоком пагинации
func respondPage(c *gin.Context, message string, data interface{}, pagination *entity.Pagination) {
	c.JSON(http.StatusOK, entity.Response{
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

// respondError отправляет ответ об ошибке в том же конверте
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, entity.Response{
		StatusCode: status,
		Message:    message,
	})
}

// respondServiceError транслирует ошибки бизнес-логики в HTTP статусы
// Неизвестные ошибки схлопываются в 500 с общим сообщением
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, "Validation failed")
	case errors.Is(err, service.ErrInvalidID):
		respondError(c, http.StatusBadRequest, "Invalid id")
	case errors.Is(err, service.ErrParentNotFound):
		respondError(c, http.StatusBadRequest, "Parent not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		respondError(c, http.StatusUnauthorized, "Invalid or expired refresh token")
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusNotFound, "Category not found")
	case errors.Is(err, service.ErrSubcategoryNotFound):
		respondError(c, http.StatusNotFound, "Subcategory not found")
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, service.ErrUserExists):
		respondError(c, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, service.ErrDuplicateName):
		respondError(c, http.StatusConflict, "Name already exists")
	case errors.Is(err, service.ErrHasChildren):
		respondError(c, http.StatusConflict, "Entity has child records")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

// formatValidationError форматирует первую ошибку валидации
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Field() + " validation failed"
	}
	return "Validation failed"
}

// parseIDList разбирает параметр-список id: повторяющиеся параметры
// и значения через запятую равнозначны
func parseIDList(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				ids = append(ids, part)
			}
		}
	}
	return ids
}
