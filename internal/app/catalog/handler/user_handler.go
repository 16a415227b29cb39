package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/service"
)

// UserHandler обрабатывает административные запросы к пользователям
// Все маршруты закрыты ролью admin на уровне роутера
type UserHandler struct {
	userService service.UserServiceInterface
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserServiceInterface) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

// List обрабатывает GET /auth/users
func (h *UserHandler) List(c *gin.Context) {
	var q entity.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	users, pagination, err := h.userService.List(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err, "Failed to list users")
		return
	}

	respondPage(c, "OK", users, pagination)
}

// Get обрабатывает GET /auth/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to get user")
		return
	}

	respondData(c, http.StatusOK, "OK", user)
}

// Update обрабатывает PUT /auth/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req entity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update user")
		return
	}

	respondData(c, http.StatusOK, "User updated successfully", user)
}

// Delete обрабатывает DELETE /auth/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete user")
		return
	}

	respondData(c, http.StatusOK, "User deleted successfully", nil)
}
