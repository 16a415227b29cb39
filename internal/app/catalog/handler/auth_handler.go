package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/service"
	"pepagora/pkg/metrics"
)

const refreshCookieName = "refreshToken"

// AuthHandler обрабатывает HTTP запросы аутентификации
type AuthHandler struct {
	authService     service.AuthServiceInterface
	validator       *validator.Validate
	refreshTokenTTL time.Duration
	production      bool
}

// NewAuthHandler создает новый обработчик аутентификации
// production управляет флагами refresh cookie: Secure + SameSite=None
func NewAuthHandler(authService service.AuthServiceInterface, refreshTokenTTL time.Duration, production bool) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		validator:       validator.New(),
		refreshTokenTTL: refreshTokenTTL,
		production:      production,
	}
}

// Signup обрабатывает POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req entity.SignupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to sign up")
		return
	}

	metrics.AuthSignups.Inc()
	respondData(c, http.StatusOK, "User registered successfully", user)
}

// Login обрабатывает POST /auth/login
// Refresh токен уходит только в HttpOnly cookie, в теле его нет
func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	user, tokens, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		metrics.AuthLogins.WithLabelValues("failed").Inc()
		respondServiceError(c, err, "Failed to login")
		return
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()

	h.setRefreshCookie(c, tokens.RefreshToken)
	respondData(c, http.StatusOK, "Login successful", entity.LoginResponse{
		AccessToken: tokens.AccessToken,
		User:        user,
	})
}

// Refresh обрабатывает POST /auth/refresh
// Токен читается из cookie и ротируется на каждый вызов
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		respondError(c, http.StatusUnauthorized, "Refresh token required")
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.clearRefreshCookie(c)
		respondServiceError(c, err, "Failed to refresh token")
		return
	}

	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()

	h.setRefreshCookie(c, tokens.RefreshToken)
	respondData(c, http.StatusOK, "Token refreshed", entity.RefreshResponse{
		AccessToken: tokens.AccessToken,
	})
}

// Logout обрабатывает POST /auth/logout
// Чистит cookie и сохраненный хэш refresh токена
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to logout")
		return
	}

	h.clearRefreshCookie(c)
	respondData(c, http.StatusOK, "Logged out successfully", nil)
}

// Me обрабатывает GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to get user info")
		return
	}

	respondData(c, http.StatusOK, "OK", user)
}

// setRefreshCookie ставит HttpOnly cookie с refresh токеном
// В production: Secure + SameSite=None (фронт на другом домене),
// в dev: SameSite=Lax без Secure
func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	if h.production {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(refreshCookieName, token, int(h.refreshTokenTTL.Seconds()), "/", "", h.production, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	if h.production {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(refreshCookieName, "", -1, "/", "", h.production, true)
}
