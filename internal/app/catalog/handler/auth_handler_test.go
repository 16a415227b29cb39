package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/repository"
	"pepagora/internal/app/catalog/repository/mocks"
	"pepagora/internal/app/catalog/service"
	"pepagora/internal/app/catalog/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Хелперы для создания тестового окружения

func newTestAuthHandler() (*AuthHandler, *mocks.MockUserRepository, *util.JWTManager) {
	userRepo := new(mocks.MockUserRepository)
	jwtManager := util.NewJWTManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)

	authService := service.NewAuthService(userRepo, jwtManager)
	h := NewAuthHandler(authService, 7*24*time.Hour, false)

	return h, userRepo, jwtManager
}

func newTestUserDoc() *entity.User {
	hash, _ := util.HashPassword("secret1")
	return &entity.User{
		ID:           primitive.NewObjectID(),
		Email:        "a@x.com",
		Username:     "a",
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
	}
}

// setupTestRouter создает тестовый Gin router с одним хендлером
func setupTestRouter(method, path string, handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	switch method {
	case http.MethodGet:
		router.GET(path, handlers...)
	case http.MethodPost:
		router.POST(path, handlers...)
	case http.MethodPut:
		router.PUT(path, handlers...)
	case http.MethodPatch:
		router.PATCH(path, handlers...)
	case http.MethodDelete:
		router.DELETE(path, handlers...)
	}
	return router
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	res := rec.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ==================== Signup ====================

func TestAuthHandler_Signup_Success(t *testing.T) {
	// Arrange
	h, userRepo, _ := newTestAuthHandler()

	userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, repository.ErrNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)

	body, _ := json.Marshal(entity.SignupRequest{
		Email:    "a@x.com",
		Username: "a",
		Password: "secret1",
		Role:     entity.RoleAdmin,
	})

	router := setupTestRouter(http.MethodPost, "/auth/signup", h.Signup)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)

	var response entity.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.NotNil(t, response.Data)
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	h, userRepo, _ := newTestAuthHandler()

	userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(newTestUserDoc(), nil)

	body, _ := json.Marshal(entity.SignupRequest{Email: "a@x.com", Username: "a", Password: "secret1"})

	router := setupTestRouter(http.MethodPost, "/auth/signup", h.Signup)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandler_Signup_InvalidBody(t *testing.T) {
	h, _, _ := newTestAuthHandler()

	router := setupTestRouter(http.MethodPost, "/auth/signup", h.Signup)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Signup_ShortPassword(t *testing.T) {
	h, _, _ := newTestAuthHandler()

	body, _ := json.Marshal(entity.SignupRequest{Email: "a@x.com", Username: "a", Password: "123"})

	router := setupTestRouter(http.MethodPost, "/auth/signup", h.Signup)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ==================== Login ====================

func TestAuthHandler_Login_Success_SetsRefreshCookie(t *testing.T) {
	// Arrange
	h, userRepo, _ := newTestAuthHandler()
	testUser := newTestUserDoc()

	userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(testUser, nil)
	userRepo.On("SetRefreshTokenHash", mock.Anything, testUser.ID, mock.AnythingOfType("string")).Return(nil)

	body, _ := json.Marshal(entity.LoginRequest{Email: "a@x.com", Password: "secret1"})

	router := setupTestRouter(http.MethodPost, "/auth/login", h.Login)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(t, rec, refreshCookieName)
	require.NotNil(t, cookie, "refresh cookie must be set")
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	// Refresh токена нет в теле ответа
	var response entity.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	data, err := json.Marshal(response.Data)
	require.NoError(t, err)
	assert.Contains(t, string(data), "accessToken")
	assert.NotContains(t, string(data), cookie.Value)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h, userRepo, _ := newTestAuthHandler()

	userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(newTestUserDoc(), nil)

	body, _ := json.Marshal(entity.LoginRequest{Email: "a@x.com", Password: "wrong-password"})

	router := setupTestRouter(http.MethodPost, "/auth/login", h.Login)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Login_UnknownEmail_SameError(t *testing.T) {
	// Ответ неотличим от неверного пароля
	h, userRepo, _ := newTestAuthHandler()

	userRepo.On("GetByEmail", mock.Anything, "nobody@x.com").Return(nil, repository.ErrNotFound)

	body, _ := json.Marshal(entity.LoginRequest{Email: "nobody@x.com", Password: "secret1"})

	router := setupTestRouter(http.MethodPost, "/auth/login", h.Login)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var response entity.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Invalid email or password", response.Message)
}

// ==================== Refresh ====================

func TestAuthHandler_Refresh_Success_RotatesToken(t *testing.T) {
	// Arrange
	h, userRepo, jwtManager := newTestAuthHandler()
	testUser := newTestUserDoc()

	refreshToken, err := jwtManager.GenerateRefreshToken(testUser.ID.Hex())
	require.NoError(t, err)
	testUser.RefreshTokenHash = util.HashToken(refreshToken)

	userRepo.On("GetByID", mock.Anything, testUser.ID.Hex()).Return(testUser, nil)
	userRepo.On("SetRefreshTokenHash", mock.Anything, testUser.ID, mock.AnythingOfType("string")).Return(nil)

	router := setupTestRouter(http.MethodPost, "/auth/refresh", h.Refresh)
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refreshToken})
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(t, rec, refreshCookieName)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)

	var response entity.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, http.StatusOK, response.StatusCode)
}

func TestAuthHandler_Refresh_NoCookie(t *testing.T) {
	h, _, _ := newTestAuthHandler()

	router := setupTestRouter(http.MethodPost, "/auth/refresh", h.Refresh)
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Refresh_ExpiredToken(t *testing.T) {
	h, _, _ := newTestAuthHandler()

	expired := util.NewJWTManager("test-secret-key", 15*time.Minute, -time.Minute)
	token, err := expired.GenerateRefreshToken(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	router := setupTestRouter(http.MethodPost, "/auth/refresh", h.Refresh)
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: token})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Невалидная cookie затирается
	cookie := findCookie(t, rec, refreshCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

// ==================== Logout ====================

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	// Arrange
	h, userRepo, jwtManager := newTestAuthHandler()
	testUser := newTestUserDoc()

	userRepo.On("GetByID", mock.Anything, testUser.ID.Hex()).Return(testUser, nil)
	userRepo.On("SetRefreshTokenHash", mock.Anything, testUser.ID, "").Return(nil)

	accessToken, err := jwtManager.GenerateAccessToken(testUser.ID.Hex(), testUser.Email, testUser.Role)
	require.NoError(t, err)

	authMiddleware := NewAuthMiddleware(jwtManager)
	router := setupTestRouter(http.MethodPost, "/auth/logout", authMiddleware.Authenticate(), h.Logout)
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(t, rec, refreshCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)

	userRepo.AssertExpectations(t)
}
