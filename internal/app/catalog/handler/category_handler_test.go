package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/repository"
	"pepagora/internal/app/catalog/repository/mocks"
	"pepagora/internal/app/catalog/service"
)

type catalogHandlerMocks struct {
	categoryRepo    *mocks.MockCategoryRepository
	subcategoryRepo *mocks.MockSubcategoryRepository
	productRepo     *mocks.MockProductRepository
	cache           *mocks.MockCatalogCache
	publisher       *mocks.MockMessagePublisher
}

func newTestCategoryHandler() (*CategoryHandler, *catalogHandlerMocks) {
	m := &catalogHandlerMocks{
		categoryRepo:    new(mocks.MockCategoryRepository),
		subcategoryRepo: new(mocks.MockSubcategoryRepository),
		productRepo:     new(mocks.MockProductRepository),
		cache:           new(mocks.MockCatalogCache),
		publisher:       new(mocks.MockMessagePublisher),
	}
	svc := service.NewCatalogService(m.categoryRepo, m.subcategoryRepo, m.productRepo, m.cache, m.publisher)
	return NewCategoryHandler(svc), m
}

func newTestCategoryDoc() *entity.Category {
	return &entity.Category{
		ID:          primitive.NewObjectID(),
		MainCatName: "Electronics",
		UniqueID:    "cat-001",
		CreatedAt:   time.Now(),
	}
}

func TestCategoryHandler_Create_Success(t *testing.T) {
	// Arrange
	h, m := newTestCategoryHandler()

	m.categoryRepo.On("GetByName", mock.Anything, "Electronics").Return(nil, repository.ErrNotFound)
	m.categoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Category")).Return(nil)
	m.cache.On("DeleteCategories", mock.Anything).Return(nil)
	m.publisher.On("PublishMessage", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("[]uint8")).Return(nil)

	body, _ := json.Marshal(entity.CreateCategoryRequest{MainCatName: "Electronics"})

	router := setupTestRouter(http.MethodPost, "/categories", h.Create)
	req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusCreated, rec.Code)

	var response entity.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, http.StatusCreated, response.StatusCode)
	assert.NotNil(t, response.Data)
}

func TestCategoryHandler_Create_DuplicateName(t *testing.T) {
	h, m := newTestCategoryHandler()

	m.categoryRepo.On("GetByName", mock.Anything, "Electronics").Return(newTestCategoryDoc(), nil)

	body, _ := json.Marshal(entity.CreateCategoryRequest{MainCatName: "Electronics"})

	router := setupTestRouter(http.MethodPost, "/categories", h.Create)
	req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCategoryHandler_Create_MissingName(t *testing.T) {
	h, _ := newTestCategoryHandler()

	body, _ := json.Marshal(entity.CreateCategoryRequest{Description: "no name"})

	router := setupTestRouter(http.MethodPost, "/categories", h.Create)
	req := httptest.NewRequest(http.MethodPost, "/categories", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoryHandler_Get_NotFound(t *testing.T) {
	h, m := newTestCategoryHandler()
	id := primitive.NewObjectID().Hex()

	m.categoryRepo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

	router := setupTestRouter(http.MethodGet, "/categories/:id", h.Get)
	req := httptest.NewRequest(http.MethodGet, "/categories/"+id, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryHandler_Get_MalformedID(t *testing.T) {
	h, m := newTestCategoryHandler()

	m.categoryRepo.On("GetByID", mock.Anything, "garbage").Return(nil, repository.ErrInvalidID)

	router := setupTestRouter(http.MethodGet, "/categories/:id", h.Get)
	req := httptest.NewRequest(http.MethodGet, "/categories/garbage", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoryHandler_List_Envelope(t *testing.T) {
	// Пустая коллекция: data=[], totalCount=0, totalPages=0
	h, m := newTestCategoryHandler()

	m.categoryRepo.On("List", mock.Anything, mock.AnythingOfType("repository.ListOptions")).
		Return([]entity.Category{}, int64(0), nil)

	router := setupTestRouter(http.MethodGet, "/categories", h.List)
	req := httptest.NewRequest(http.MethodGet, "/categories?page=1&limit=10", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response entity.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotNil(t, response.Pagination)
	assert.Equal(t, int64(0), response.Pagination.TotalCount)
	assert.Equal(t, int64(0), response.Pagination.TotalPages)
	assert.Equal(t, int64(1), response.Pagination.CurrentPage)
	assert.Equal(t, int64(10), response.Pagination.PageSize)
}

func TestCategoryHandler_Delete_Conflict(t *testing.T) {
	h, m := newTestCategoryHandler()
	existing := newTestCategoryDoc()

	m.categoryRepo.On("GetByID", mock.Anything, existing.ID.Hex()).Return(existing, nil)
	m.subcategoryRepo.On("CountByParent", mock.Anything, existing.ID).Return(int64(2), nil)

	router := setupTestRouter(http.MethodDelete, "/categories/:id", h.Delete)
	req := httptest.NewRequest(http.MethodDelete, "/categories/"+existing.ID.Hex(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
