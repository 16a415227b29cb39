package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pepagora/internal/app/catalog/entity"
	"pepagora/internal/app/catalog/repository"
	"pepagora/internal/app/catalog/util"
	"pepagora/pkg/logger"
	"pepagora/pkg/metrics"
)

const (
	categoriesCacheTTL = time.Hour
	countCacheTTL      = time.Minute
)

// CatalogService обрабатывает бизнес-логику каталога
// Координирует репозитории, Redis кеш и Kafka producer
// Сервис не хранит состояния: каждый вызов - чистая функция от (фильтр, пагинация)
type CatalogService struct {
	categoryRepo    repository.CategoryRepository
	subcategoryRepo repository.SubcategoryRepository
	productRepo     repository.ProductRepository
	cache           util.CatalogCache
	publisher       util.MessagePublisher
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	subcategoryRepo repository.SubcategoryRepository,
	productRepo repository.ProductRepository,
	cache util.CatalogCache,
	publisher util.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		productRepo:     productRepo,
		cache:           cache,
		publisher:       publisher,
	}
}

// ===== CATEGORIES =====

// CreateCategory создает категорию
// Имя уникально глобально (без учета регистра), конфликт - ErrDuplicateName
func (s *CatalogService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	existing, err := s.categoryRepo.GetByName(ctx, req.MainCatName)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	category := &entity.Category{
		MainCatName:     strings.TrimSpace(req.MainCatName),
		UniqueID:        orGenerated(req.UniqueID),
		LiveURL:         req.LiveURL,
		MetaTitle:       req.MetaTitle,
		MetaKeyword:     req.MetaKeyword,
		MetaDescription: req.MetaDescription,
		ImageURL:        req.ImageURL,
		Description:     req.Description,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)
	s.publishEvent(ctx, "CATEGORY_CREATED", "category", category.ID.Hex(), category.MainCatName, "")
	metrics.RecordCatalogOperation("category", "create")

	return category, nil
}

// GetCategory получает категорию по ID
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogRepoError(err, ErrCategoryNotFound)
	}
	return category, nil
}

// GetAllCategories возвращает полный список категорий с кешированием в Redis
// Используется админ-консолью для выпадающих списков родителей
func (s *CatalogService) GetAllCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.cache.GetCategories(ctx)
	if err == nil && categories != nil {
		return categories, nil
	}

	categories, err = s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	if err := s.cache.SetCategories(ctx, categories, categoriesCacheTTL); err != nil {
		// Данные получены из БД, проблемы с кешем не критичны
		logger.Warn().Err(err).Msg("failed to cache categories")
	}

	return categories, nil
}

// ListCategories возвращает страницу категорий
func (s *CatalogService) ListCategories(ctx context.Context, q entity.ListQuery) ([]entity.Category, *entity.Pagination, error) {
	opts := normalizeListQuery(q, MaxCategoryPageSize)

	categories, total, err := s.categoryRepo.List(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, buildPagination(total, opts), nil
}

// UpdateCategory применяет частичное обновление категории
// Пустой patch - no-op; смена имени проходит проверку уникальности
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, req *entity.UpdateCategoryRequest) (*entity.Category, error) {
	fields := bson.M{}
	if req.MainCatName != nil {
		name := strings.TrimSpace(*req.MainCatName)
		existing, err := s.categoryRepo.GetByName(ctx, name)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to check category name: %w", err)
		}
		if existing != nil && existing.ID.Hex() != id {
			return nil, ErrDuplicateName
		}
		fields["main_cat_name"] = name
	}
	setIfPresent(fields, "live_url", req.LiveURL)
	setIfPresent(fields, "meta_title", req.MetaTitle)
	setIfPresent(fields, "meta_keyword", req.MetaKeyword)
	setIfPresent(fields, "meta_description", req.MetaDescription)
	setIfPresent(fields, "image_url", req.ImageURL)
	setIfPresent(fields, "description", req.Description)

	if len(fields) == 0 {
		return s.GetCategory(ctx, id)
	}

	category, err := s.categoryRepo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, mapCatalogRepoError(err, ErrCategoryNotFound)
	}

	s.invalidateCategoriesCache(ctx)
	s.publishEvent(ctx, "CATEGORY_UPDATED", "category", category.ID.Hex(), category.MainCatName, "")
	metrics.RecordCatalogOperation("category", "update")

	return category, nil
}

// DeleteCategory удаляет категорию
// Удаление запрещено, пока существуют подкатегории (ErrHasChildren, 409)
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return mapCatalogRepoError(err, ErrCategoryNotFound)
	}

	children, err := s.subcategoryRepo.CountByParent(ctx, category.ID)
	if err != nil {
		return fmt.Errorf("failed to count subcategories: %w", err)
	}
	if children > 0 {
		return ErrHasChildren
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return mapCatalogRepoError(err, ErrCategoryNotFound)
	}

	s.invalidateCategoriesCache(ctx)
	s.publishEvent(ctx, "CATEGORY_DELETED", "category", id, category.MainCatName, "")
	metrics.RecordCatalogOperation("category", "delete")

	return nil
}

// ===== SUBCATEGORIES =====

// CreateSubcategory создает подкатегорию
// mappedParent должен указывать на существующую категорию
// Имя уникально внутри родительской категории (проверка по sub_cat_name)
func (s *CatalogService) CreateSubcategory(ctx context.Context, req *entity.CreateSubcategoryRequest) (*entity.Subcategory, error) {
	parent, err := s.categoryRepo.GetByID(ctx, req.MappedParent)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("failed to verify parent category: %w", err)
	}

	existing, err := s.subcategoryRepo.GetByNameInParent(ctx, req.SubCatName, parent.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check subcategory name: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	subcategory := &entity.Subcategory{
		SubCatName:      strings.TrimSpace(req.SubCatName),
		MappedParent:    parent.ID,
		UniqueID:        orGenerated(req.UniqueID),
		LiveURL:         req.LiveURL,
		MetaTitle:       req.MetaTitle,
		MetaKeyword:     req.MetaKeyword,
		MetaDescription: req.MetaDescription,
		SubCatImgURL:    req.SubCatImgURL,
		Description:     req.Description,
	}

	if err := s.subcategoryRepo.Create(ctx, subcategory); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create subcategory: %w", err)
	}

	// mapped_children - best-effort проекция, ошибки не прерывают операцию
	if err := s.categoryRepo.AddChild(ctx, parent.ID, subcategory.ID); err != nil {
		logger.Warn().Err(err).Msg("failed to update category children")
	}

	s.invalidateCount(ctx, "subcategories")
	s.publishEvent(ctx, "SUBCATEGORY_CREATED", "subcategory", subcategory.ID.Hex(), subcategory.SubCatName, parent.ID.Hex())
	metrics.RecordCatalogOperation("subcategory", "create")

	return subcategory, nil
}

// GetSubcategory получает подкатегорию с родительской категорией
func (s *CatalogService) GetSubcategory(ctx context.Context, id string) (*entity.SubcategoryWithParent, error) {
	subcategory, err := s.subcategoryRepo.GetWithParent(ctx, id)
	if err != nil {
		return nil, mapCatalogRepoError(err, ErrSubcategoryNotFound)
	}
	return subcategory, nil
}

// ListSubcategories возвращает страницу подкатегорий
func (s *CatalogService) ListSubcategories(ctx context.Context, q entity.ListQuery) ([]entity.Subcategory, *entity.Pagination, error) {
	opts := normalizeListQuery(q, MaxSubcategoryPageSize)

	subcategories, total, err := s.subcategoryRepo.List(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list subcategories: %w", err)
	}

	return subcategories, buildPagination(total, opts), nil
}

// ListSubcategoriesByCategory возвращает страницу подкатегорий одной категории
func (s *CatalogService) ListSubcategoriesByCategory(ctx context.Context, categoryID string, q entity.ListQuery) ([]entity.Subcategory, *entity.Pagination, error) {
	parent, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, nil, mapCatalogRepoError(err, ErrCategoryNotFound)
	}

	opts := normalizeListQuery(q, MaxSubcategoryPageSize)

	subcategories, total, err := s.subcategoryRepo.ListByParent(ctx, parent.ID, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list subcategories by category: %w", err)
	}

	return subcategories, buildPagination(total, opts), nil
}

// FilterSubcategories возвращает подкатегории указанных категорий с родителями
// Пустой список категорий = без фильтра
func (s *CatalogService) FilterSubcategories(ctx context.Context, categoryIDs []string) ([]entity.SubcategoryWithParent, error) {
	var parentIDs []primitive.ObjectID
	if len(categoryIDs) > 0 {
		ids, err := parseObjectIDs(categoryIDs)
		if err != nil {
			return nil, err
		}
		parentIDs = ids
	}

	subcategories, err := s.subcategoryRepo.FindByParents(ctx, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to filter subcategories: %w", err)
	}

	return subcategories, nil
}

// UpdateSubcategory применяет частичное обновление подкатегории
func (s *CatalogService) UpdateSubcategory(ctx context.Context, id string, req *entity.UpdateSubcategoryRequest) (*entity.Subcategory, error) {
	current, err := s.subcategoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogRepoError(err, ErrSubcategoryNotFound)
	}

	fields := bson.M{}
	targetParent := current.MappedParent

	if req.MappedParent != nil {
		parent, err := s.categoryRepo.GetByID(ctx, *req.MappedParent)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to verify parent category: %w", err)
		}
		targetParent = parent.ID
		fields["mapped_parent"] = parent.ID
	}

	if req.SubCatName != nil {
		name := strings.TrimSpace(*req.SubCatName)
		existing, err := s.subcategoryRepo.GetByNameInParent(ctx, name, targetParent)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to check subcategory name: %w", err)
		}
		if existing != nil && existing.ID != current.ID {
			return nil, ErrDuplicateName
		}
		fields["sub_cat_name"] = name
	}

	setIfPresent(fields, "live_url", req.LiveURL)
	setIfPresent(fields, "meta_title", req.MetaTitle)
	setIfPresent(fields, "meta_keyword", req.MetaKeyword)
	setIfPresent(fields, "meta_description", req.MetaDescription)
	setIfPresent(fields, "sub_cat_img_url", req.SubCatImgURL)
	setIfPresent(fields, "description", req.Description)

	if len(fields) == 0 {
		return current, nil
	}

	subcategory, err := s.subcategoryRepo.Update(ctx, id, fields)
	if err != nil {
		return nil, mapCatalogRepoError(err, ErrSubcategoryNotFound)
	}

	// При переносе в другую категорию поддерживаем best-effort проекции родителей
	if req.MappedParent != nil && targetParent != current.MappedParent {
		if err := s.categoryRepo.RemoveChild(ctx, current.MappedParent, current.ID); err != nil {
			logger.Warn().Err(err).Msg("failed to update old category children")
		}
		if err := s.categoryRepo.AddChild(ctx, targetParent, current.ID); err != nil {
			logger.Warn().Err(err).Msg("failed to update new category children")
		}
	}

	s.publishEvent(ctx, "SUBCATEGORY_UPDATED", "subcategory", subcategory.ID.Hex(), subcategory.SubCatName, subcategory.MappedParent.Hex())
	metrics.RecordCatalogOperation("subcategory", "update")

	return subcategory, nil
}

// DeleteSubcategory удаляет подкатегорию
// Удаление запрещено, пока существуют товары (ErrHasChildren, 409)
func (s *CatalogService) DeleteSubcategory(ctx context.Context, id string) error {
	subcategory, err := s.subcategoryRepo.GetByID(ctx, id)
	if err != nil {
		return mapCatalogRepoError(err, ErrSubcategoryNotFound)
	}

	children, err := s.productRepo.CountByParent(ctx, subcategory.ID)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if children > 0 {
		return ErrHasChildren
	}

	if err := s.subcategoryRepo.Delete(ctx, id); err != nil {
		return mapCatalogRepoError(err, ErrSubcategoryNotFound)
	}

	if err := s.categoryRepo.RemoveChild(ctx, subcategory.MappedParent, subcategory.ID); err != nil {
		logger.Warn().Err(err).Msg("failed to update category children")
	}

	s.invalidateCount(ctx, "subcategories")
	s.publishEvent(ctx, "SUBCATEGORY_DELETED", "subcategory", id, subcategory.SubCatName, subcategory.MappedParent.Hex())
	metrics.RecordCatalogOperation("subcategory", "delete")

	return nil
}

// CountSubcategories возвращает общее количество подкатегорий (с кешем)
func (s *CatalogService) CountSubcategories(ctx context.Context) (int64, error) {
	return s.cachedCount(ctx, "subcategories", s.subcategoryRepo.Count)
}

// ===== PRODUCTS =====

// CreateProduct создает товар
// mappedParent должен указывать на существующую подкатегорию
func (s *CatalogService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	parent, err := s.subcategoryRepo.GetByID(ctx, req.MappedParent)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("failed to verify parent subcategory: %w", err)
	}

	existing, err := s.productRepo.GetByNameInParent(ctx, req.Name, parent.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check product name: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	product := &entity.Product{
		Name:            strings.TrimSpace(req.Name),
		MappedParent:    parent.ID,
		UniqueID:        orGenerated(req.UniqueID),
		LiveURL:         req.LiveURL,
		MetaTitle:       req.MetaTitle,
		MetaKeyword:     req.MetaKeyword,
		MetaDescription: req.MetaDescription,
		ImageURL:        req.ImageURL,
		Description:     req.Description,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if err := s.subcategoryRepo.AddChild(ctx, parent.ID, product.ID); err != nil {
		logger.Warn().Err(err).Msg("failed to update subcategory children")
	}

	s.invalidateCount(ctx, "products")
	s.publishEvent(ctx, "PRODUCT_CREATED", "product", product.ID.Hex(), product.Name, parent.ID.Hex())
	metrics.RecordCatalogOperation("product", "create")

	return product, nil
}

// GetProduct получает товар с цепочкой родителей (подкатегория + категория)
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.ProductWithParents, error) {
	product, err := s.productRepo.GetWithParents(ctx, id)
	if err != nil {
		return nil, mapCatalogRepoError(err, ErrProductNotFound)
	}
	return product, nil
}

// ListProducts возвращает страницу товаров
func (s *CatalogService) ListProducts(ctx context.Context, q entity.ListQuery) ([]entity.Product, *entity.Pagination, error) {
	opts := normalizeListQuery(q, MaxProductPageSize)

	products, total, err := s.productRepo.List(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, buildPagination(total, opts), nil
}

// FilterProducts возвращает товары по фильтру категорий/подкатегорий
// Алгоритм: id подкатегорий указанных категорий объединяются с явно
// переданными id подкатегорий (без дублей), затем выбираются товары,
// чей mappedParent входит в результирующее множество
// Оба фильтра пустые = полный список (вызывающий должен это учитывать)
func (s *CatalogService) FilterProducts(ctx context.Context, categoryIDs, subcategoryIDs []string) ([]entity.ProductWithParents, error) {
	var parentIDs []primitive.ObjectID

	switch {
	case len(categoryIDs) > 0:
		catIDs, err := parseObjectIDs(categoryIDs)
		if err != nil {
			return nil, err
		}

		resolved, err := s.subcategoryRepo.IDsByParents(ctx, catIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve subcategories: %w", err)
		}

		explicit, err := parseObjectIDs(subcategoryIDs)
		if err != nil {
			return nil, err
		}

		parentIDs = unionObjectIDs(resolved, explicit)
	case len(subcategoryIDs) > 0:
		ids, err := parseObjectIDs(subcategoryIDs)
		if err != nil {
			return nil, err
		}
		parentIDs = unionObjectIDs(ids, nil)
	default:
		// nil = без фильтра
		parentIDs = nil
	}

	products, err := s.productRepo.FindByParents(ctx, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}

	return products, nil
}

// UpdateProduct применяет частичное обновление товара
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req *entity.UpdateProductRequest) (*entity.Product, error) {
	current, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogRepoError(err, ErrProductNotFound)
	}

	fields := bson.M{}
	targetParent := current.MappedParent

	if req.MappedParent != nil {
		parent, err := s.subcategoryRepo.GetByID(ctx, *req.MappedParent)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to verify parent subcategory: %w", err)
		}
		targetParent = parent.ID
		fields["mapped_parent"] = parent.ID
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		existing, err := s.productRepo.GetByNameInParent(ctx, name, targetParent)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to check product name: %w", err)
		}
		if existing != nil && existing.ID != current.ID {
			return nil, ErrDuplicateName
		}
		fields["name"] = name
	}

	setIfPresent(fields, "live_url", req.LiveURL)
	setIfPresent(fields, "meta_title", req.MetaTitle)
	setIfPresent(fields, "meta_keyword", req.MetaKeyword)
	setIfPresent(fields, "meta_description", req.MetaDescription)
	setIfPresent(fields, "image_url", req.ImageURL)
	setIfPresent(fields, "description", req.Description)

	if len(fields) == 0 {
		return current, nil
	}

	product, err := s.productRepo.Update(ctx, id, fields)
	if err != nil {
		return nil, mapCatalogRepoError(err, ErrProductNotFound)
	}

	if req.MappedParent != nil && targetParent != current.MappedParent {
		if err := s.subcategoryRepo.RemoveChild(ctx, current.MappedParent, current.ID); err != nil {
			logger.Warn().Err(err).Msg("failed to update old subcategory children")
		}
		if err := s.subcategoryRepo.AddChild(ctx, targetParent, current.ID); err != nil {
			logger.Warn().Err(err).Msg("failed to update new subcategory children")
		}
	}

	s.publishEvent(ctx, "PRODUCT_UPDATED", "product", product.ID.Hex(), product.Name, product.MappedParent.Hex())
	metrics.RecordCatalogOperation("product", "update")

	return product, nil
}

// DeleteProduct удаляет товар
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return mapCatalogRepoError(err, ErrProductNotFound)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return mapCatalogRepoError(err, ErrProductNotFound)
	}

	if err := s.subcategoryRepo.RemoveChild(ctx, product.MappedParent, product.ID); err != nil {
		logger.Warn().Err(err).Msg("failed to update subcategory children")
	}

	s.invalidateCount(ctx, "products")
	s.publishEvent(ctx, "PRODUCT_DELETED", "product", id, product.Name, product.MappedParent.Hex())
	metrics.RecordCatalogOperation("product", "delete")

	return nil
}

// CountProducts возвращает общее количество товаров (с кешем)
func (s *CatalogService) CountProducts(ctx context.Context) (int64, error) {
	return s.cachedCount(ctx, "products", s.productRepo.Count)
}

// ===== helpers =====

// cachedCount - cache-aside чтение счетчика с коротким TTL
func (s *CatalogService) cachedCount(ctx context.Context, name string, load func(context.Context) (int64, error)) (int64, error) {
	if count, ok, err := s.cache.GetCount(ctx, name); err == nil && ok {
		return count, nil
	}

	count, err := load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", name, err)
	}

	if err := s.cache.SetCount(ctx, name, count, countCacheTTL); err != nil {
		logger.Warn().Err(err).Str("counter", name).Msg("failed to cache count")
	}

	return count, nil
}

func (s *CatalogService) invalidateCategoriesCache(ctx context.Context) {
	if err := s.cache.DeleteCategories(ctx); err != nil {
		// Категория уже изменена, проблемы с кешем не критичны
		logger.Warn().Err(err).Msg("failed to invalidate categories cache")
	}
}

func (s *CatalogService) invalidateCount(ctx context.Context, name string) {
	if err := s.cache.DeleteCount(ctx, name); err != nil {
		logger.Warn().Err(err).Str("counter", name).Msg("failed to invalidate count cache")
	}
}

// publishEvent отправляет событие каталога в Kafka (best-effort)
func (s *CatalogService) publishEvent(ctx context.Context, eventType, entityName, entityID, name, parentID string) {
	event := entity.CatalogEvent{
		EventType: eventType,
		Entity:    entityName,
		EntityID:  entityID,
		Name:      name,
		ParentID:  parentID,
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal catalog event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, entityID, payload); err != nil {
		// Доставка событий best-effort: каталог уже изменен
		logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish catalog event")
	}
}

// mapCatalogRepoError транслирует ошибки репозитория в ошибки бизнес-логики
func mapCatalogRepoError(err error, notFound error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrInvalidID):
		return ErrInvalidID
	default:
		return fmt.Errorf("catalog repository error: %w", err)
	}
}

// parseObjectIDs преобразует hex-строки в ObjectID, схлопывая некорректные в ErrInvalidID
func parseObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	result := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
		if err != nil {
			return nil, ErrInvalidID
		}
		result = append(result, oid)
	}
	return result, nil
}

// unionObjectIDs объединяет два набора id без дублей
func unionObjectIDs(a, b []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(a)+len(b))
	result := make([]primitive.ObjectID, 0, len(a)+len(b))

	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			result = append(result, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			result = append(result, id)
		}
	}

	return result
}

// setIfPresent добавляет поле в patch только если оно присутствует в запросе
func setIfPresent(fields bson.M, key string, value *string) {
	if value != nil {
		fields[key] = *value
	}
}

// orGenerated возвращает переданный uniqueId или генерирует новый
func orGenerated(uniqueID string) string {
	if uniqueID != "" {
		return uniqueID
	}
	return uuid.New().String()
}
