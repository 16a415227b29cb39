package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"pepagora/internal/app/catalog/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productRepository struct {
	collection *mongo.Collection
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *mongo.Database) ProductRepository {
	collection := db.Collection("products")

	ensureIndexes(collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "mapped_parent", Value: 1}},
			Options: options.Index().SetName("mapped_parent_idx"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_idx"),
		},
	})

	return &productRepository{collection: collection}
}

// grandparentLookupStages - pipeline двухуровневого джойна
// Product -> Subcategory (mapped_parent) -> Category (subcategory.mapped_parent)
func grandparentLookupStages() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         "subcategories",
			"localField":   "mapped_parent",
			"foreignField": "_id",
			"as":           "subcategory",
		}},
		{"$unwind": bson.M{"path": "$subcategory", "preserveNullAndEmptyArrays": true}},
		{"$lookup": bson.M{
			"from":         "categories",
			"localField":   "subcategory.mapped_parent",
			"foreignField": "_id",
			"as":           "category",
		}},
		{"$unwind": bson.M{"path": "$category", "preserveNullAndEmptyArrays": true}},
	}
}

// Create создает новый товар в MongoDB
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}

	return nil
}

// GetByID получает товар по ID
func (r *productRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var product entity.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// GetWithParents получает товар с подкатегорией и категорией (live два уровня)
func (r *productRepository) GetWithParents(ctx context.Context, id string) (*entity.ProductWithParents, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	pipeline := append([]bson.M{{"$match": bson.M{"_id": oid}}}, grandparentLookupStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate product: %w", err)
	}
	defer cursor.Close(ctx)

	var results []entity.ProductWithParents
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrNotFound
	}

	return &results[0], nil
}

// GetByNameInParent ищет товар по имени внутри подкатегории
func (r *productRepository) GetByNameInParent(ctx context.Context, name string, parentID primitive.ObjectID) (*entity.Product, error) {
	filter := bson.M{
		"mapped_parent": parentID,
		"name": bson.M{
			"$regex":   "^" + regexp.QuoteMeta(strings.TrimSpace(name)) + "$",
			"$options": "i",
		},
	}

	var product entity.Product
	err := r.collection.FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by name: %w", err)
	}

	return &product, nil
}

// List возвращает страницу товаров с общим количеством
func (r *productRepository) List(ctx context.Context, opts ListOptions) ([]entity.Product, int64, error) {
	filter := searchFilter("name", opts.Search)

	products := make([]entity.Product, 0, opts.Limit)
	total, err := findPage(ctx, r.collection, filter, opts, &products)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// FindByParents возвращает все товары указанных подкатегорий с двумя уровнями родителей
// Выборка без пагинации - контракт /products/filter
// nil parentIDs = без фильтра (все товары); пустой слайс не матчит ничего
func (r *productRepository) FindByParents(ctx context.Context, parentIDs []primitive.ObjectID) ([]entity.ProductWithParents, error) {
	pipeline := make([]bson.M, 0, 6)
	if parentIDs != nil {
		pipeline = append(pipeline, bson.M{"$match": bson.M{"mapped_parent": bson.M{"$in": parentIDs}}})
	}
	pipeline = append(pipeline, bson.M{"$sort": bson.M{"name": 1}})
	pipeline = append(pipeline, grandparentLookupStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate products: %w", err)
	}
	defer cursor.Close(ctx)

	results := make([]entity.ProductWithParents, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return results, nil
}

// IDsByParent возвращает id товаров одной подкатегории (для реконсайлера)
func (r *productRepository) IDsByParent(ctx context.Context, parentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return distinctObjectIDs(ctx, r.collection, "_id", bson.M{"mapped_parent": parentID})
}

// Update применяет частичное обновление и возвращает обновленный товар
func (r *productRepository) Update(ctx context.Context, id string, fields bson.M) (*entity.Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product entity.Product
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &product, nil
}

// Delete удаляет товар по ID
func (r *productRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// Count возвращает общее количество товаров
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// CountByParent возвращает количество товаров в подкатегории
// Используется для запрета удаления подкатегории с товарами
func (r *productRepository) CountByParent(ctx context.Context, parentID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"mapped_parent": parentID})
	if err != nil {
		return 0, fmt.Errorf("failed to count products by parent: %w", err)
	}
	return count, nil
}
