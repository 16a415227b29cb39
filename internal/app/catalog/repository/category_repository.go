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

type categoryRepository struct {
	collection *mongo.Collection
}

// NewCategoryRepository создает новый репозиторий категорий
// Имя категории уникально глобально - закрепляем уникальным индексом
// в дополнение к проверке через GetByName в service layer
func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	collection := db.Collection("categories")

	ensureIndexes(collection, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "main_cat_name", Value: 1}},
			Options: options.Index().
				SetName("main_cat_name_unique_idx").
				SetUnique(true).
				SetCollation(&options.Collation{Locale: "en", Strength: 2}), // case-insensitive
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_idx"),
		},
	})

	return &categoryRepository{collection: collection}
}

// Create создает новую категорию в MongoDB
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		category.ID = oid
	}

	return nil
}

// GetByID получает категорию по ID
func (r *categoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var category entity.Category
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}

// GetByName ищет категорию по имени без учета регистра
// Используется для проверки уникальности перед созданием
func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	filter := bson.M{"main_cat_name": bson.M{
		"$regex":   "^" + regexp.QuoteMeta(strings.TrimSpace(name)) + "$",
		"$options": "i",
	}}

	var category entity.Category
	err := r.collection.FindOne(ctx, filter).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}

	return &category, nil
}

// GetAll получает все категории отсортированные по имени
// Результат кешируется в Redis через service layer
func (r *categoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "main_cat_name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := make([]entity.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	return categories, nil
}

// List возвращает страницу категорий с общим количеством
func (r *categoryRepository) List(ctx context.Context, opts ListOptions) ([]entity.Category, int64, error) {
	filter := searchFilter("main_cat_name", opts.Search)

	categories := make([]entity.Category, 0, opts.Limit)
	total, err := findPage(ctx, r.collection, filter, opts, &categories)
	if err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

// Update применяет частичное обновление и возвращает обновленную категорию
func (r *categoryRepository) Update(ctx context.Context, id string, fields bson.M) (*entity.Category, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var category entity.Category
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &category, nil
}

// Delete удаляет категорию по ID
// Проверка на существующие подкатегории выполняется в service layer
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// Count возвращает общее количество категорий
func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

// AddChild добавляет id подкатегории в денормализованный mapped_children
// Массив best-effort, на целостность не влияет
func (r *categoryRepository) AddChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": parentID},
		bson.M{"$addToSet": bson.M{"mapped_children": childID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add child to category: %w", err)
	}
	return nil
}

// RemoveChild убирает id подкатегории из mapped_children
func (r *categoryRepository) RemoveChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": parentID},
		bson.M{"$pull": bson.M{"mapped_children": childID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove child from category: %w", err)
	}
	return nil
}

// ReplaceChildren полностью перезаписывает mapped_children (используется реконсайлером)
func (r *categoryRepository) ReplaceChildren(ctx context.Context, parentID primitive.ObjectID, children []primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": parentID},
		bson.M{"$set": bson.M{"mapped_children": children}},
	)
	if err != nil {
		return fmt.Errorf("failed to replace category children: %w", err)
	}
	return nil
}

// AllIDs возвращает идентификаторы всех категорий
func (r *categoryRepository) AllIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return distinctObjectIDs(ctx, r.collection, "_id", bson.M{})
}
