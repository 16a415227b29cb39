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

type subcategoryRepository struct {
	collection *mongo.Collection
}

// NewSubcategoryRepository создает новый репозиторий подкатегорий
// Индекс по mapped_parent нужен для фильтрации и резолвинга товаров по категории
func NewSubcategoryRepository(db *mongo.Database) SubcategoryRepository {
	collection := db.Collection("subcategories")

	ensureIndexes(collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "mapped_parent", Value: 1}},
			Options: options.Index().SetName("mapped_parent_idx"),
		},
		{
			Keys:    bson.D{{Key: "mapped_parent", Value: 1}, {Key: "sub_cat_name", Value: 1}},
			Options: options.Index().SetName("parent_name_idx"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_idx"),
		},
	})

	return &subcategoryRepository{collection: collection}
}

// parentLookupStages - стадии aggregation pipeline для подтягивания родительской категории
func parentLookupStages() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         "categories",
			"localField":   "mapped_parent",
			"foreignField": "_id",
			"as":           "parent",
		}},
		// preserveNullAndEmptyArrays: подкатегория с осиротевшим родителем не теряется
		{"$unwind": bson.M{"path": "$parent", "preserveNullAndEmptyArrays": true}},
	}
}

// Create создает новую подкатегорию в MongoDB
func (r *subcategoryRepository) Create(ctx context.Context, subcategory *entity.Subcategory) error {
	subcategory.CreatedAt = time.Now()
	subcategory.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, subcategory)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create subcategory: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		subcategory.ID = oid
	}

	return nil
}

// GetByID получает подкатегорию по ID
func (r *subcategoryRepository) GetByID(ctx context.Context, id string) (*entity.Subcategory, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var subcategory entity.Subcategory
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&subcategory)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}

	return &subcategory, nil
}

// GetWithParent получает подкатегорию с родительской категорией (live join)
func (r *subcategoryRepository) GetWithParent(ctx context.Context, id string) (*entity.SubcategoryWithParent, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	pipeline := append([]bson.M{{"$match": bson.M{"_id": oid}}}, parentLookupStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate subcategory: %w", err)
	}
	defer cursor.Close(ctx)

	var results []entity.SubcategoryWithParent
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode subcategory: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrNotFound
	}

	return &results[0], nil
}

// GetByNameInParent ищет подкатегорию по имени внутри родительской категории
// Сравнение по sub_cat_name без учета регистра
func (r *subcategoryRepository) GetByNameInParent(ctx context.Context, name string, parentID primitive.ObjectID) (*entity.Subcategory, error) {
	filter := bson.M{
		"mapped_parent": parentID,
		"sub_cat_name": bson.M{
			"$regex":   "^" + regexp.QuoteMeta(strings.TrimSpace(name)) + "$",
			"$options": "i",
		},
	}

	var subcategory entity.Subcategory
	err := r.collection.FindOne(ctx, filter).Decode(&subcategory)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subcategory by name: %w", err)
	}

	return &subcategory, nil
}

// List возвращает страницу подкатегорий с общим количеством
func (r *subcategoryRepository) List(ctx context.Context, opts ListOptions) ([]entity.Subcategory, int64, error) {
	filter := searchFilter("sub_cat_name", opts.Search)

	subcategories := make([]entity.Subcategory, 0, opts.Limit)
	total, err := findPage(ctx, r.collection, filter, opts, &subcategories)
	if err != nil {
		return nil, 0, err
	}

	return subcategories, total, nil
}

// ListByParent возвращает страницу подкатегорий одной категории
func (r *subcategoryRepository) ListByParent(ctx context.Context, parentID primitive.ObjectID, opts ListOptions) ([]entity.Subcategory, int64, error) {
	filter := searchFilter("sub_cat_name", opts.Search)
	filter["mapped_parent"] = parentID

	subcategories := make([]entity.Subcategory, 0, opts.Limit)
	total, err := findPage(ctx, r.collection, filter, opts, &subcategories)
	if err != nil {
		return nil, 0, err
	}

	return subcategories, total, nil
}

// FindByParents возвращает подкатегории указанных категорий с родителями
// nil parentIDs = без фильтра (все подкатегории)
func (r *subcategoryRepository) FindByParents(ctx context.Context, parentIDs []primitive.ObjectID) ([]entity.SubcategoryWithParent, error) {
	pipeline := make([]bson.M, 0, 4)
	if parentIDs != nil {
		pipeline = append(pipeline, bson.M{"$match": bson.M{"mapped_parent": bson.M{"$in": parentIDs}}})
	}
	pipeline = append(pipeline, bson.M{"$sort": bson.M{"sub_cat_name": 1}})
	pipeline = append(pipeline, parentLookupStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate subcategories: %w", err)
	}
	defer cursor.Close(ctx)

	results := make([]entity.SubcategoryWithParent, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode subcategories: %w", err)
	}

	return results, nil
}

// IDsByParents возвращает id подкатегорий, чей mapped_parent входит в parentIDs
// Используется Catalog Query Engine для фильтрации товаров по категориям
func (r *subcategoryRepository) IDsByParents(ctx context.Context, parentIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	return distinctObjectIDs(ctx, r.collection, "_id", bson.M{"mapped_parent": bson.M{"$in": parentIDs}})
}

// Update применяет частичное обновление и возвращает обновленную подкатегорию
func (r *subcategoryRepository) Update(ctx context.Context, id string, fields bson.M) (*entity.Subcategory, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var subcategory entity.Subcategory
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&subcategory)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update subcategory: %w", err)
	}

	return &subcategory, nil
}

// Delete удаляет подкатегорию по ID
func (r *subcategoryRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// Count возвращает общее количество подкатегорий
func (r *subcategoryRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count subcategories: %w", err)
	}
	return count, nil
}

// CountByParent возвращает количество подкатегорий у категории
// Используется для запрета удаления категории с детьми
func (r *subcategoryRepository) CountByParent(ctx context.Context, parentID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"mapped_parent": parentID})
	if err != nil {
		return 0, fmt.Errorf("failed to count subcategories by parent: %w", err)
	}
	return count, nil
}

// AddChild добавляет id товара в денормализованный mapped_children
func (r *subcategoryRepository) AddChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": parentID},
		bson.M{"$addToSet": bson.M{"mapped_children": childID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add child to subcategory: %w", err)
	}
	return nil
}

// RemoveChild убирает id товара из mapped_children
func (r *subcategoryRepository) RemoveChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": parentID},
		bson.M{"$pull": bson.M{"mapped_children": childID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove child from subcategory: %w", err)
	}
	return nil
}

// ReplaceChildren полностью перезаписывает mapped_children (используется реконсайлером)
func (r *subcategoryRepository) ReplaceChildren(ctx context.Context, parentID primitive.ObjectID, children []primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": parentID},
		bson.M{"$set": bson.M{"mapped_children": children}},
	)
	if err != nil {
		return fmt.Errorf("failed to replace subcategory children: %w", err)
	}
	return nil
}

// AllIDs возвращает идентификаторы всех подкатегорий
func (r *subcategoryRepository) AllIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return distinctObjectIDs(ctx, r.collection, "_id", bson.M{})
}
