package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pepagora/pkg/logger"
)

// parseObjectID преобразует hex-строку в ObjectID
// Некорректный формат id транслируется в ErrInvalidID (HTTP 400 на границе)
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// searchFilter строит фильтр case-insensitive поиска подстроки по полю имени
// Поисковая строка экранируется, чтобы не интерпретироваться как regex
func searchFilter(field, search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	return bson.M{field: bson.M{
		"$regex":   regexp.QuoteMeta(search),
		"$options": "i",
	}}
}

// findPage исполняет постраничную выборку: CountDocuments + Find со skip/limit/sort
// results должен быть указателем на слайс сущностей
func findPage(ctx context.Context, coll *mongo.Collection, filter bson.M, opts ListOptions, results interface{}) (int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: opts.SortBy, Value: opts.SortOrder}}).
		SetSkip(opts.Skip()).
		SetLimit(opts.Limit)

	cursor, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		return 0, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return 0, fmt.Errorf("failed to decode documents: %w", err)
	}

	return total, nil
}

// ensureIndexes создает индексы коллекции при старте
// Ошибки только логируются - индекс может уже существовать
func ensureIndexes(coll *mongo.Collection, models []mongo.IndexModel) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, model := range models {
		if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
			logger.Warn().
				Err(err).
				Str("collection", coll.Name()).
				Msg("failed to create index")
		}
	}
}

// distinctObjectIDs возвращает уникальные ObjectID значения поля по фильтру
func distinctObjectIDs(ctx context.Context, coll *mongo.Collection, field string, filter bson.M) ([]primitive.ObjectID, error) {
	values, err := coll.Distinct(ctx, field, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to distinct %s: %w", field, err)
	}

	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if oid, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, oid)
		}
	}
	return ids, nil
}
