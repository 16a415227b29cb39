package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pepagora/internal/app/catalog/entity"
	"pepagora/pkg/metrics"
)

const (
	serviceName        = "pepagora-catalog"
	categoriesCacheKey = "catalog:categories:all"
	countKeyPrefix     = "catalog:count:"
)

// RedisClient кеширует полный список категорий (выпадающие списки админ-консоли)
// и счетчики сущностей для /count endpoints
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFromExisting оборачивает готовый клиент (для тестов с miniredis)
func NewRedisClientFromExisting(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

func (r *RedisClient) SetCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	if err := r.client.Set(ctx, categoriesCacheKey, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set categories in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) GetCategories(ctx context.Context) ([]entity.Category, error) {
	data, err := r.client.Get(ctx, categoriesCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, "categories")
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get categories from cache: %w", err)
	}

	var categories []entity.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	metrics.RecordCacheHit(serviceName, "categories")
	return categories, nil
}

func (r *RedisClient) DeleteCategories(ctx context.Context) error {
	if err := r.client.Del(ctx, categoriesCacheKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete categories from cache: %w", err)
	}
	return nil
}

// SetCount кеширует счетчик сущностей (name: subcategories | products)
func (r *RedisClient) SetCount(ctx context.Context, name string, count int64, ttl time.Duration) error {
	if err := r.client.Set(ctx, countKeyPrefix+name, count, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set count in cache: %w", err)
	}
	return nil
}

// GetCount возвращает (count, true) при попадании в кеш и (0, false) при промахе
func (r *RedisClient) GetCount(ctx context.Context, name string) (int64, bool, error) {
	count, err := r.client.Get(ctx, countKeyPrefix+name).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, "count")
			return 0, false, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return 0, false, fmt.Errorf("failed to get count from cache: %w", err)
	}

	metrics.RecordCacheHit(serviceName, "count")
	return count, true, nil
}

func (r *RedisClient) DeleteCount(ctx context.Context, name string) error {
	if err := r.client.Del(ctx, countKeyPrefix+name).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete count from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
