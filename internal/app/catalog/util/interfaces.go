package util

import (
	"context"
	"time"

	"pepagora/internal/app/catalog/entity"
)

// CatalogCache интерфейс для работы с Redis кешем каталога
// Используется для dependency injection и упрощения тестирования
type CatalogCache interface {
	SetCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error
	GetCategories(ctx context.Context) ([]entity.Category, error)
	DeleteCategories(ctx context.Context) error
	SetCount(ctx context.Context, name string, count int64, ttl time.Duration) error
	GetCount(ctx context.Context, name string) (int64, bool, error)
	DeleteCount(ctx context.Context, name string) error
	Close() error
}

// MessagePublisher интерфейс для отправки событий каталога (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
