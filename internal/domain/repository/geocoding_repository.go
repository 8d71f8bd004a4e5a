package repository

import (
	"context"

	"github.com/tripstamp-microservice/internal/domain"
)

// GeocodingRepository определяет контракт внешнего геокодера.
// Ответ обязан совпадать с запросом по длине и порядку; неразрешенные
// места помечаются nil-координатами. Частичных ретраев нет - отказ
// всего вызова поднимается наверх.
type GeocodingRepository interface {
	ResolvePlaces(ctx context.Context, names []string) ([]domain.ResolvedPlace, error)
}
