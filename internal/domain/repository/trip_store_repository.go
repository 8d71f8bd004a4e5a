package repository

import (
	"context"

	"github.com/tripstamp-microservice/internal/domain"
)

// TripStoreRepository - долговременное строковое хранилище списков поездок.
// Семантика намеренно повторяет localStorage: полный список читается и
// пишется целиком под одним ключом владельца, последняя запись побеждает,
// транзакций нет.
type TripStoreRepository interface {
	// GetTrips возвращает полный сохраненный список поездок владельца
	// (пустой список, если записей нет)
	GetTrips(ctx context.Context, owner string) ([]domain.SavedTrip, error)

	// PutTrips перезаписывает полный список поездок владельца
	PutTrips(ctx context.Context, owner string, trips []domain.SavedTrip) error
}
