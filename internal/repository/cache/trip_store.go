package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/tripstamp-microservice/internal/domain"
	"github.com/tripstamp-microservice/internal/domain/repository"
	"github.com/tripstamp-microservice/internal/pkg/errors"
	"go.uber.org/zap"
)

// tripStore - хранилище поездок в Redis: полный список владельца лежит
// JSON-массивом под одним ключом, по аналогии с localStorage исходного
// приложения
type tripStore struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewTripStore создает Redis-реализацию TripStoreRepository
func NewTripStore(redis *Redis, keyPrefix string) repository.TripStoreRepository {
	return &tripStore{
		client:    redis.Client(),
		keyPrefix: keyPrefix,
		logger:    redis.logger,
	}
}

func (s *tripStore) key(owner string) string {
	return fmt.Sprintf("%s:trips:%s", s.keyPrefix, owner)
}

// GetTrips читает полный список поездок владельца
func (s *tripStore) GetTrips(ctx context.Context, owner string) ([]domain.SavedTrip, error) {
	val, err := s.client.Get(ctx, s.key(owner)).Bytes()
	if err == redis.Nil {
		return []domain.SavedTrip{}, nil
	}
	if err != nil {
		s.logger.Error("Failed to read trips", zap.String("owner", owner), zap.Error(err))
		return nil, fmt.Errorf("trip store get error: %w", err)
	}

	var trips []domain.SavedTrip
	if err := json.Unmarshal(val, &trips); err != nil {
		s.logger.Error("Failed to decode stored trips", zap.String("owner", owner), zap.Error(err))
		return nil, fmt.Errorf("trip store decode error: %w", err)
	}

	return trips, nil
}

// PutTrips перезаписывает полный список поездок владельца целиком
func (s *tripStore) PutTrips(ctx context.Context, owner string, trips []domain.SavedTrip) error {
	data, err := json.Marshal(trips)
	if err != nil {
		return fmt.Errorf("trip store encode error: %w", err)
	}

	if err := s.client.Set(ctx, s.key(owner), data, 0).Err(); err != nil {
		s.logger.Error("Failed to write trips", zap.String("owner", owner), zap.Error(err))
		return errors.ErrStorageWriteFailed
	}

	s.logger.Debug("Trips persisted",
		zap.String("owner", owner),
		zap.Int("count", len(trips)))
	return nil
}
