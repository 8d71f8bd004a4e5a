package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/tripstamp-microservice/internal/domain"
	"github.com/tripstamp-microservice/internal/domain/repository"
	"github.com/tripstamp-microservice/internal/pkg/errors"
	"go.uber.org/zap"
)

// tripStore - Postgres-реализация хранилища поездок: одна строка на
// поездку, позиция сохраняет порядок списка (новые сверху). Семантика
// записи та же, что и у Redis-варианта: список владельца заменяется
// целиком, последняя запись побеждает.
type tripStore struct {
	db *DB
}

// NewTripStore создает Postgres-реализацию TripStoreRepository
func NewTripStore(db *DB) (repository.TripStoreRepository, error) {
	s := &tripStore{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *tripStore) ensureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS saved_trips (
			owner      TEXT   NOT NULL,
			id         TEXT   NOT NULL,
			position   INT    NOT NULL,
			name       TEXT   NOT NULL DEFAULT '',
			saved_at   BIGINT NOT NULL DEFAULT 0,
			payload    JSONB  NOT NULL,
			PRIMARY KEY (owner, id)
		);
		CREATE INDEX IF NOT EXISTS idx_saved_trips_owner_position
			ON saved_trips (owner, position);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure saved_trips schema: %w", err)
	}
	return nil
}

// GetTrips возвращает список поездок владельца в сохраненном порядке
func (s *tripStore) GetTrips(ctx context.Context, owner string) ([]domain.SavedTrip, error) {
	var payloads [][]byte
	err := s.db.SelectContext(ctx, &payloads,
		`SELECT payload FROM saved_trips WHERE owner = $1 ORDER BY position`,
		owner,
	)
	if err != nil {
		s.db.logger.Error("Failed to read trips", zap.String("owner", owner), zap.Error(err))
		return nil, fmt.Errorf("trip store get error: %w", err)
	}

	trips := make([]domain.SavedTrip, 0, len(payloads))
	for _, p := range payloads {
		var trip domain.SavedTrip
		if err := json.Unmarshal(p, &trip); err != nil {
			s.db.logger.Error("Failed to decode stored trip", zap.String("owner", owner), zap.Error(err))
			return nil, fmt.Errorf("trip store decode error: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, nil
}

// PutTrips заменяет список поездок владельца целиком: удаляет строки,
// которых больше нет в списке, и вставляет/обновляет остальные
func (s *tripStore) PutTrips(ctx context.Context, owner string, trips []domain.SavedTrip) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.db.logger.Error("Failed to begin trip store tx", zap.String("owner", owner), zap.Error(err))
		return errors.ErrStorageWriteFailed
	}
	defer tx.Rollback()

	ids := make([]string, len(trips))
	for i, t := range trips {
		ids[i] = string(t.ID)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM saved_trips WHERE owner = $1 AND NOT (id = ANY($2))`,
		owner, pq.Array(ids),
	); err != nil {
		s.db.logger.Error("Failed to prune trips", zap.String("owner", owner), zap.Error(err))
		return errors.ErrStorageWriteFailed
	}

	for i, t := range trips {
		payload, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("trip store encode error: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO saved_trips (owner, id, position, name, saved_at, payload)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (owner, id) DO UPDATE
			 SET position = EXCLUDED.position,
			     name = EXCLUDED.name,
			     saved_at = EXCLUDED.saved_at,
			     payload = EXCLUDED.payload`,
			owner, string(t.ID), i, t.Name, t.Date, payload,
		); err != nil {
			s.db.logger.Error("Failed to upsert trip",
				zap.String("owner", owner),
				zap.String("trip_id", string(t.ID)),
				zap.Error(err))
			return errors.ErrStorageWriteFailed
		}
	}

	if err := tx.Commit(); err != nil {
		s.db.logger.Error("Failed to commit trip store tx", zap.String("owner", owner), zap.Error(err))
		return errors.ErrStorageWriteFailed
	}

	s.db.logger.Debug("Trips persisted",
		zap.String("owner", owner),
		zap.Int("count", len(trips)))
	return nil
}
