package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tripstamp-microservice/internal/domain"
	"github.com/tripstamp-microservice/internal/domain/repository"
	"github.com/tripstamp-microservice/internal/pkg/errors"
	"github.com/tripstamp-microservice/internal/pkg/utils"
	"github.com/tripstamp-microservice/internal/usecase/dto"
)

// RouteUseCase - use case генерации маршрута: разбор ввода, геокодирование,
// разбиение на найденные/пропущенные и создание штампов по умолчанию
type RouteUseCase struct {
	geocodingRepo repository.GeocodingRepository
	cacheRepo     repository.CacheRepository
	logger        *zap.Logger
	cacheTTL      time.Duration
}

// NewRouteUseCase - создание нового RouteUseCase
func NewRouteUseCase(
	geocodingRepo repository.GeocodingRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *RouteUseCase {
	return &RouteUseCase{
		geocodingRepo: geocodingRepo,
		cacheRepo:     cacheRepo,
		logger:        logger,
		cacheTTL:      cacheTTL,
	}
}

// GenerateRoute строит маршрут из строки "Paris, Rome, Tokyo".
// Инвариант: каждое введенное название попадает ровно в одну из групп -
// разрешенные координаты или пропуски - с сохранением порядка ввода.
func (uc *RouteUseCase) GenerateRoute(ctx context.Context, sess *Session, rawLocations string) (*dto.RouteResponse, error) {
	names := utils.ParseLocations(rawLocations)
	if len(names) == 0 {
		return nil, errors.ErrEmptyLocations
	}

	// Состояние очищается до асинхронного разрешения; токен защищает
	// от затирания свежего состояния устаревшим ответом
	token := sess.BeginResolve(rawLocations)
	defer sess.FinishResolve(token)

	uc.logger.Info("GenerateRoute started",
		zap.String("session_id", sess.ID),
		zap.Int("names_count", len(names)))

	places, err := uc.resolveWithCache(ctx, names)
	if err != nil {
		sess.FailResolution(token, "Could not resolve the requested places.")
		return nil, err
	}

	coords := make([]domain.Coordinate, 0, len(places))
	missing := make([]string, 0)
	now := time.Now()
	var stamps []domain.Stamp

	for i, p := range places {
		if p.IsMissing() {
			missing = append(missing, names[i])
			continue
		}
		coords = append(coords, domain.Coordinate{
			Name: names[i],
			Lat:  *p.Lat,
			Lng:  *p.Lng,
		})
		stamps = append(stamps, domain.NewDefaultStamp(names[i], len(coords)-1, now))
	}

	if len(coords) == 0 {
		sess.FailResolution(token, "None of the requested places could be found.")
		return nil, errors.ErrNoLocationsResolved
	}

	status := domain.RouteStatusMessage(len(coords), len(missing))

	if !sess.ApplyResolution(token, coords, missing, stamps, status) {
		uc.logger.Warn("Discarding stale geocoding result",
			zap.String("session_id", sess.ID))
		return nil, errors.ErrRequestSuperseded
	}

	uc.logger.Info("GenerateRoute completed",
		zap.String("session_id", sess.ID),
		zap.Int("resolved", len(coords)),
		zap.Int("missing", len(missing)))

	route, _ := sess.Snapshot()
	resp := dto.NewRouteResponse(route)
	return &resp, nil
}

// GetRoute возвращает текущее состояние маршрута сессии
func (uc *RouteUseCase) GetRoute(sess *Session) *dto.RouteResponse {
	route, _ := sess.Snapshot()
	resp := dto.NewRouteResponse(route)
	return &resp
}

// ClearRoute сбрасывает активный маршрут сессии
func (uc *RouteUseCase) ClearRoute(sess *Session) {
	sess.ClearRoute()
	uc.logger.Debug("Route cleared", zap.String("session_id", sess.ID))
}

// resolveWithCache смотрит в кеш по нормализованному списку названий;
// отказ кеша не фатален - идем напрямую в геокодер
func (uc *RouteUseCase) resolveWithCache(ctx context.Context, names []string) ([]domain.ResolvedPlace, error) {
	key := geocodeCacheKey(names)

	if cached, err := uc.cacheRepo.Get(ctx, key); err == nil && cached != nil {
		var places []domain.ResolvedPlace
		if err := json.Unmarshal(cached, &places); err == nil && len(places) == len(names) {
			uc.logger.Debug("Geocode cache hit", zap.Int("names_count", len(names)))
			return places, nil
		}
	}

	places, err := uc.geocodingRepo.ResolvePlaces(ctx, names)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(places); err == nil {
		if err := uc.cacheRepo.Set(ctx, key, data, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache geocode result", zap.Error(err))
		}
	}

	return places, nil
}

func geocodeCacheKey(names []string) string {
	joined := strings.ToLower(strings.Join(names, "|"))
	return fmt.Sprintf("geocode:%x", sha256.Sum256([]byte(joined)))
}
