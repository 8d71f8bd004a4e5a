package usecase

import (
	"time"

	"go.uber.org/zap"

	"github.com/tripstamp-microservice/internal/domain"
	"github.com/tripstamp-microservice/internal/usecase/dto"
)

// MapViewUseCase - синхронизатор карты: по текущим координатам и стилю
// строит полное описание карты и решает, какие слои перерисовывать.
// Смена стиля трогает только затронутый слой; полная пересборка - только
// при изменении набора координат.
type MapViewUseCase struct {
	logger        *zap.Logger
	refitDelay    time.Duration
	boundsPadding int
}

// NewMapViewUseCase - создание нового MapViewUseCase
func NewMapViewUseCase(logger *zap.Logger, refitDelay time.Duration, boundsPadding int) *MapViewUseCase {
	return &MapViewUseCase{
		logger:        logger,
		refitDelay:    refitDelay,
		boundsPadding: boundsPadding,
	}
}

// GetView строит описание карты из текущего состояния сессии
func (uc *MapViewUseCase) GetView(sess *Session) *dto.MapViewResponse {
	route, style := sess.Snapshot()

	view := domain.MapView{
		Tiles:     domain.TilePresetFor(style.Style),
		Markers:   buildMarkers(route.Coordinates, style),
		Bounds:    domain.ComputeBounds(route.Coordinates),
		Padding:   uc.boundsPadding,
		MapHeight: style.MapHeight,
		Revision:  sess.ViewRevision(),
	}

	// Линия маршрута рисуется только между двумя и более точками
	if len(route.Coordinates) > 1 {
		view.Path = &domain.PathSpec{
			Color:  style.Color,
			Weight: style.Weight,
			Points: route.Coordinates,
		}
	}

	return &dto.MapViewResponse{
		View:         view,
		RefitPending: sess.RefitPending(),
	}
}

// UpdateStyle применяет новый стиль и возвращает план перерисовки;
// смена высоты карты дополнительно откладывает пересчет границ
func (uc *MapViewUseCase) UpdateStyle(sess *Session, req dto.StyleUpdateRequest) *dto.StyleResponse {
	next := domain.StyleConfig{
		Style:     req.Style,
		Color:     req.Color,
		Weight:    req.Weight,
		MapHeight: req.MapHeight,
	}

	prev := sess.ApplyStyle(next)

	// ApplyStyle сохраняет кастомную иконку; диффим эффективный стиль,
	// иначе план ложно пометит слой маркеров
	next.CustomIconURL = prev.CustomIconURL
	plan := domain.ComputeRenderPlan(prev, next, false)

	if plan.Refit {
		uc.scheduleRefit(sess, "height")
	}

	uc.logger.Debug("Style updated",
		zap.String("session_id", sess.ID),
		zap.Bool("tiles", plan.Tiles),
		zap.Bool("path", plan.Path),
		zap.Bool("markers", plan.Markers),
		zap.Bool("refit", plan.Refit))

	_, style := sess.Snapshot()
	return &dto.StyleResponse{
		Style: style,
		Plan:  plan,
	}
}

// RequestRefit откладывает пересчет границ (ресайз окна или смена
// высоты); settle-задержка дает layout стабилизироваться, повторный
// запрос сбрасывает таймер
func (uc *MapViewUseCase) RequestRefit(sess *Session, reason string) {
	if reason == "" {
		reason = "resize"
	}
	uc.scheduleRefit(sess, reason)
}

func (uc *MapViewUseCase) scheduleRefit(sess *Session, reason string) {
	sessID := sess.ID
	sess.ScheduleRefit(uc.refitDelay, func() {
		uc.logger.Debug("Map bounds refit completed",
			zap.String("session_id", sessID),
			zap.String("reason", reason))
	})
}

func buildMarkers(coords []domain.Coordinate, style domain.StyleConfig) []domain.Marker {
	markers := make([]domain.Marker, 0, len(coords))
	for _, c := range coords {
		m := domain.Marker{
			Name: c.Name,
			Lat:  c.Lat,
			Lng:  c.Lng,
			Kind: domain.MarkerKindPin,
		}
		if style.CustomIconURL != "" {
			m.Kind = domain.MarkerKindIcon
			m.IconURL = style.CustomIconURL
		}
		markers = append(markers, m)
	}
	return markers
}
