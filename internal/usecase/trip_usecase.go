package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/tripstamp-microservice/internal/domain"
	"github.com/tripstamp-microservice/internal/domain/repository"
	"github.com/tripstamp-microservice/internal/pkg/errors"
	"github.com/tripstamp-microservice/internal/pkg/utils"
	"github.com/tripstamp-microservice/internal/usecase/dto"
)

// Предупреждения при отказе долговременной записи: состояние в памяти
// сохраняется, пользователь не теряет работу в рамках сессии
const (
	warnSaveNotPersisted = "Trip saved for this session only: durable storage write failed. Export the trip to keep a copy."
	warnImportNotListed  = "Trip loaded for this session only: it could not be added to the persisted list."
	warnDeleteNotSynced  = "Trip removed from this session, but the durable list could not be updated."
)

// TripUseCase - use case сохранения, загрузки, импорта/экспорта и
// двухфазного удаления поездок
type TripUseCase struct {
	storeRepo repository.TripStoreRepository
	logger    *zap.Logger
}

// NewTripUseCase - создание нового TripUseCase
func NewTripUseCase(storeRepo repository.TripStoreRepository, logger *zap.Logger) *TripUseCase {
	return &TripUseCase{
		storeRepo: storeRepo,
		logger:    logger,
	}
}

// ensureLoaded лениво поднимает список владельца из хранилища и один раз
// чинит легаси-записи без корректного id, перезаписывая список
func (uc *TripUseCase) ensureLoaded(ctx context.Context, sess *Session) error {
	if sess.TripsLoaded() {
		return nil
	}

	trips, err := uc.storeRepo.GetTrips(ctx, sess.ID)
	if err != nil {
		uc.logger.Error("Failed to load trips from store",
			zap.String("session_id", sess.ID), zap.Error(err))
		return errors.ErrStorageError
	}

	normalized := false
	for i := range trips {
		if trips[i].ID == "" {
			trips[i].ID = domain.NewTripID()
			normalized = true
		}
	}

	if normalized {
		if err := uc.storeRepo.PutTrips(ctx, sess.ID, trips); err != nil {
			// Чиненый список останется в памяти, следующая запись догонит
			uc.logger.Warn("Failed to rewrite normalized trip list",
				zap.String("session_id", sess.ID), zap.Error(err))
		} else {
			uc.logger.Info("Normalized legacy trip ids",
				zap.String("session_id", sess.ID))
		}
	}

	sess.SetTrips(trips)
	return nil
}

// List возвращает сохраненные поездки, свежие сверху
func (uc *TripUseCase) List(ctx context.Context, sess *Session) (*dto.TripListResponse, error) {
	if err := uc.ensureLoaded(ctx, sess); err != nil {
		return nil, err
	}
	trips := sess.Trips()
	return &dto.TripListResponse{
		Trips: trips,
		Total: len(trips),
	}, nil
}

// Save делает глубокий снимок активного маршрута и стиля, добавляет его
// в начало списка и пишет весь список в хранилище. Отказ записи не
// откатывает память - поездка остается доступной до конца сессии,
// а в ответе появляется предупреждение.
func (uc *TripUseCase) Save(ctx context.Context, sess *Session, name string) (*dto.SaveTripResponse, error) {
	if err := uc.ensureLoaded(ctx, sess); err != nil {
		return nil, err
	}

	route, style := sess.Snapshot()
	sc := style
	trip := domain.SavedTrip{
		ID:          domain.NewTripID(),
		Name:        name,
		Date:        time.Now().UnixMilli(),
		Locations:   sess.RawLocations(),
		Coordinates: route.Coordinates,
		Stamps:      route.Stamps,
		StyleConfig: &sc,
	}

	sess.PrependTrip(trip)

	resp := &dto.SaveTripResponse{Trip: trip.Clone()}
	if err := uc.storeRepo.PutTrips(ctx, sess.ID, sess.Trips()); err != nil {
		uc.logger.Error("Failed to persist trip list",
			zap.String("session_id", sess.ID), zap.Error(err))
		resp.Warning = warnSaveNotPersisted
	} else {
		uc.logger.Info("Trip saved",
			zap.String("session_id", sess.ID),
			zap.String("trip_id", string(trip.ID)))
	}

	return resp, nil
}

// Load целиком замещает активное состояние копиями выбранной поездки
func (uc *TripUseCase) Load(ctx context.Context, sess *Session, id domain.TripID) (*dto.LoadTripResponse, error) {
	if err := uc.ensureLoaded(ctx, sess); err != nil {
		return nil, err
	}

	trip, ok := sess.FindTrip(id)
	if !ok {
		return nil, errors.ErrTripNotFound
	}

	sess.LoadTrip(trip)
	uc.logger.Info("Trip loaded",
		zap.String("session_id", sess.ID),
		zap.String("trip_id", string(id)))

	route, style := sess.Snapshot()
	return &dto.LoadTripResponse{
		Route: dto.NewRouteResponse(route),
		Style: style,
	}, nil
}

// Export сериализует одну поездку в JSON-документ; имя файла выводится
// из названия и даты экспорта
func (uc *TripUseCase) Export(ctx context.Context, sess *Session, id domain.TripID) (string, []byte, error) {
	if err := uc.ensureLoaded(ctx, sess); err != nil {
		return "", nil, err
	}

	trip, ok := sess.FindTrip(id)
	if !ok {
		return "", nil, errors.ErrTripNotFound
	}

	data, err := json.MarshalIndent(trip, "", "  ")
	if err != nil {
		uc.logger.Error("Failed to encode trip for export", zap.Error(err))
		return "", nil, errors.ErrInternalServer
	}

	filename := utils.ExportFilename(trip.Name, time.Now())
	return filename, data, nil
}

// importDocument - промежуточная форма для минимальной структурной
// проверки: coordinates и stamps обязаны быть JSON-массивами
type importDocument struct {
	Coordinates json.RawMessage `json:"coordinates"`
	Stamps      json.RawMessage `json:"stamps"`
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Import разбирает JSON-документ поездки. Частичного импорта нет: документ
// либо проходит проверку формата целиком, либо отклоняется, не меняя
// сохраненный список. Принятая поездка сразу загружается в активный маршрут.
func (uc *TripUseCase) Import(ctx context.Context, sess *Session, raw []byte) (*dto.ImportTripResponse, error) {
	var doc importDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.ErrInvalidTripFormat
	}
	if !isJSONArray(doc.Coordinates) || !isJSONArray(doc.Stamps) {
		return nil, errors.ErrInvalidTripFormat
	}

	var trip domain.SavedTrip
	if err := json.Unmarshal(raw, &trip); err != nil {
		return nil, errors.ErrInvalidTripFormat
	}

	if err := uc.ensureLoaded(ctx, sess); err != nil {
		return nil, err
	}

	// Коллизия или отсутствие id - выдаем свежий
	if trip.ID == "" {
		trip.ID = domain.NewTripID()
	} else if _, exists := sess.FindTrip(trip.ID); exists {
		uc.logger.Debug("Imported trip id collides, minting a new one",
			zap.String("trip_id", string(trip.ID)))
		trip.ID = domain.NewTripID()
	}
	if trip.Name == "" {
		trip.Name = "Imported Trip"
	}
	if trip.Date == 0 {
		trip.Date = time.Now().UnixMilli()
	}

	sess.PrependTrip(trip)
	sess.LoadTrip(trip)

	resp := &dto.ImportTripResponse{Trip: trip.Clone()}
	if err := uc.storeRepo.PutTrips(ctx, sess.ID, sess.Trips()); err != nil {
		uc.logger.Error("Failed to persist imported trip",
			zap.String("session_id", sess.ID), zap.Error(err))
		resp.Warning = warnImportNotListed
	}

	route, _ := sess.Snapshot()
	resp.Route = dto.NewRouteResponse(route)

	uc.logger.Info("Trip imported",
		zap.String("session_id", sess.ID),
		zap.String("trip_id", string(trip.ID)))
	return resp, nil
}

// RequestDelete помечает поездку к удалению; данные не меняются,
// пока удаление не подтверждено
func (uc *TripUseCase) RequestDelete(ctx context.Context, sess *Session, id domain.TripID) (*dto.DeleteStateResponse, error) {
	if err := uc.ensureLoaded(ctx, sess); err != nil {
		return nil, err
	}

	if _, ok := sess.FindTrip(id); !ok {
		return nil, errors.ErrTripNotFound
	}

	sess.MarkPendingDelete(id)
	return &dto.DeleteStateResponse{PendingDeleteID: string(id)}, nil
}

// ConfirmDelete убирает помеченную поездку из памяти и из хранилища
func (uc *TripUseCase) ConfirmDelete(ctx context.Context, sess *Session) (*dto.DeleteStateResponse, error) {
	id := sess.PendingDelete()
	if id == "" {
		return nil, errors.ErrNoPendingDelete
	}

	if err := uc.ensureLoaded(ctx, sess); err != nil {
		return nil, err
	}

	if !sess.RemoveTrip(id) {
		sess.ClearPendingDelete()
		return nil, errors.ErrTripNotFound
	}
	sess.ClearPendingDelete()

	resp := &dto.DeleteStateResponse{Deleted: true}
	if err := uc.storeRepo.PutTrips(ctx, sess.ID, sess.Trips()); err != nil {
		uc.logger.Error("Failed to persist trip deletion",
			zap.String("session_id", sess.ID), zap.Error(err))
		resp.Warning = warnDeleteNotSynced
	} else {
		uc.logger.Info("Trip deleted",
			zap.String("session_id", sess.ID),
			zap.String("trip_id", string(id)))
	}

	return resp, nil
}

// CancelDelete снимает пометку удаления, данные не меняются
func (uc *TripUseCase) CancelDelete(sess *Session) *dto.DeleteStateResponse {
	sess.ClearPendingDelete()
	return &dto.DeleteStateResponse{}
}
