package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/tripstamp-microservice/internal/domain"
	"github.com/tripstamp-microservice/internal/pkg/errors"
	"github.com/tripstamp-microservice/internal/pkg/utils"
	"github.com/tripstamp-microservice/internal/pkg/validator"
	"github.com/tripstamp-microservice/internal/usecase"
	"github.com/tripstamp-microservice/internal/usecase/dto"
	"go.uber.org/zap"
)

// TripHandler - обработчик сохраненных поездок: список, сохранение,
// загрузка, импорт/экспорт и двухфазное удаление
type TripHandler struct {
	tripUC   *usecase.TripUseCase
	sessions *usecase.SessionRegistry
	logger   *zap.Logger
}

// NewTripHandler - создание нового TripHandler
func NewTripHandler(tripUC *usecase.TripUseCase, sessions *usecase.SessionRegistry, logger *zap.Logger) *TripHandler {
	return &TripHandler{
		tripUC:   tripUC,
		sessions: sessions,
		logger:   logger,
	}
}

// List godoc
// @Summary Список сохраненных поездок
// @Description Возвращает поездки владельца сессии, самые свежие первыми
// @Tags Trips
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.TripListResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/trips [get]
func (h *TripHandler) List(c *fiber.Ctx) error {
	sess := sessionFromCtx(c, h.sessions)
	result, err := h.tripUC.List(c.Context(), sess)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// Save godoc
// @Summary Сохранение текущего маршрута как поездки
// @Description Делает глубокий снимок маршрута и стиля. Если запись в хранилище не удалась, поездка остается доступной в сессии, а в ответе появляется предупреждение.
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body dto.SaveTripRequest true "Название поездки"
// @Success 200 {object} utils.SuccessResponse{data=dto.SaveTripResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/trips [post]
func (h *TripHandler) Save(c *fiber.Ctx) error {
	var req dto.SaveTripRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	sess := sessionFromCtx(c, h.sessions)
	result, err := h.tripUC.Save(c.Context(), sess, req.Name)
	if err != nil {
		return utils.SendError(c, err)
	}

	var meta *utils.Meta
	if result.Warning != "" {
		meta = &utils.Meta{Warning: result.Warning}
	}
	return utils.SendSuccess(c, result, meta)
}

// Load godoc
// @Summary Загрузка сохраненной поездки в активный маршрут
// @Description Активное состояние целиком замещается копиями из поездки; ссылки с сохраненным списком не разделяются
// @Tags Trips
// @Produce json
// @Param id path string true "ID поездки"
// @Success 200 {object} utils.SuccessResponse{data=dto.LoadTripResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/load [post]
func (h *TripHandler) Load(c *fiber.Ctx) error {
	sess := sessionFromCtx(c, h.sessions)
	result, err := h.tripUC.Load(c.Context(), sess, domain.TripID(c.Params("id")))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Export godoc
// @Summary Экспорт поездки в JSON-файл
// @Description Отдает поездку как загружаемый документ; имя файла выводится из названия и даты, пробелы нормализуются
// @Tags Trips
// @Produce json
// @Param id path string true "ID поездки"
// @Success 200 {object} domain.SavedTrip
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id}/export [get]
func (h *TripHandler) Export(c *fiber.Ctx) error {
	sess := sessionFromCtx(c, h.sessions)
	filename, data, err := h.tripUC.Export(c.Context(), sess, domain.TripID(c.Params("id")))
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// Import godoc
// @Summary Импорт поездки из JSON-документа
// @Description Документ обязан содержать массивы coordinates и stamps, иначе отклоняется без частичного импорта. Принятая поездка добавляется в список и сразу загружается в активный маршрут.
// @Tags Trips
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ImportTripResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/trips/import [post]
func (h *TripHandler) Import(c *fiber.Ctx) error {
	sess := sessionFromCtx(c, h.sessions)
	result, err := h.tripUC.Import(c.Context(), sess, c.Body())
	if err != nil {
		return utils.SendError(c, err)
	}

	var meta *utils.Meta
	if result.Warning != "" {
		meta = &utils.Meta{Warning: result.Warning}
	}
	return utils.SendSuccess(c, result, meta)
}

// RequestDelete godoc
// @Summary Пометка поездки к удалению
// @Description Первая фаза удаления: только помечает поездку, данные не меняются до подтверждения
// @Tags Trips
// @Produce json
// @Param id path string true "ID поездки"
// @Success 200 {object} utils.SuccessResponse{data=dto.DeleteStateResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/trips/{id} [delete]
func (h *TripHandler) RequestDelete(c *fiber.Ctx) error {
	sess := sessionFromCtx(c, h.sessions)
	result, err := h.tripUC.RequestDelete(c.Context(), sess, domain.TripID(c.Params("id")))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// ConfirmDelete godoc
// @Summary Подтверждение удаления помеченной поездки
// @Tags Trips
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.DeleteStateResponse}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/trips/delete/confirm [post]
func (h *TripHandler) ConfirmDelete(c *fiber.Ctx) error {
	sess := sessionFromCtx(c, h.sessions)
	result, err := h.tripUC.ConfirmDelete(c.Context(), sess)
	if err != nil {
		return utils.SendError(c, err)
	}

	var meta *utils.Meta
	if result.Warning != "" {
		meta = &utils.Meta{Warning: result.Warning}
	}
	return utils.SendSuccess(c, result, meta)
}

// CancelDelete godoc
// @Summary Отмена удаления
// @Tags Trips
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.DeleteStateResponse}
// @Router /api/v1/trips/delete/cancel [post]
func (h *TripHandler) CancelDelete(c *fiber.Ctx) error {
	sess := sessionFromCtx(c, h.sessions)
	return utils.SendSuccess(c, h.tripUC.CancelDelete(sess), nil)
}
