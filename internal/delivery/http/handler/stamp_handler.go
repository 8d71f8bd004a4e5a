package handler

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
	"github.com/tripstamp-microservice/internal/domain"
	"github.com/tripstamp-microservice/internal/pkg/errors"
	"github.com/tripstamp-microservice/internal/pkg/utils"
	"github.com/tripstamp-microservice/internal/pkg/validator"
	"github.com/tripstamp-microservice/internal/usecase"
	"github.com/tripstamp-microservice/internal/usecase/dto"
	"go.uber.org/zap"
)

// StampHandler - обработчик штампов: генерация AI-картинок, выбор
// для экспорта и загрузка кастомной иконки
type StampHandler struct {
	stampUC  *usecase.StampUseCase
	sessions *usecase.SessionRegistry
	logger   *zap.Logger
}

// NewStampHandler - создание нового StampHandler
func NewStampHandler(stampUC *usecase.StampUseCase, sessions *usecase.SessionRegistry, logger *zap.Logger) *StampHandler {
	return &StampHandler{
		stampUC:  stampUC,
		sessions: sessions,
		logger:   logger,
	}
}

// GenerateImage godoc
// @Summary AI-генерация картинки штампа
// @Description Одна попытка на вызов; при отказе штамп сохраняет вид по умолчанию
// @Tags Stamps
// @Accept json
// @Produce json
// @Param id path string true "ID штампа"
// @Param request body dto.GenerateStampImageRequest true "Описание стиля"
// @Success 200 {object} utils.SuccessResponse{data=domain.Stamp}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/route/stamps/{id}/image [post]
func (h *StampHandler) GenerateImage(c *fiber.Ctx) error {
	var req dto.GenerateStampImageRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	sess := sessionFromCtx(c, h.sessions)
	result, err := h.stampUC.GenerateImage(c.Context(), sess, domain.TripID(c.Params("id")), req.StyleDescription)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// SetSelection godoc
// @Summary Переключение выбора штампа
// @Tags Stamps
// @Accept json
// @Produce json
// @Param id path string true "ID штампа"
// @Param request body dto.StampSelectionRequest true "Новое состояние выбора"
// @Success 200 {object} utils.SuccessResponse{data=domain.Stamp}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/route/stamps/{id}/selection [put]
func (h *StampHandler) SetSelection(c *fiber.Ctx) error {
	var req dto.StampSelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	sess := sessionFromCtx(c, h.sessions)
	result, err := h.stampUC.SetSelection(sess, domain.TripID(c.Params("id")), *req.Selected)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// ExportSelected godoc
// @Summary Экспорт выбранных штампов
// @Description Собирает выбранные штампы последовательно, по одному
// @Tags Stamps
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.StampExportResponse}
// @Router /api/v1/route/stamps/export [get]
func (h *StampHandler) ExportSelected(c *fiber.Ctx) error {
	sess := sessionFromCtx(c, h.sessions)
	result, err := h.stampUC.ExportSelected(sess)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// UploadIcon godoc
// @Summary Загрузка кастомной иконки маркеров
// @Description Превращает картинку в круглую иконку; меняет только стиль, маршрут не трогается
// @Tags Stamps
// @Accept json
// @Produce json
// @Param request body dto.UploadIconRequest true "Картинка в base64"
// @Success 200 {object} utils.SuccessResponse{data=dto.StyleResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/map/icon [post]
func (h *StampHandler) UploadIcon(c *fiber.Ctx) error {
	var req dto.UploadIconRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	imageData, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	sess := sessionFromCtx(c, h.sessions)
	style, plan, err := h.stampUC.UploadIcon(c.Context(), sess, imageData, req.MimeType)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.StyleResponse{Style: style, Plan: plan}, nil)
}
