package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tripstamp-microservice/internal/pkg/errors"
	"github.com/tripstamp-microservice/internal/pkg/utils"
	"github.com/tripstamp-microservice/internal/pkg/validator"
	"github.com/tripstamp-microservice/internal/usecase"
	"github.com/tripstamp-microservice/internal/usecase/dto"
	"go.uber.org/zap"
)

// MapViewHandler - обработчик описания карты и настроек стиля
type MapViewHandler struct {
	mapUC    *usecase.MapViewUseCase
	sessions *usecase.SessionRegistry
	logger   *zap.Logger
}

// NewMapViewHandler - создание нового MapViewHandler
func NewMapViewHandler(mapUC *usecase.MapViewUseCase, sessions *usecase.SessionRegistry, logger *zap.Logger) *MapViewHandler {
	return &MapViewHandler{
		mapUC:    mapUC,
		sessions: sessions,
		logger:   logger,
	}
}

// GetView godoc
// @Summary Текущее описание карты
// @Description Тайлы по стилю, линия маршрута, маркеры и охватывающие границы с отступом
// @Tags Map
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.MapViewResponse}
// @Router /api/v1/map [get]
func (h *MapViewHandler) GetView(c *fiber.Ctx) error {
	sess := sessionFromCtx(c, h.sessions)
	return utils.SendSuccess(c, h.mapUC.GetView(sess), nil)
}

// UpdateStyle godoc
// @Summary Обновление стиля карты
// @Description Возвращает план перерисовки: трогается только затронутый слой, полная пересборка - лишь при смене координат
// @Tags Map
// @Accept json
// @Produce json
// @Param request body dto.StyleUpdateRequest true "Новый стиль"
// @Success 200 {object} utils.SuccessResponse{data=dto.StyleResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/map/style [put]
func (h *MapViewHandler) UpdateStyle(c *fiber.Ctx) error {
	var req dto.StyleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	sess := sessionFromCtx(c, h.sessions)
	return utils.SendSuccess(c, h.mapUC.UpdateStyle(sess, req), nil)
}

// Refit godoc
// @Summary Пересчет границ карты после изменения layout
// @Description Откладывает пересчет на settle-задержку; повторный запрос сбрасывает таймер
// @Tags Map
// @Accept json
// @Produce json
// @Param request body dto.RefitRequest false "Причина пересчета"
// @Success 200 {object} utils.SuccessResponse{data=dto.MapViewResponse}
// @Router /api/v1/map/refit [post]
func (h *MapViewHandler) Refit(c *fiber.Ctx) error {
	var req dto.RefitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest)
		}
		if err := validator.Validate(&req); err != nil {
			return utils.SendError(c, err)
		}
	}

	sess := sessionFromCtx(c, h.sessions)
	h.mapUC.RequestRefit(sess, req.Reason)
	return utils.SendSuccess(c, h.mapUC.GetView(sess), nil)
}
