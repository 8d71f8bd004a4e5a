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

// RouteHandler - обработчик генерации и чтения активного маршрута
type RouteHandler struct {
	routeUC  *usecase.RouteUseCase
	sessions *usecase.SessionRegistry
	logger   *zap.Logger
}

// NewRouteHandler - создание нового RouteHandler
func NewRouteHandler(routeUC *usecase.RouteUseCase, sessions *usecase.SessionRegistry, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{
		routeUC:  routeUC,
		sessions: sessions,
		logger:   logger,
	}
}

// Generate godoc
// @Summary Построение маршрута из списка мест
// @Description Разбирает строку вида "Paris, Rome, Tokyo", геокодирует названия и строит маршрут. Каждое название попадает либо в координаты, либо в список пропусков, с сохранением порядка ввода.
// @Tags Route
// @Accept json
// @Produce json
// @Param request body dto.GenerateRouteRequest true "Строка мест через запятую"
// @Success 200 {object} utils.SuccessResponse{data=dto.RouteResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Router /api/v1/route [post]
func (h *RouteHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateRouteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	sess := sessionFromCtx(c, h.sessions)
	result, err := h.routeUC.GenerateRoute(c.Context(), sess, req.Locations)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: len(result.Coordinates),
	})
}

// Get godoc
// @Summary Текущее состояние маршрута
// @Tags Route
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.RouteResponse}
// @Router /api/v1/route [get]
func (h *RouteHandler) Get(c *fiber.Ctx) error {
	sess := sessionFromCtx(c, h.sessions)
	return utils.SendSuccess(c, h.routeUC.GetRoute(sess), nil)
}

// Clear godoc
// @Summary Сброс активного маршрута
// @Tags Route
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.RouteResponse}
// @Router /api/v1/route [delete]
func (h *RouteHandler) Clear(c *fiber.Ctx) error {
	sess := sessionFromCtx(c, h.sessions)
	h.routeUC.ClearRoute(sess)
	return utils.SendSuccess(c, h.routeUC.GetRoute(sess), nil)
}
