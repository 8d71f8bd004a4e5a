package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tripstamp-microservice/internal/delivery/http/middleware"
	"github.com/tripstamp-microservice/internal/usecase"
)

// sessionFromCtx достает сессию запроса из реестра по id,
// проставленному session-middleware
func sessionFromCtx(c *fiber.Ctx, registry *usecase.SessionRegistry) *usecase.Session {
	id, _ := c.Locals(middleware.SessionIDKey).(string)
	return registry.GetOrCreate(id)
}
