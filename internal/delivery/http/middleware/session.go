package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionIDKey - ключ идентификатора сессии в locals запроса
const SessionIDKey = "session_id"

// SessionHeader - заголовок, которым клиент носит свой идентификатор
const SessionHeader = "X-Session-ID"

// Session - middleware идентификации сессии: берет id из заголовка,
// чеканит новый при отсутствии и всегда возвращает его клиенту
func Session() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(SessionHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(SessionIDKey, id)
		c.Set(SessionHeader, id)
		return c.Next()
	}
}
