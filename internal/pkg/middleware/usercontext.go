package middleware

import (
	"github.com/fixmyward/fixmyward/internal/pkg/session"
	"github.com/fixmyward/fixmyward/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

// UserContext loads the session identity into the request's user context for every request
func UserContext(store *fibersession.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := session.Load(c, store)
		usercontext.Set(c, u)
		// templates read these directly
		c.Locals("isLoggedIn", u.IsLoggedIn)
		c.Locals("currentUser", u)
		return c.Next()
	}
}
