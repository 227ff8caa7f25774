package middleware

import (
	"github.com/fixmyward/fixmyward/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

// RequireAuth ensures a logged-in web session; redirects to /login if missing.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireRole ensures a logged-in web session with the given role; redirects otherwise.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := usercontext.GetUserContext(c)
		if !u.IsLoggedIn {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		if u.Role != role {
			return c.Redirect("/dashboard", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// RequireAPISessionAuth ensures a logged-in session for API routes and returns JSON 401 instead of redirect.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

// RequireAPIRole is RequireAPISessionAuth plus a role check answering 403.
func RequireAPIRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := usercontext.GetUserContext(c)
		if !u.IsLoggedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "login required",
			})
		}
		if u.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "forbidden",
				"message": "this action requires the " + role + " role",
			})
		}
		return c.Next()
	}
}
