package router

import (
	"strings"
	"time"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/fixmyward/fixmyward/internal/pkg/env"
	"github.com/fixmyward/fixmyward/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   env.GetBool("SESSION_COOKIE_SECURE", false),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	web := h.deps.Web
	group := app.Group("", csrf.New(csrfConf))
	group.Get("/", web.HandleIndex)
	group.Get("/login", web.HandleLoginForm)
	group.Post("/login", web.HandleLogin)
	group.Get("/signup", web.HandleSignupForm)
	group.Post("/signup", web.HandleSignup)
	group.Post("/logout", middleware.RequireAuth, web.HandleLogout)
	group.Get("/dashboard", middleware.RequireAuth, web.HandleDashboard)
	group.Post("/reports", middleware.RequireRole(models.ROLE_CITIZEN), web.HandleSubmitReport)
	group.Post("/reports/:id/verify", middleware.RequireRole(models.ROLE_COUNCILLOR), web.HandleVerifyReport)
}
