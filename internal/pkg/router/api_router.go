package router

import (
	"time"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/fixmyward/fixmyward/internal/pkg/env"
	"github.com/fixmyward/fixmyward/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
	deps Dependencies
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api",
		cors.New(cors.Config{
			AllowOrigins:     env.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:4000"),
			AllowCredentials: true,
		}),
		limiter.New(limiter.Config{
			Max:        env.GetInt("API_RATE_LIMIT", 120),
			Expiration: 1 * time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error":   "rate_limited",
					"message": "too many requests",
				})
			},
		}),
	)
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	auth := h.deps.Auth
	api.Post("/auth/signup", auth.HandleSignup)
	api.Post("/auth/login", auth.HandleLogin)
	api.Post("/auth/logout", auth.HandleLogout)
	api.Get("/auth/session", middleware.RequireAPISessionAuth, auth.HandleSession)

	reports := h.deps.Reports
	api.Post("/reports", middleware.RequireAPIRole(models.ROLE_CITIZEN), reports.HandleSubmit)
	api.Get("/reports", middleware.RequireAPISessionAuth, reports.HandleList)
	api.Get("/reports/:id", middleware.RequireAPISessionAuth, reports.HandleGet)
	api.Patch("/reports/:id/verify", middleware.RequireAPIRole(models.ROLE_COUNCILLOR), reports.HandleVerify)

	wards := h.deps.Wards
	api.Get("/wards", wards.HandleList)
	api.Get("/wards/:id", wards.HandleGet)
}

func NewApiRouter(deps Dependencies) *ApiRouter {
	return &ApiRouter{deps: deps}
}
