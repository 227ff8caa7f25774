package router

import (
	"github.com/fixmyward/fixmyward/app/controllers"
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

// Router registers a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies carries the controllers and the session store the routers need.
type Dependencies struct {
	Sessions *fibersession.Store
	Web      *controllers.WebController
	Auth     *controllers.AuthController
	Reports  *controllers.ReportController
	Wards    *controllers.WardController
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	// The HttpRouter installs the global UserContext middleware, so it must run
	// before the API routes that depend on it.
	setup(app, NewHttpRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
