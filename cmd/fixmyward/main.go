package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/fixmyward/fixmyward/app/controllers"
	apiv1 "github.com/fixmyward/fixmyward/internal/api/v1"
	"github.com/fixmyward/fixmyward/internal/pkg/accounts"
	"github.com/fixmyward/fixmyward/internal/pkg/cache"
	"github.com/fixmyward/fixmyward/internal/pkg/database"
	"github.com/fixmyward/fixmyward/internal/pkg/env"
	"github.com/fixmyward/fixmyward/internal/pkg/hcaptcha"
	"github.com/fixmyward/fixmyward/internal/pkg/imagestore"
	"github.com/fixmyward/fixmyward/internal/pkg/moderation"
	"github.com/fixmyward/fixmyward/internal/pkg/reporting"
	"github.com/fixmyward/fixmyward/internal/pkg/router"
	"github.com/fixmyward/fixmyward/internal/pkg/session"
	"github.com/fixmyward/fixmyward/internal/pkg/wards"
	"github.com/fixmyward/fixmyward/views"
)

// bodyLimit allows a full-resolution phone photo as a data URI.
const bodyLimit = 50 << 20

func main() {
	env.SetupEnvFile()

	app, shutdown, err := NewApplication(context.Background())
	if err != nil {
		log.Fatalf("[App] Startup failed: %v", err)
	}
	defer shutdown()

	err = app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

// NewApplication wires the stores, services and routes into a fiber app.
// The returned function releases the database and cache connections.
func NewApplication(ctx context.Context) (*fiber.App, func(), error) {
	basePath, err := findBasePath()
	if err != nil {
		return nil, nil, err
	}

	if _, err := apiv1.LoadSpec(ctx, basePath+apiv1.DocPath); err != nil {
		return nil, nil, err
	}

	repos, closeDB, err := database.SetupRepositories(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}

	redisClient := cache.SetupCache(ctx)
	shutdown := func() {
		closeDB()
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}

	directory := wards.NewDirectory(repos.Ward, cache.NewRedisCache(redisClient))
	defaults, err := wards.LoadDefaults()
	if err != nil {
		shutdown()
		return nil, nil, err
	}
	if err := directory.Seed(ctx, defaults); err != nil {
		shutdown()
		return nil, nil, fmt.Errorf("seed wards: %w", err)
	}

	accountService, err := accounts.NewService(repos.Account, directory, accounts.BootstrapFromEnv())
	if err != nil {
		shutdown()
		return nil, nil, err
	}

	gate, err := newGate(ctx)
	if err != nil {
		shutdown()
		return nil, nil, err
	}

	storeCfg, err := imagestore.LoadConfig()
	if err != nil {
		shutdown()
		return nil, nil, err
	}
	images, err := imagestore.New(ctx, storeCfg)
	if err != nil {
		shutdown()
		return nil, nil, err
	}

	reportService := reporting.NewService(repos.Report, gate, images)
	sessions := session.NewSessionStore(redisClient)

	app := fiber.New(fiber.Config{
		Views:     html.NewFileSystem(http.FS(views.FS), ".html"),
		BodyLimit: bodyLimit,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	if password := env.GetEnv("METRICS_PASSWORD", ""); password != "" {
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{
				env.GetEnv("METRICS_USER", "admin"): password,
			},
		}), monitor.New())
	}

	// static files
	app.Static("/", basePath+"public", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	if storeCfg.Backend == imagestore.BackendLocal {
		app.Static(imagestore.LocalURLPrefix, storeCfg.UploadDir, fiber.Static{
			CacheDuration: 10 * time.Second,
			MaxAge:        604800, // 7 days
		})
	}

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + apiv1.DocPath,
		Path:     "v1",
	}))

	// ROUTER
	router.InstallRouter(app, router.Dependencies{
		Sessions: sessions,
		Web:      controllers.NewWebController(accountService, reportService, directory, sessions, hcaptcha.FromEnv()),
		Auth:     controllers.NewAuthController(accountService, sessions),
		Reports:  controllers.NewReportController(reportService),
		Wards:    controllers.NewWardController(directory, reportService),
	})

	return app, shutdown, nil
}

// newGate builds the moderation gate. Without an API key every submission is admitted unclassified.
func newGate(ctx context.Context) (*moderation.Gate, error) {
	timeout := env.GetDuration("MODERATION_TIMEOUT", moderation.DefaultTimeout)

	apiKey := env.GetEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		log.Warn("[Moderation] GEMINI_API_KEY not set, submissions are admitted without classification")
		return moderation.NewGate(nil, timeout), nil
	}

	classifier, err := moderation.NewGeminiClassifier(ctx, moderation.GeminiConfig{
		APIKey: apiKey,
		Model:  env.GetEnv("GEMINI_MODEL", moderation.DefaultModel),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return moderation.NewGate(classifier, timeout), nil
}

func findBasePath() (string, error) {
	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/fixmyward to project root
		"../../../", // Fallback
	}
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("could not find project root directory")
}
