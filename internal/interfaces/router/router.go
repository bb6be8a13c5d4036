package router

import (
	"fmt"

	healthsvc "flipforma-backend/internal/application/health"
	projsvc "flipforma-backend/internal/application/projects"
	"flipforma-backend/internal/config"
	"flipforma-backend/internal/infrastructure/database"
	"flipforma-backend/internal/infrastructure/storage"
	healthhandler "flipforma-backend/internal/interfaces/handlers/health"
	proformahandler "flipforma-backend/internal/interfaces/handlers/proforma"
	projecthandler "flipforma-backend/internal/interfaces/handlers/projects"
	"flipforma-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Deps are the connections opened for the configured backend. Unused ones are nil.
type Deps struct {
	Store storage.Store
	DB    *gorm.DB
	Rdb   *redis.Client
}

// OpenStore connects the project store named by cfg.StorageBackend. Redis is also opened
// whenever REDIS_URL is set, for the health counters.
func OpenStore(cfg *config.Config) (*Deps, error) {
	deps := &Deps{}
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("REDIS_URL: %w", err)
		}
		deps.Rdb = redis.NewClient(opt)
	}

	switch cfg.StorageBackend {
	case storage.BackendRedis:
		if deps.Rdb == nil {
			return nil, fmt.Errorf("redis storage needs REDIS_URL")
		}
		deps.Store = storage.NewRedisStore(deps.Rdb, cfg.RedisKeyPrefix)
	case storage.BackendDatabase:
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrating project table: %w", err)
		}
		deps.DB = db
		deps.Store = &storage.DatabaseStore{DB: db}
	case storage.BackendFile:
		deps.Store = storage.NewFileStore(cfg.StorageFilePath)
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownBackend, cfg.StorageBackend)
	}
	log.Info().Str("backend", cfg.StorageBackend).Msg("Project store ready")
	return deps, nil
}

func CreateApp(cfg *config.Config) (*fiber.App, *Deps, error) {
	deps, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return NewApp(cfg, deps), deps, nil
}

// NewApp wires middleware and routes around already-open dependencies.
func NewApp(cfg *config.Config, deps *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               1 << 20,
		UnescapePath:            true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.HealthMarker(deps.Rdb))
	app.Use(middleware.RouteLogger())

	targets := healthsvc.Targets{Rdb: deps.Rdb, Backend: cfg.StorageBackend}
	if p, ok := deps.Store.(storage.Pinger); ok {
		targets.Store = p
	}
	hh := &healthhandler.Handlers{Targets: targets, HealthAdminKey: cfg.HealthAdminKey}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	api := app.Group("/api/v1")

	pfh := &proformahandler.Handlers{}
	pf := api.Group("/proforma")
	pf.Get("/defaults", pfh.Defaults)
	pf.Post("/compute", pfh.Compute)

	ph := &projecthandler.Handlers{Service: projsvc.NewService(deps.Store)}
	pg := api.Group("/projects")
	pg.Get("/", ph.List)
	pg.Post("/", ph.Save)
	pg.Post("/save-as", ph.SaveAs)
	pg.Post("/import", ph.Import)
	pg.Get("/:id", ph.Get)
	pg.Delete("/:id", ph.Delete)
	pg.Get("/:id/proforma", ph.Proforma)
	pg.Get("/:id/export", ph.Export)
	pg.Patch("/:id/inputs", ph.UpdateInputs)
	pg.Post("/:id/financing-sources", ph.AddFinancingSource)
	pg.Patch("/:id/financing-sources/:sourceId", ph.UpdateFinancingSource)
	pg.Patch("/:id/renovation-items/:itemId", ph.UpdateRenovationItem)
	pg.Post("/:id/renovation-items/:itemId/materials", ph.AddMaterial)
	pg.Patch("/:id/renovation-items/:itemId/materials/:idx", ph.UpdateMaterial)
	pg.Delete("/:id/renovation-items/:itemId/materials/:idx", ph.RemoveMaterial)

	return app
}
