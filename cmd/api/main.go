package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flipforma-backend/internal/config"
	"flipforma-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

var fiberApp *fiber.App
var appCfg *config.Config
var deps *router.Deps

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load: " + err.Error())
	}
	config.SetupLogging(cfg)
	appCfg = cfg
	app, d, err := router.CreateApp(cfg)
	if err != nil {
		panic("app create: " + err.Error())
	}
	fiberApp = app
	deps = d
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Verify connections before serving
	if deps.DB != nil {
		sqlDB, err := deps.DB.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("Database handle unavailable")
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		log.Info().Msg("Database connected")
	}
	if deps.Rdb != nil {
		if err := deps.Rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		log.Info().Msg("Redis connected")
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Info().Msg("Shutting down")
		_ = fiberApp.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info().
		Str("url", "http://localhost:"+appCfg.Port).
		Str("health", "http://localhost:"+appCfg.Port+"/health/json").
		Str("storage", appCfg.StorageBackend).
		Msg("Server running")

	if err := fiberApp.Listen(":" + appCfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
	if deps.Rdb != nil {
		_ = deps.Rdb.Close()
	}
}
