package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ventas/internal/application/auth"
	"github.com/jhoicas/pos-ventas/internal/bootstrap"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/cache"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/metrics"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-ventas/internal/interfaces/http"
	"github.com/jhoicas/pos-ventas/pkg/config"
	"github.com/jhoicas/pos-ventas/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var store bootstrap.Store
	switch cfg.App.Store {
	case "memory":
		mem := memory.NewStore()
		store = bootstrap.Store{Tx: memory.NewTxRunner(mem), Repos: mem.Repos(), Analytics: mem.Analytics()}
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.Migrations.Enabled {
			if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		store = bootstrap.Store{
			Tx:        postgres.NewTxRunner(pool),
			Repos:     postgres.Repos(pool),
			Analytics: postgres.NewAnalyticsRepository(pool),
		}
	}

	recorder := metrics.NewRecorder()
	opts := bootstrap.Options{
		StoreName: cfg.App.StoreName,
		JWT: auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		Log:     log.Zerolog(),
		Metrics: recorder,
	}

	// Caché del dashboard: opcional, sin Redis se calcula en cada request.
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, dashboard sin caché")
		} else {
			defer rdb.Close()
			opts.Cache = cache.NewRedisCache(rdb, log.Component("cache"))
			opts.CacheTTL = time.Duration(cfg.Redis.CacheTTLSeconds) * time.Second
		}
	}

	deps := bootstrap.Wire(store, opts)

	var middlewares []fiber.Handler
	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		middlewares = append(middlewares, swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "POS Ventas API",
		}))
	}

	app := httpRouter.NewApp(cfg.App.Name, deps.Router, recorder.Handler(), middlewares...)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
