package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/gncci-portal/internal/application/session"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	"github.com/jhoicas/gncci-portal/internal/infrastructure/errorreport"
	infrapdf "github.com/jhoicas/gncci-portal/internal/infrastructure/pdf"
	"github.com/jhoicas/gncci-portal/internal/infrastructure/postgres"
	"github.com/jhoicas/gncci-portal/internal/infrastructure/sessionstore"
	"github.com/jhoicas/gncci-portal/internal/infrastructure/supabase"
	httpRouter "github.com/jhoicas/gncci-portal/internal/interfaces/http"
	"github.com/jhoicas/gncci-portal/pkg/config"
	"github.com/jhoicas/gncci-portal/pkg/logger"
	"github.com/jhoicas/gncci-portal/pkg/secretbox"
)

const (
	orgName       = "Ghana National Chamber of Commerce & Industry"
	sweepInterval = time.Minute
	swaggerFile   = "./docs/swagger.json"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := supabase.New(supabase.Config{
		URL:            cfg.Supabase.URL,
		AnonKey:        cfg.Supabase.AnonKey,
		ServiceRoleKey: cfg.Supabase.ServiceRoleKey,
		JWTSecret:      cfg.Supabase.JWTSecret,
		Timeout:        cfg.Supabase.Timeout,
	}, supabase.WithLogger(log.Component("supabase")), supabase.WithMetrics())
	if err != nil {
		log.Fatal().Err(err).Msg("cliente Supabase")
	}
	if cfg.Session.CookieKey == "" {
		log.Warn().Msg("SESSION_COOKIE_KEY sin configurar: las cookies de sesión no sobreviven a un reinicio")
	}
	if !client.Configured() {
		log.Warn().Msg("SUPABASE_URL / SUPABASE_ANON_KEY sin configurar: las peticiones al backend fallarán")
	}

	// Sesiones persistidas: Redis si está configurado, memoria si no.
	var store repository.SessionStore
	if cfg.Redis.Enabled() {
		rs, err := sessionstore.NewRedis(ctx, sessionstore.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rs.Close()
		store = rs
	} else {
		mem := sessionstore.NewMemory()
		go mem.Run(ctx, sweepInterval)
		store = mem
	}

	backend := &portalBackend{
		client:     client,
		store:      store,
		storageKey: cfg.Session.StorageKey,
		redirectTo: cfg.HTTP.SiteURL,
		persistTTL: cfg.Session.PersistTTL,
		log:        log.Component("auth"),
	}

	// Pool directo (solo lectura) para las estadísticas del panel.
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		backend.stats = postgres.NewStatsRepository(pool)
	}

	box, err := secretbox.New(cfg.Payments.SettingsKey)
	if err != nil {
		log.Fatal().Err(err).Msg("PAYMENT_SETTINGS_KEY")
	}

	var userAdmin repository.UserAdmin
	if client.HasServiceRole() {
		userAdmin = supabase.NewAdminUsers(client)
	}

	registry := session.NewRegistry(backend, session.Options{
		IdleTTL:      cfg.Session.IdleTTL,
		FetchTimeout: cfg.Supabase.Timeout,
		UserAdmin:    userAdmin,
		Box:          box,
		Logger:       log.Zerolog(),
	})
	defer registry.Close()
	go registry.Run(ctx, sweepInterval)

	var reporter httpRouter.ErrorReporter
	if cfg.App.IsProduction() && cfg.Errors.URL != "" {
		r := errorreport.New(cfg.Errors.URL, log.Component("errorreport"))
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			r.Close(closeCtx)
		}()
		reporter = r
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http"), reporter),
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: true, StackTraceHandler: httpRouter.PanicStack}))
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.Metrics())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "GNCCI Portal API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "sessions": registry.Len()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions: registry,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Session.CookieName,
			Key:    cfg.Session.CookieKey,
			Secure: cfg.App.IsProduction(),
			MaxAge: cfg.Session.PersistTTL,
		},
		Receipts: infrapdf.NewReceiptGenerator(orgName),
		Reporter: reporter,
		Log:      log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
