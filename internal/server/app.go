// Package server wires the FarmAI services together and runs the HTTP API
// and the gRPC health endpoint until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/ccsafarmai/farmai/internal/logging"
	"github.com/ccsafarmai/farmai/internal/server/api"
	"github.com/ccsafarmai/farmai/internal/server/config"
	"github.com/ccsafarmai/farmai/internal/server/llm"
	"github.com/ccsafarmai/farmai/internal/server/metrics"
	"github.com/ccsafarmai/farmai/internal/server/notify"
	"github.com/ccsafarmai/farmai/internal/server/ratelimit"
	"github.com/ccsafarmai/farmai/internal/server/repositories/repomanager"
	"github.com/ccsafarmai/farmai/internal/server/services"

	gs "github.com/ccsafarmai/farmai/internal/server/grpc"
)

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	http   *api.HTTPServer
	health *gs.HealthServer
}

// OpenDatabase connects to PostgreSQL and applies pending migrations.
func OpenDatabase(ctx context.Context, cfg *config.Config, m repomanager.RepositoryManager) (*sql.DB, error) {
	db, err := sqlOpen("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	return db, nil
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	rm := repomanager.NewPostgresRepositoryManager()

	db, err := OpenDatabase(ctx, c, rm)
	if err != nil {
		return nil, err
	}

	sender, err := notify.NewSender(c, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("email init error: %w", err)
	}
	mailer := notify.NewMailer(sender, c.AppURL)

	tokens := services.NewTokenService(db, rm, c)
	usage := services.NewUsageService(db, rm, c)

	deps := api.Dependencies{
		Auth:         services.NewAuthService(db, rm, tokens, mailer, logger),
		Sessions:     services.NewSessionService(db, rm, c),
		Usage:        usage,
		Advisor:      services.NewAdvisorService(db, rm, usage, llm.NewOpenAIGenerator(c), logger),
		Account:      services.NewAccountService(db, rm, c),
		Admin:        services.NewAdminService(db, rm),
		Metrics:      metrics.New(),
		Logger:       logger,
		SessionTTL:   c.SessionTTL,
		SecureCookie: c.Environment == "production",
	}

	app := &App{config: c, logger: logger, db: db}

	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		deps.Limiter = ratelimit.NewRedisRateLimiter(app.redis, "", c.RateLimitPerSecond, float64(c.RateLimitCapacity))
	} else {
		logger.Warn(ctx, "redis_addr is empty, auth rate limiting disabled")
	}

	app.http = api.NewHTTPServer(c.HTTPAddr, api.NewHandler(deps))
	app.health = gs.NewHealthServer(c.GRPCAddr, logger, db, 0)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) runServer(ctx context.Context, cancelFunc context.CancelFunc, name string, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

// Run blocks until a signal arrives or one of the servers fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "http", app.http.Run)
	}()
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "grpc", app.health.Run)
	}()

	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close", "error", err)
	}
}
