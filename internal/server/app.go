// Package server wires the gophauth components together and runs the HTTP
// and gRPC servers plus the token cleanup scheduler until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/cleanup"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpapi"
	"github.com/dmitrijs2005/gophauth/internal/server/mailer"
	"github.com/dmitrijs2005/gophauth/internal/server/ratelimit"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	accounts *services.AccountService
	limiter  ratelimit.Limiter
	cleanup  *cleanup.Worker
	closers  []func() error
}

// openRepositoryManager is a seam for tests.
var openRepositoryManager = func(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, *sql.DB, error) {
	if c.StorageBackend == config.StorageMemory {
		return repomanager.NewInMemoryRepositoryManager(), nil, nil
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations error: %w", err)
	}
	return rm, db, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.New(c.LogFormat, c.LogLevel, os.Stdout)
	app := &App{config: c, logger: logger}

	rm, db, err := openRepositoryManager(ctx, c)
	if err != nil {
		return nil, err
	}
	app.db = db
	if db != nil {
		app.closers = append(app.closers, db.Close)
	}

	notifier, err := mailer.New(ctx, c, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	limiter, closeLimiter, err := ratelimit.New(ctx, ratelimit.Options{
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		Rate:          c.RateLimitRequests,
		Window:        c.RateLimitWindow,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	app.limiter = limiter
	app.closers = append(app.closers, closeLimiter)

	app.accounts, err = services.NewAccountService(rm, notifier, c,
		services.WithLimiter(limiter),
		services.WithLogger(logger),
	)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.cleanup, err = cleanup.NewWorker(rm, c.CleanupSchedule, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// Close releases the database pool and the Redis client.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Warn(context.Background(), "close", "error", err)
		}
	}
	app.closers = nil
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accounts, app.limiter)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.accounts, httpapi.Options{
		AllowedOrigins:    app.config.CORSAllowedOrigins,
		SecureCookie:      isHTTPS(app.config.AppURL),
		Limiter:           app.limiter,
		TrustProxyHeaders: app.config.TrustProxyHeaders,
	}, app.logger)

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startCleanup(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.cleanup.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives, ctx is cancelled or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.Close()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend, "mail", app.config.MailTransport)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	for _, start := range []func(context.Context, context.CancelFunc){
		app.startGRPCServer,
		app.startHTTPServer,
		app.startCleanup,
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
}

func isHTTPS(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme == "https"
}
