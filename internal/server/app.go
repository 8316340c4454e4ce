// Package server wires the blog service together and runs its REST and gRPC
// fronts side by side.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/guard"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophblog/internal/server/rest"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gophblog/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	repos      repomanager.RepositoryManager
	closers    []func() error
	grpcServer *gs.GRPCServer
	httpServer *rest.HTTPServer
}

// NewApp connects to PostgreSQL, applies migrations and, when RedisAddr is
// set, connects the shared token deny-list.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	closers := []func() error{repos.Close}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	var revocations auth.RevocationList
	if c.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			_ = repos.Close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		revocations = auth.NewRedisRevocationList(client, nil)
		closers = append(closers, client.Close)
	} else {
		logger.Warn(ctx, "REDIS_ADDR not set, token revocations are kept in memory")
		revocations = auth.NewMemoryRevocationList(nil)
	}

	app := newApp(c, logger, repos, revocations)
	app.closers = closers
	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, repos repomanager.RepositoryManager, revocations auth.RevocationList) *App {
	hasher := auth.NewArgon2Hasher(auth.Argon2Params{
		Memory:      c.HashMemoryKiB,
		Iterations:  c.HashIterations,
		Parallelism: c.HashParallelism,
		SaltLength:  16,
		KeyLength:   32,
	}, c.HashConcurrency)
	tokens := auth.NewTokenCodec([]byte(c.SecretKey), c.TokenTTL, nil)

	as := services.NewAuthService(repos.Users(), hasher, tokens, revocations, logger)
	ps := services.NewPostService(repos.Posts(), logger)
	g := guard.New(tokens, revocations, as, logger)

	router := rest.NewRouter(logger, g, rest.NewAuthHandler(as), rest.NewPostHandler(ps))

	return &App{
		config:     c,
		logger:     logger,
		repos:      repos,
		grpcServer: gs.NewGRPCServer(c.GRPCAddr, logger, as, ps, g),
		httpServer: rest.NewHTTPServer(c.HTTPAddr, logger, router, c.ShutdownTimeout),
	}
}

// Run serves both fronts until ctx is cancelled, a termination signal
// arrives or either front stops. Stopping one stops the other.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return app.grpcServer.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return app.httpServer.Run(gctx)
	})

	err := g.Wait()
	app.logger.Info(ctx, "App stopped")

	return errors.Join(err, app.close())
}

func (app *App) close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
