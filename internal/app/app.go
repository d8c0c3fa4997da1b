package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minewager/internal/audit"
	"github.com/vancomm/minewager/internal/config"
	"github.com/vancomm/minewager/internal/database"
	"github.com/vancomm/minewager/internal/locker"
	"github.com/vancomm/minewager/internal/middleware"
	"github.com/vancomm/minewager/internal/repository"
	"github.com/vancomm/minewager/internal/wager"
)

type App struct {
	logger     *slog.Logger
	router     *mux.Router
	migrations fs.FS

	db      *pgxpool.Pool
	redis   redis.UniversalClient
	audit   *audit.Logger
	cookies *config.Cookies
	jwt     *config.JWT
	ws      *config.WebSocket
	game    *config.Game
	games   *wager.Service
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	return &App{
		logger:     logger,
		router:     mux.NewRouter(),
		migrations: migrations,
	}
}

func (a *App) newLocker(ctx context.Context) (locker.Locker, error) {
	cfg, err := config.NewRedis()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		a.logger.Info("REDIS_URL not set, using in-process game locks")
		return locker.NewLocal(), nil
	}

	client := redis.NewClient(cfg.Options)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to reach redis: %w", err)
	}
	a.redis = client
	return locker.NewRedis(client, cfg.LockTTL, a.logger), nil
}

func (a *App) setup(ctx context.Context) error {
	db, _, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	a.db = db

	auditCfg, err := config.NewAudit()
	if err != nil {
		return fmt.Errorf("failed to read audit config: %w", err)
	}
	if a.audit, err = audit.New(auditCfg); err != nil {
		return fmt.Errorf("unable to open audit log: %w", err)
	}

	if a.jwt, err = config.NewJWT(); err != nil {
		return fmt.Errorf("failed to read jwt config: %w", err)
	}
	if a.cookies, err = config.NewCookies(a.jwt); err != nil {
		return fmt.Errorf("failed to read cookies config: %w", err)
	}
	if a.ws, err = config.NewWebSocket(); err != nil {
		return fmt.Errorf("failed to read ws config: %w", err)
	}
	if a.game, err = config.NewGame(); err != nil {
		return fmt.Errorf("failed to read game config: %w", err)
	}

	locks, err := a.newLocker(ctx)
	if err != nil {
		return err
	}

	a.games = wager.NewService(wager.NewStore(a.db), locks, a.audit, a.logger, wager.Config{
		MaxBet: a.game.MaxBet,
	})
	return nil
}

func (a *App) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func (a *App) Start(ctx context.Context) error {
	defer a.close()
	if err := a.setup(ctx); err != nil {
		return err
	}

	a.loadRoutes(repository.New(a.db), a.db.Ping)

	var allowedOrigins []string
	if public := config.PublicURL(); public != "" && !config.Development() {
		allowedOrigins = append(allowedOrigins, public)
	}

	addr := config.Port()
	server := &http.Server{
		Addr: addr,
		Handler: middleware.Wrap(
			a.router,
			middleware.Logging(a.logger),
			middleware.Recover(a.logger),
			middleware.Cors(allowedOrigins...),
			middleware.Auth(a.logger, a.cookies),
		),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr))
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
