package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"labportal/internal/api"
	"labportal/internal/common/config"
	"labportal/internal/common/database"
	"labportal/internal/common/logger"
	"labportal/internal/common/observability"
	"labportal/internal/ledger"
	"labportal/internal/session"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	obs      *observability.Observability
	sessions session.Store
	journal  ledger.Ledger
	client   *api.Client
	redis    *database.Redis
	pg       *database.Postgres
	out      io.Writer
	closers  []func() error
}

type appOption func(*app)

func withOutput(w io.Writer) appOption {
	return func(a *app) { a.out = w }
}

func withClientOptions(opts ...api.Option) appOption {
	return func(a *app) {
		a.client = api.New(a.cfg.API, a.sessions, a.log, append([]api.Option{api.WithObservability(a.obs)}, opts...)...)
	}
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...appOption) (*app, error) {
	a := &app{cfg: cfg, log: log, out: os.Stdout, journal: ledger.Nop{}}

	obs, err := observability.New(cfg.App.Name, nil)
	if err != nil {
		log.Warn("observability disabled", map[string]interface{}{"error": err})
	}
	a.obs = obs
	a.closers = append(a.closers, obs.Shutdown)

	if err := a.initSessions(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.initLedger(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.client = api.New(cfg.API, a.sessions, log, api.WithObservability(obs))
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *app) initSessions(ctx context.Context) error {
	if a.cfg.Session.Backend != "redis" {
		a.sessions = session.NewMemoryStore()
		return nil
	}

	rdb, err := connect(ctx, func() (*database.Redis, error) {
		return database.NewRedis(a.cfg.Database.Redis)
	}, connectAttempts, connectDelay, a.log, "Redis connection")
	if err != nil {
		return fmt.Errorf("session store unavailable: %w", err)
	}
	a.redis = rdb
	a.closers = append(a.closers, a.redis.Close)

	ttl := time.Duration(a.cfg.Session.TTL) * time.Second
	a.sessions = session.NewRedisStore(a.redis.Client(), a.cfg.Session.Profile, ttl, a.log)
	return nil
}

// initLedger opens the submission journal. An unreachable database degrades
// to the no-op journal instead of failing every command.
func (a *app) initLedger(ctx context.Context) error {
	if !a.cfg.Database.Postgres.Enabled {
		return nil
	}

	pg, err := connect(ctx, func() (*database.Postgres, error) {
		return database.NewPostgres(a.cfg.Database.Postgres)
	}, connectAttempts, connectDelay, a.log, "PostgreSQL connection")
	if err != nil {
		a.log.Warn("submission journal disabled", map[string]interface{}{"error": err})
		return nil
	}
	a.pg = pg
	a.closers = append(a.closers, a.pg.Close)

	journal := ledger.NewPostgres(a.pg.DB(), a.log)
	if err := journal.EnsureSchema(ctx); err != nil {
		return err
	}
	a.journal = journal
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", map[string]interface{}{"error": err})
		}
	}
	a.closers = nil
}

// action returns the enabled flag and timeout configured for name.
func (a *app) action(name string) (bool, time.Duration) {
	ac := config.GetActionConfig(a.cfg, name)
	return ac.Enabled, config.GetDuration(ac.Timeout)
}

// retryWithBackoff attempts operation with exponential backoff.
const (
	connectAttempts = 3
	connectDelay    = 500 * time.Millisecond
)

// storeHandle is a connection that can be probed and released.
type storeHandle interface {
	Ping(ctx context.Context) error
	Close() error
}

// connect opens a store and pings it, retrying with backoff. A handle whose
// ping fails is closed before the next attempt; on error nothing stays open.
func connect[S storeHandle](ctx context.Context, open func() (S, error), attempts int, delay time.Duration, log logger.Logger, name string) (S, error) {
	var conn S
	err := retryWithBackoff(ctx, func() error {
		s, err := open()
		if err != nil {
			return err
		}
		if err := s.Ping(ctx); err != nil {
			if cerr := s.Close(); cerr != nil {
				log.Warn(name+" close failed", map[string]interface{}{"error": cerr})
			}
			return err
		}
		conn = s
		return nil
	}, attempts, delay, log, name)
	return conn, err
}

func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(operationName+" failed, retrying", map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
