package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/time/rate"

	"github.com/starford/fms/internal/datasource"
	"github.com/starford/fms/internal/gateway"
	"github.com/starford/fms/internal/opsservice"
	"github.com/starford/fms/internal/repository"
	"github.com/starford/fms/internal/session"
	"github.com/starford/fms/internal/substrate"
)

// core is the wiring shared by every command.
type core struct {
	cfg     *Config
	logger  *slog.Logger
	sub     substrate.Substrate
	repos   *repository.Set
	session *session.Store
	client  *gateway.Client
	sources datasource.Sources
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logWriter == nil {
		app.logWriter = os.Stdout
	}
	return app, nil
}

func (a *application) newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logWriter, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// openCore opens the substrate, seeds the repositories and selects the read
// paths. The caller must call close.
func openCore(ctx context.Context, cfg *Config, logger *slog.Logger) (*core, error) {
	sub, err := substrate.OpenDSN(ctx, cfg.Substrate.DSN)
	if err != nil {
		return nil, fmt.Errorf("open substrate: %w", err)
	}

	repos := repository.NewSet(sub, logger)
	if err := repos.EnsureSeeded(ctx); err != nil {
		logger.Warn("seeding failed", slog.String("error", err.Error()))
	}

	c := &core{
		cfg:     cfg,
		logger:  logger,
		sub:     sub,
		repos:   repos,
		session: session.NewStore(sub),
	}

	if cfg.Remote.Enabled {
		var limiter *rate.Limiter
		if cfg.Remote.RateLimit > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.Remote.RateLimit), cfg.Remote.Burst)
		}
		c.client, err = gateway.New(gateway.Options{
			BaseURL: cfg.Remote.BaseURL,
			Timeout: cfg.Remote.Timeout,
			Tokens:  c.session,
			Limiter: limiter,
			Logger:  logger,
		})
		if err != nil {
			_ = sub.Close()
			return nil, fmt.Errorf("init gateway: %w", err)
		}
	}

	c.sources = datasource.Select(datasource.Options{
		Repos:  repos,
		Client: c.client,
		Remote: cfg.Remote.Enabled,
		Areas: datasource.Areas{
			Dashboard: cfg.Remote.Areas.Dashboard,
			POS:       cfg.Remote.Areas.POS,
			Board:     cfg.Remote.Areas.Board,
		},
		Policy: cfg.Policy.InsightPolicy(),
	})
	return c, nil
}

func (c *core) service(notify opsservice.Notifier) *opsservice.Service {
	return opsservice.NewService(c.repos, c.sources, opsservice.Options{
		Notifier:      notify,
		PriorityLimit: c.cfg.Policy.PriorityStoreLimit,
		Logger:        c.logger,
	})
}

func (c *core) close() {
	if err := c.sub.Close(); err != nil {
		c.logger.Warn("close substrate", slog.String("error", err.Error()))
	}
}
