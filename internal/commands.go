package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/fms/internal/mcpserver"
	"github.com/starford/fms/internal/models"
)

// RunMCP serves the MCP tools over stdio until stdin closes.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.newLogger()

	c, err := openCore(ctx, app.config, logger)
	if err != nil {
		return err
	}
	defer c.close()

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(c.service(nil)).ServeStdio()
}

// PrintBriefing writes the daily briefing for u to out as indented JSON.
func PrintBriefing(ctx context.Context, out io.Writer, u models.User, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.newLogger()

	c, err := openCore(ctx, app.config, logger)
	if err != nil {
		return err
	}
	defer c.close()

	b, err := c.service(nil).Briefing(ctx, u)
	if err != nil {
		return fmt.Errorf("briefing: %w", err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// SaveToken stores the bearer token used for remote calls.
func SaveToken(ctx context.Context, token string, opts ...Option) error {
	return withSession(ctx, opts, func(c *core) error {
		if err := c.session.Save(ctx, token); err != nil {
			return err
		}
		c.logger.Info("session token saved")
		return nil
	})
}

// ClearToken removes the stored bearer token.
func ClearToken(ctx context.Context, opts ...Option) error {
	return withSession(ctx, opts, func(c *core) error {
		if err := c.session.Clear(ctx); err != nil {
			return err
		}
		c.logger.Info("session token cleared")
		return nil
	})
}

func withSession(ctx context.Context, opts []Option, fn func(*core) error) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.newLogger()

	c, err := openCore(ctx, app.config, logger)
	if err != nil {
		return err
	}
	defer c.close()

	if err := fn(c); err != nil {
		logger.Error("session update failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
