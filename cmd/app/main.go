package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/fms/internal"
	"github.com/starford/fms/internal/models"
	pkgconfig "github.com/starford/fms/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithLogWriter(os.Stderr))
}

func briefing(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	u := models.User{
		ID:   cmd.String("user"),
		Name: cmd.String("name"),
		Role: cmd.String("role"),
	}
	return internal.PrintBriefing(ctx, os.Stdout, u, internal.WithConfig(cfg), internal.WithLogWriter(os.Stderr))
}

func tokenSet(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("usage: token set <token>")
	}
	return internal.SaveToken(ctx, cmd.Args().First(), internal.WithConfig(cfg), internal.WithLogWriter(os.Stderr))
}

func tokenClear(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ClearToken(ctx, internal.WithConfig(cfg), internal.WithLogWriter(os.Stderr))
}

func main() {
	cmd := &cli.Command{
		Name:   "fms",
		Usage:  "Franchise operations dashboard core: store risk, action items, briefings",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and event stream",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: mcp,
			},
			{
				Name:   "briefing",
				Usage:  "Print the daily briefing for a user as JSON",
				Action: briefing,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "User id", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Display name"},
					&cli.StringFlag{Name: "role", Usage: "admin, manager or supervisor", Value: models.RoleSupervisor},
				},
			},
			{
				Name:  "token",
				Usage: "Manage the session token used for remote calls",
				Commands: []*cli.Command{
					{Name: "set", Usage: "Store a bearer token", ArgsUsage: "<token>", Action: tokenSet},
					{Name: "clear", Usage: "Remove the stored token", Action: tokenClear},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
