// Package app wires configuration, storage and the domain services into one
// application shared by the MCP server and the CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/metalcycle/lcastudio/internal/config"
	"github.com/metalcycle/lcastudio/internal/domain/activity"
	"github.com/metalcycle/lcastudio/internal/domain/assist"
	"github.com/metalcycle/lcastudio/internal/domain/project"
	"github.com/metalcycle/lcastudio/internal/domain/session"
	"github.com/metalcycle/lcastudio/internal/domain/template"
	"github.com/metalcycle/lcastudio/internal/mcp"
	"github.com/metalcycle/lcastudio/internal/sqlite"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is stamped at build time.
var Version = "dev"

// App holds the wired services.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	DB        *sqlite.DB
	Projects  *project.Service
	Activity  *activity.Service
	Sessions  *session.Service
	Templates *template.Catalog
}

// NewLogger builds the text logger used by every binary.
func NewLogger(cfg config.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
}

// New opens the database, runs migrations and seeds the samples when enabled.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	projectSvc := project.NewService(sqlite.NewProjectRepository(db), logger)
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	templates := template.Builtin()
	sessionSvc := session.NewService(projectSvc, templates, activitySvc, logger, session.Options{
		Engine:     assist.NewSeededEngine(cfg.Assist.Seed),
		StageDelay: cfg.Assist.StageDelay,
	})

	if cfg.DB.SeedSamples {
		n, err := projectSvc.Seed(ctx)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("seed samples: %w", err)
		}
		if n > 0 {
			logger.Info("seeded sample projects", "count", n)
		}
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Projects:  projectSvc,
		Activity:  activitySvc,
		Sessions:  sessionSvc,
		Templates: templates,
	}, nil
}

// MCPServer builds the MCP server over the app's services.
func (a *App) MCPServer() *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:  a.Projects,
			Sessions:  a.Sessions,
			Activity:  a.Activity,
			Templates: a.Templates,
		},
		ExportDir: a.Config.Export.Dir,
		Version:   Version,
		Logger:    a.Logger,
	})
}

// ServeStdio runs the MCP server on stdin/stdout until the client
// disconnects or ctx is cancelled.
func (a *App) ServeStdio(ctx context.Context) error {
	a.Logger.Info("starting stdio transport", "version", Version, "db", a.Config.DB.Path)
	if err := a.MCPServer().Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
