package mcp

import (
	"context"
	"log/slog"

	"github.com/metalcycle/lcastudio/internal/domain/activity"
	"github.com/metalcycle/lcastudio/internal/domain/form"
	"github.com/metalcycle/lcastudio/internal/domain/project"
	"github.com/metalcycle/lcastudio/internal/domain/session"
	"github.com/metalcycle/lcastudio/internal/domain/template"
	"github.com/metalcycle/lcastudio/internal/export"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context) ([]project.Summary, error)
	ListRecent(ctx context.Context, n int) ([]project.Project, error)
	Overview(ctx context.Context) (project.Overview, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Duplicate(ctx context.Context, id string) (*project.Project, error)
}

// SessionService defines form session operations needed by MCP.
type SessionService interface {
	Start(ctx context.Context, req session.StartRequest) (*session.FormSession, error)
	Get(id string) (*session.FormSession, error)
	List() []session.Info
	Close(id string) error
	Submit(ctx context.Context, id string) (*project.Project, error)
	Next(ctx context.Context, id string) (form.Outcome, error)
	Assist(ctx context.Context, id string) (form.AssistResult, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
	Record(ctx context.Context, typ activity.ActivityType, projectID string, formID *string, summary string, details any)
}

// TemplateCatalog lists the template gallery.
type TemplateCatalog interface {
	List() []template.Template
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects  ProjectService
	Sessions  SessionService
	Activity  ActivityService
	Templates TemplateCatalog
}

// Config contains server configuration.
type Config struct {
	Services Services
	// ExportDir is where export_project writes files by default.
	ExportDir string
	// Clipboard overrides the system clipboard for export_project.
	Clipboard export.Clipboard
	Version   string
	Logger    *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "lcastudio",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(recoverMiddleware(cfg.Logger))
	server.AddReceivingMiddleware(formMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &toolHandler{
		svc:       cfg.Services,
		exportDir: cfg.ExportDir,
		clipboard: cfg.Clipboard,
		logger:    cfg.Logger,
	})

	return server
}
