package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const (
	formIDKey contextKey = iota
)

// getFormID extracts the default form ID from context.
func getFormID(ctx context.Context) string {
	v, _ := ctx.Value(formIDKey).(string)
	return v
}

// resolveFormID prefers an explicit argument over the request metadata.
func resolveFormID(ctx context.Context, arg string) string {
	if arg != "" {
		return arg
	}
	return getFormID(ctx)
}

// formMiddleware extracts a default form ID from _meta.form_id so clients
// driving a single form can omit the form_id argument.
func formMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var formID string

			// Some notifications (like "initialized") have nil params.
			if params := req.GetParams(); params != nil {
				func() {
					defer func() { recover() }()
					if meta := params.GetMeta(); meta != nil {
						if id, ok := meta["form_id"].(string); ok {
							formID = id
						}
					}
				}()
			}

			if formID != "" {
				ctx = context.WithValue(ctx, formIDKey, formID)
			}

			return next(ctx, method, req)
		}
	}
}

// recoverMiddleware turns a panicking handler into an error response.
func recoverMiddleware(logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (result sdkmcp.Result, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("mcp handler panic", "method", method, "panic", r, "stack", string(debug.Stack()))
					result, err = nil, fmt.Errorf("internal error handling %s", method)
				}
			}()
			return next(ctx, method, req)
		}
	}
}
