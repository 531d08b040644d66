package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxLoggedPayload bounds a logged payload; inline exports and analytics
// reports can run to many kilobytes.
const maxLoggedPayload = 2048

func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			attrs := []any{
				"direction", direction,
				"method", method,
				"session_id", safeSessionID(req),
				"form_id", getFormID(ctx),
			}
			if tool := toolName(method, req); tool != "" {
				attrs = append(attrs, "tool", tool)
			}
			logger.Debug("mcp traffic", append(attrs, "stage", "request", "params", formatPayload(safeParams(req)))...)

			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}
			attrs = append(attrs, "stage", "response", "result", formatPayload(result))
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			if r, ok := result.(*sdkmcp.CallToolResult); ok && r != nil && r.IsError {
				attrs = append(attrs, "tool_error", true)
			}
			logger.Debug("mcp traffic", attrs...)
			return result, err
		}
	}
}

func toolName(method string, req sdkmcp.Request) string {
	if method != "tools/call" {
		return ""
	}
	data, err := json.Marshal(safeParams(req))
	if err != nil {
		return ""
	}
	var call struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(data, &call) != nil {
		return ""
	}
	return call.Name
}

func safeSessionID(req sdkmcp.Request) string {
	if req == nil {
		return ""
	}
	defer func() { recover() }()
	session := req.GetSession()
	if session == nil {
		return ""
	}
	return session.ID()
}

func safeParams(req sdkmcp.Request) any {
	if req == nil {
		return nil
	}
	defer func() { recover() }()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		return fmt.Sprintf("%s... (%d bytes)", data[:maxLoggedPayload], len(data))
	}
	return string(data)
}
