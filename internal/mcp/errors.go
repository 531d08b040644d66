package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/metalcycle/lcastudio/internal/domain/activity"
	"github.com/metalcycle/lcastudio/internal/domain/analytics"
	"github.com/metalcycle/lcastudio/internal/domain/form"
	"github.com/metalcycle/lcastudio/internal/domain/project"
	"github.com/metalcycle/lcastudio/internal/domain/session"
	"github.com/metalcycle/lcastudio/internal/domain/template"
	"github.com/metalcycle/lcastudio/internal/export"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var verr *form.ValidationError
	if errors.As(err, &verr) {
		if errors.Is(verr, form.ErrStepIncomplete) {
			return &APIError{
				Code:         "STEP_INCOMPLETE",
				Message:      fmt.Sprintf("step %d is incomplete", verr.Step),
				Details:      verr.Fields,
				RecoveryHint: "Fill the listed fields or call assist_fill",
			}
		}
		return &APIError{
			Code:         "INVALID_VALUE",
			Message:      "value out of range",
			Details:      verr.Fields,
			RecoveryHint: "Percentages are 0-100; other numbers must not be negative",
		}
	}

	var ferr *project.FieldError
	if errors.As(err, &ferr) {
		return &APIError{
			Code:         "INVALID_FIELD",
			Message:      ferr.Error(),
			Details:      map[string]string{"field": ferr.Field},
			RecoveryHint: "Read lca://docs/fields for names and choices",
		}
	}

	var xerr *export.Error
	if errors.As(err, &xerr) {
		return &APIError{
			Code:         "EXPORT_FAILED",
			Message:      xerr.Error(),
			Details:      map[string]string{"target": xerr.Target},
			RecoveryHint: "The project is unchanged; try another target",
		}
	}

	switch {
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, analytics.ErrUnknownProject):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid IDs"}
	case errors.Is(err, session.ErrFormNotFound):
		return &APIError{Code: "FORM_NOT_FOUND", Message: "form not found", RecoveryHint: "Call start_form to open a form"}
	case errors.Is(err, template.ErrTemplateNotFound):
		return &APIError{Code: "TEMPLATE_NOT_FOUND", Message: "template not found", RecoveryHint: "Call list_templates for valid IDs"}
	case errors.Is(err, form.ErrStepLocked):
		return &APIError{Code: "STEP_LOCKED", Message: err.Error(), RecoveryHint: "Advance with form_next first"}
	case errors.Is(err, form.ErrLastMetal):
		return &APIError{Code: "LAST_METAL", Message: "a project needs at least one metal", RecoveryHint: "Add another metal before removing this one"}
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, form.ErrInvalidValue), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check the arguments"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &APIError{Code: "CANCELLED", Message: err.Error(), RecoveryHint: "Retry the call"}
	default:
		return nil
	}
}

// errorResult renders err as a tool error the client can act on.
func errorResult(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	if apiErr == nil {
		apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
	}
	data, mErr := json.Marshal(apiErr)
	if mErr != nil {
		data = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
