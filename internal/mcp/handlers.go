package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/ops"
	"github.com/hpungsan/roster/internal/person"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	session *ops.Session
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(session *ops.Session) *Handlers {
	return &Handlers{session: session}
}

// Request types for each tool

// AddRequest represents the arguments for people_add.
type AddRequest struct {
	Name           string `json:"name"`
	BirthDate      string `json:"birth_date"`
	DocumentNumber string `json:"document_number"`
}

// ImportRequest represents the arguments for people_import.
type ImportRequest struct {
	Text string `json:"text,omitempty"`
	Path string `json:"path,omitempty"`
}

// ListRequest represents the arguments for people_list.
type ListRequest struct {
	Limit          int  `json:"limit,omitempty"`
	Offset         int  `json:"offset,omitempty"`
	DuplicatesOnly bool `json:"duplicates_only,omitempty"`
}

// RemoveRequest represents the arguments for people_remove.
type RemoveRequest struct {
	ID string `json:"id"`
}

// ConfirmRequest represents the arguments for people_clear and people_dedupe.
type ConfirmRequest struct {
	Confirm bool `json:"confirm,omitempty"`
}

// ExportRequest represents the arguments for people_export.
type ExportRequest struct {
	Format string `json:"format,omitempty"`
	Path   string `json:"path,omitempty"`
	Inline bool   `json:"inline,omitempty"`
}

// InlineExport is the people_export result when inline is set.
type InlineExport struct {
	Format   person.Format `json:"format"`
	Filename string        `json:"filename"`
	Count    int           `json:"count"`
	Content  string        `json:"content"`
}

// Handler implementations

// HandleAdd handles the people_add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Add(ctx, h.session, ops.AddInput{
		Name:           input.Name,
		BirthDate:      input.BirthDate,
		DocumentNumber: input.DocumentNumber,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the people_import tool call.
// A path reads a JSON export back; otherwise text is parsed line by line.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if strings.TrimSpace(input.Path) != "" {
		if input.Text != "" {
			return errorResult(errors.NewInvalidRequest("pass either text or path, not both")), nil
		}
		result, err := ops.ImportJSON(ctx, h.session, ops.ImportJSONInput{Path: input.Path})
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(result)
	}

	result, err := ops.Import(ctx, h.session, ops.ImportInput{Text: input.Text})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the people_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.session, ops.ListInput{
		Limit:          input.Limit,
		Offset:         input.Offset,
		DuplicatesOnly: input.DuplicatesOnly,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSummary handles the people_summary tool call.
func (h *Handlers) HandleSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Summary(ctx, h.session)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRemove handles the people_remove tool call.
func (h *Handlers) HandleRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RemoveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Remove(ctx, h.session, ops.RemoveInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleClear handles the people_clear tool call.
func (h *Handlers) HandleClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ConfirmRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Clear(ctx, h.session, ops.ClearInput{Confirm: input.Confirm})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDedupe handles the people_dedupe tool call.
func (h *Handlers) HandleDedupe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ConfirmRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Dedupe(ctx, h.session, ops.DedupeInput{Confirm: input.Confirm})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the people_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if input.Inline {
		if input.Path != "" {
			return errorResult(errors.NewInvalidRequest("inline export does not take a path")), nil
		}
		rendered, err := ops.Render(ctx, h.session, ops.RenderInput{Format: input.Format})
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(InlineExport{
			Format:   rendered.Format,
			Filename: rendered.Filename,
			Count:    rendered.Count,
			Content:  string(rendered.Data),
		})
	}

	result, err := ops.Export(ctx, h.session, ops.ExportInput{
		Format: input.Format,
		Path:   input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// INTERNAL errors carry neither their message nor details.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if rErr, ok := errors.AsRoster(err); ok && rErr.Code != errors.ErrInternal {
		errorObj := map[string]any{
			"code":    rErr.Code,
			"message": rErr.Message,
			"status":  rErr.Status,
		}
		if rErr.Details != nil {
			errorObj["details"] = rErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		slog.Error("tool failed", "component", "mcp", "error", err)
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
