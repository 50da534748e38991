package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/roster/internal/config"
	"github.com/hpungsan/roster/internal/db"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/ops"
)

// testSetup opens a session over a temporary database.
func testSetup(t *testing.T, mutate func(*config.Config)) *ops.Session {
	t.Helper()

	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests
	if mutate != nil {
		mutate(cfg)
	}

	session, err := ops.Open(context.Background(), db.NewSnapshots(database, ""), cfg)
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	return session
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

const seedText = "Ana Lima, 10/05/1985, 123.456.789-00\nana lima, 1990-01-01, 222\nBia Ramos, 1991-02-03, 12345678900"

func seed(t *testing.T, h *Handlers) {
	t.Helper()
	result, err := h.HandleImport(context.Background(), makeRequest(map[string]any{"text": seedText}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	parseOutput(t, result)
}

func TestHandleAdd(t *testing.T) {
	h := NewHandlers(testSetup(t, nil))
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "add valid person",
			args: map[string]any{
				"name":            "Ana Lima",
				"birth_date":      "10/05/1985",
				"document_number": "111",
			},
		},
		{
			name: "add without name",
			args: map[string]any{
				"birth_date":      "10/05/1985",
				"document_number": "111",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "add with blank document",
			args: map[string]any{
				"name":            "Ana",
				"birth_date":      "10/05/1985",
				"document_number": "   ",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "add with wrong argument type",
			args: map[string]any{
				"name":            42,
				"birth_date":      "10/05/1985",
				"document_number": "111",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleAdd(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				assertErrorCode(t, result, tt.errorCode)
				return
			}

			output := parseOutput(t, result)
			p := output["person"].(map[string]any)
			if p["birthDate"] != "1985-05-10" {
				t.Errorf("birthDate = %v, want 1985-05-10", p["birthDate"])
			}
		})
	}
}

func TestHandleAdd_ReportsDuplicates(t *testing.T) {
	h := NewHandlers(testSetup(t, nil))
	seed(t, h)

	result, _ := h.HandleAdd(context.Background(), makeRequest(map[string]any{
		"name":            "BIA  RAMOS",
		"birth_date":      "03/02/1991",
		"document_number": "999",
	}))
	output := parseOutput(t, result)

	dup := output["duplicates"].(map[string]any)
	if dup["name"] != true || dup["birthDate"] != true || dup["documentNumber"] != false {
		t.Errorf("duplicates = %v", dup)
	}
}

func TestHandleImport(t *testing.T) {
	h := NewHandlers(testSetup(t, nil))
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
		imported  float64
		skipped   float64
	}{
		{
			name:     "import text",
			args:     map[string]any{"text": "Ana, 1990-01-01, 1\nBia; 1991-01-01; 2"},
			imported: 2,
		},
		{
			name:     "import with unreadable line",
			args:     map[string]any{"text": "Ana, 1990-01-01, 1\nbroken,line"},
			imported: 1,
			skipped:  1,
		},
		{
			name:      "import nothing valid",
			args:      map[string]any{"text": "garbage"},
			wantError: true,
			errorCode: "NOTHING_VALID",
		},
		{
			name:      "import empty",
			args:      map[string]any{},
			wantError: true,
			errorCode: "EMPTY_INPUT",
		},
		{
			name:      "import text and path",
			args:      map[string]any{"text": "Ana, 1990-01-01, 1", "path": "/tmp/x.json"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "import missing file",
			args:      map[string]any{"path": filepath.Join(t.TempDir(), "missing.json")},
			wantError: true,
			errorCode: "FILE_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleImport(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				assertErrorCode(t, result, tt.errorCode)
				return
			}

			output := parseOutput(t, result)
			if output["imported"] != tt.imported || output["skipped"] != tt.skipped {
				t.Errorf("imported=%v skipped=%v, want %v/%v", output["imported"], output["skipped"], tt.imported, tt.skipped)
			}
			if output["batch_id"] == "" {
				t.Error("expected batch_id")
			}
		})
	}
}

func TestHandleImport_NothingValidCarriesDiagnostics(t *testing.T) {
	h := NewHandlers(testSetup(t, nil))

	result, _ := h.HandleImport(context.Background(), makeRequest(map[string]any{"text": "a,b\nc;d"}))

	payload := errorPayload(t, result)
	details, ok := payload["details"].(map[string]any)
	if !ok {
		t.Fatal("expected details")
	}
	diags := details["diagnostics"].([]any)
	if len(diags) != 2 {
		t.Errorf("diagnostics = %d, want 2", len(diags))
	}
}

func TestHandleList(t *testing.T) {
	h := NewHandlers(testSetup(t, nil))
	seed(t, h)
	ctx := context.Background()

	result, _ := h.HandleList(ctx, makeRequest(map[string]any{}))
	output := parseOutput(t, result)

	items := output["items"].([]any)
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	first := items[0].(map[string]any)
	if first["displayBirthDate"] != "10/05/1985" {
		t.Errorf("displayBirthDate = %v", first["displayBirthDate"])
	}

	summary := output["summary"].(map[string]any)
	if summary["duplicate_names"] != float64(1) || summary["duplicate_documents"] != float64(1) {
		t.Errorf("summary = %v", summary)
	}

	result, _ = h.HandleList(ctx, makeRequest(map[string]any{"limit": 1, "offset": 1}))
	output = parseOutput(t, result)
	pg := output["pagination"].(map[string]any)
	if len(output["items"].([]any)) != 1 || pg["has_more"] != true {
		t.Errorf("pagination = %v", pg)
	}
}

func TestHandleSummary(t *testing.T) {
	h := NewHandlers(testSetup(t, nil))
	seed(t, h)

	result, _ := h.HandleSummary(context.Background(), makeRequest(nil))
	output := parseOutput(t, result)

	if output["total"] != float64(3) {
		t.Errorf("total = %v, want 3", output["total"])
	}
	groups := output["groups"].([]any)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if g := groups[0].(map[string]any); g["field"] != "name" || g["key"] != "ana lima" {
		t.Errorf("groups[0] = %v", g)
	}
}

func TestHandleRemove(t *testing.T) {
	session := testSetup(t, nil)
	h := NewHandlers(session)
	seed(t, h)
	ctx := context.Background()
	id := session.People()[0].ID

	result, _ := h.HandleRemove(ctx, makeRequest(map[string]any{"id": id}))
	output := parseOutput(t, result)
	if output["remaining"] != float64(2) {
		t.Errorf("remaining = %v, want 2", output["remaining"])
	}

	result, _ = h.HandleRemove(ctx, makeRequest(map[string]any{"id": id}))
	assertErrorCode(t, result, "NOT_FOUND")

	result, _ = h.HandleRemove(ctx, makeRequest(map[string]any{}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleClear(t *testing.T) {
	session := testSetup(t, nil)
	h := NewHandlers(session)
	seed(t, h)
	ctx := context.Background()

	result, _ := h.HandleClear(ctx, makeRequest(map[string]any{}))
	output := parseOutput(t, result)
	if output["confirmed"] != false || len(session.People()) != 3 {
		t.Errorf("unconfirmed clear changed data: %v", output)
	}

	result, _ = h.HandleClear(ctx, makeRequest(map[string]any{"confirm": true}))
	output = parseOutput(t, result)
	if output["removed"] != float64(3) || len(session.People()) != 0 {
		t.Errorf("confirmed clear = %v", output)
	}
}

func TestHandleDedupe(t *testing.T) {
	session := testSetup(t, nil)
	h := NewHandlers(session)
	seed(t, h)
	ctx := context.Background()
	first := session.People()[0].ID
	second := session.People()[1].ID

	result, _ := h.HandleDedupe(ctx, makeRequest(map[string]any{}))
	output := parseOutput(t, result)
	if output["confirmed"] != false || len(session.People()) != 3 {
		t.Fatalf("preview changed data: %v", output)
	}

	result, _ = h.HandleDedupe(ctx, makeRequest(map[string]any{"confirm": true}))
	output = parseOutput(t, result)

	// names {Ana Lima, ana lima}: first removed. documents {first, third}: first removed.
	removed := output["removed_ids"].([]any)
	if len(removed) != 1 || removed[0] != first {
		t.Errorf("removed_ids = %v, want [%s]", removed, first)
	}
	if output["remaining"] != float64(2) {
		t.Errorf("remaining = %v, want 2", output["remaining"])
	}
	if session.People()[0].ID != second {
		t.Error("survivors should keep their order")
	}
}

func TestHandleExportImport(t *testing.T) {
	session := testSetup(t, nil)
	h := NewHandlers(session)
	seed(t, h)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "pessoas.json")
	result, _ := h.HandleExport(ctx, makeRequest(map[string]any{"format": "json", "path": path}))
	output := parseOutput(t, result)
	if output["count"] != float64(3) || output["path"] != path {
		t.Fatalf("export = %v", output)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	result, _ = h.HandleClear(ctx, makeRequest(map[string]any{"confirm": true}))
	parseOutput(t, result)

	result, _ = h.HandleImport(ctx, makeRequest(map[string]any{"path": path}))
	output = parseOutput(t, result)
	if output["imported"] != float64(3) {
		t.Errorf("imported = %v, want 3", output["imported"])
	}

	people := session.People()
	if people[0].Name != "Ana Lima" || people[0].BirthDate != "1985-05-10" || people[2].DocumentNumber != "12345678900" {
		t.Errorf("round trip lost values: %+v", people)
	}
}

func TestHandleExport_ExtensionMustMatchFormat(t *testing.T) {
	h := NewHandlers(testSetup(t, nil))
	seed(t, h)

	path := filepath.Join(t.TempDir(), "pessoas.csv")
	result, _ := h.HandleExport(context.Background(), makeRequest(map[string]any{"format": "json", "path": path}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleExport_Inline(t *testing.T) {
	h := NewHandlers(testSetup(t, nil))
	seed(t, h)

	result, _ := h.HandleExport(context.Background(), makeRequest(map[string]any{"format": "text", "inline": true}))
	output := parseOutput(t, result)

	want := "Nome\tData de Nascimento\tNúmero do Documento\n" +
		"Ana Lima\t10/05/1985\t123.456.789-00\n" +
		"ana lima\t01/01/1990\t222\n" +
		"Bia Ramos\t03/02/1991\t12345678900"
	if output["content"] != want {
		t.Errorf("content = %q, want %q", output["content"], want)
	}
	if output["filename"] != "pessoas.txt" {
		t.Errorf("filename = %v", output["filename"])
	}
}

func TestHandleExport_Empty(t *testing.T) {
	h := NewHandlers(testSetup(t, nil))

	result, _ := h.HandleExport(context.Background(), makeRequest(map[string]any{"inline": true}))
	assertErrorCode(t, result, "NOTHING_TO_EXPORT")
}

func TestHandleAdd_CancelledContextReturnsCancelled(t *testing.T) {
	session := testSetup(t, nil)
	h := NewHandlers(session)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := h.HandleAdd(ctx, makeRequest(map[string]any{
		"name":            "Ana",
		"birth_date":      "1990-01-01",
		"document_number": "1",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertErrorCode(t, result, "CANCELLED")
	if len(session.People()) != 0 {
		t.Error("cancelled add should not change data")
	}
}

func TestServerRegistration(t *testing.T) {
	s := NewServer(testSetup(t, nil), "test")
	tools := s.ListTools()
	if tools == nil {
		t.Fatal("expected tools to be registered, got nil")
	}

	expectedTools := []string{
		"people_add",
		"people_import",
		"people_list",
		"people_summary",
		"people_remove",
		"people_clear",
		"people_dedupe",
		"people_export",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}

	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	session := testSetup(t, func(cfg *config.Config) {
		cfg.DisabledTools = []string{"people_clear", "people_dedupe", "people_clear"}
	})
	tools := NewServer(session, "test").ListTools()

	if len(tools) != 6 {
		t.Errorf("registered tool count = %d, want 6", len(tools))
	}
	for _, name := range []string{"people_clear", "people_dedupe"} {
		if _, ok := tools[name]; ok {
			t.Errorf("disabled tool %q should not be registered", name)
		}
	}
	if _, ok := tools["people_list"]; !ok {
		t.Error("core tool people_list should be registered")
	}
}

func TestServerRegistration_DisabledType(t *testing.T) {
	session := testSetup(t, func(cfg *config.Config) {
		cfg.DisabledTypes = []string{"people"}
	})
	tools := NewServer(session, "test").ListTools()

	if len(tools) != 0 {
		t.Errorf("registered tool count = %d, want 0 (type disabled)", len(tools))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{"all valid", []string{"people_clear", "people_dedupe"}, 0},
		{"one unknown", []string{"people_clear", "fake_tool"}, 1},
		{"all unknown", []string{"foo", "bar", "baz"}, 3},
		{"empty list", []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if unknown := ValidateDisabledTools(tt.input); len(unknown) != tt.wantLen {
				t.Errorf("ValidateDisabledTools() returned %d unknown, want %d", len(unknown), tt.wantLen)
			}
		})
	}
}

func TestValidateDisabledTypes(t *testing.T) {
	if unknown := ValidateDisabledTypes([]string{"people", "orders"}); len(unknown) != 1 || unknown[0] != "orders" {
		t.Errorf("ValidateDisabledTypes() = %v, want [orders]", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != 8 {
		t.Errorf("AllToolNames() returned %d names, want 8", len(names))
	}
	if unknown := ValidateDisabledTools(names); len(unknown) != 0 {
		t.Errorf("AllToolNames() returned invalid names: %v", unknown)
	}
	for _, name := range names {
		if GetTypeForTool(name) != "people" {
			t.Errorf("GetTypeForTool(%q) = %q, want people", name, GetTypeForTool(name))
		}
	}
}

func TestGetTypeForTool(t *testing.T) {
	tests := map[string]string{
		"people_add": "people",
		"noprefix":   "",
		"_leading":   "",
	}
	for in, want := range tests {
		if got := GetTypeForTool(in); got != want {
			t.Errorf("GetTypeForTool(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("sql error: open /tmp/secret.db: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	errObj := errorPayload(t, r)
	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
	if errObj["message"] != "an internal error occurred" {
		t.Errorf("message = %v, internal message leaked", errObj["message"])
	}
}

func TestErrorResult_WrappedErrorKeepsCode(t *testing.T) {
	r := errorResult(fmt.Errorf("import: %w", errors.NewEmptyInput()))

	errObj := errorPayload(t, r)
	if errObj["code"] != string(errors.ErrEmptyInput) {
		t.Errorf("code=%v, want %v", errObj["code"], errors.ErrEmptyInput)
	}
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	r := errorResult(errors.NewNotFound("abc"))

	errObj := errorPayload(t, r)
	if errObj["code"] != string(errors.ErrNotFound) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrNotFound)
	}
	if _, ok := errObj["details"]; !ok {
		t.Fatal("expected non-INTERNAL errors to include details when present")
	}
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

// errorPayload returns the "error" object of an error result.
func errorPayload(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if !result.IsError {
		t.Fatal("expected error result")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatal("no error object in payload")
	}
	return errObj
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()
	if code := errorPayload(t, result)["code"]; code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}
	return text.Text
}
