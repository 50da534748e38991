package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/ops"
	"github.com/hpungsan/roster/internal/person"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	session  *ops.Session
	renderer *Renderer
}

// HandleList handles GET /people: the table with duplicate highlighting.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		Limit:          parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset:         parseIntParam(r, "offset", 0),
		DuplicatesOnly: parseBoolParam(r, "duplicates"),
	}

	result, err := ops.List(r.Context(), h.session, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "people", h.peoplePage(result, input.DuplicatesOnly, r.URL.Query().Get("notice"), nil))
}

// HandleAdd handles POST /people: the manual entry form.
func (h *Handlers) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	result, err := ops.Add(r.Context(), h.session, ops.AddInput{
		Name:           r.FormValue("name"),
		BirthDate:      r.FormValue("birth_date"),
		DocumentNumber: r.FormValue("document_number"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.afterMutation(w, r, http.StatusCreated, fmt.Sprintf("added %s", result.Person.Name), nil, result)
}

// HandleImport handles POST /people/import: pasted bulk text.
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	result, err := ops.Import(r.Context(), h.session, ops.ImportInput{Text: r.FormValue("text")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.afterMutation(w, r, http.StatusOK, result.Message, result.Diagnostics, result)
}

// HandleDelete handles DELETE /people/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("id is required"))
		return
	}

	result, err := ops.Remove(r.Context(), h.session, ops.RemoveInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.afterMutation(w, r, http.StatusOK, "record removed", nil, result)
}

// HandleClear handles POST /people/clear. Without confirm=true nothing changes.
func (h *Handlers) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	result, err := ops.Clear(r.Context(), h.session, ops.ClearInput{Confirm: r.FormValue("confirm") == "true"})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.afterMutation(w, r, http.StatusOK, result.Message, nil, result)
}

// HandleDedupe handles POST /people/dedupe. Without confirm=true it only previews.
func (h *Handlers) HandleDedupe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	result, err := ops.Dedupe(r.Context(), h.session, ops.DedupeInput{Confirm: r.FormValue("confirm") == "true"})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.afterMutation(w, r, http.StatusOK, result.Message, nil, result)
}

// HandleExport handles GET /people/export?format=: a file download.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Render(r.Context(), h.session, ops.RenderInput{Format: r.URL.Query().Get("format")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

// HandleHelp handles GET /help.
func (h *Handlers) HandleHelp(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "help", HelpPageData{
		PageData: h.renderer.page("Help", "help"),
		Body:     renderMarkdown(helpMarkdown),
	})
}

// afterMutation answers a successful change. htmx gets the refreshed table,
// JSON clients get payload, browsers are redirected back to the table.
func (h *Handlers) afterMutation(w http.ResponseWriter, r *http.Request, status int, notice string, diags []person.Diagnostic, payload any) {
	if isHTMX(r) {
		result, err := ops.List(r.Context(), h.session, ops.ListInput{})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		h.renderer.renderPage(w, r, "people", h.peoplePage(result, false, notice, diags))
		return
	}

	if wantsJSON(r) {
		renderJSON(w, status, payload)
		return
	}

	http.Redirect(w, r, "/people?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}

func (h *Handlers) peoplePage(result *ops.ListOutput, duplicatesOnly bool, notice string, diags []person.Diagnostic) PeoplePageData {
	return PeoplePageData{
		PageData:       h.renderer.page("People", "people"),
		Rows:           result.Items,
		Summary:        result.Summary,
		Pagination:     result.Pagination,
		DuplicatesOnly: duplicatesOnly,
		Notice:         notice,
		Diagnostics:    diags,
	}
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
