// Package appliance is an in-memory stand-in for the management
// product's Cloud Provider screens. The browser test fixture serves it
// with httptest so page objects drive a real DOM; cmd/appliance serves
// it standalone for manual debugging.
package appliance

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AndreyMenezes/integration-tests/internal/errs"
	"github.com/AndreyMenezes/integration-tests/internal/obs"
)

// GridPageSize is how many quadicons the listing shows per page.
const GridPageSize = 4

const controllerName = "ems_cloud"

// Appliance serves the fake management UI over a store.
type Appliance struct {
	store *Store
	log   *slog.Logger
}

// New creates an appliance over the given store.
func New(store *Store) *Appliance {
	return &Appliance{
		store: store,
		log:   obs.Pkg("appliance"),
	}
}

// Store exposes the backing store for test seeding.
func (a *Appliance) Store() *Store {
	return a.store
}

// Handler returns the full appliance handler with request logging.
func (a *Appliance) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", a.handleDashboard)
	mux.HandleFunc("GET /ems_cloud/show_list", a.handleListing)
	mux.HandleFunc("GET /ems_cloud/show/{id}", a.handleDetails)
	mux.HandleFunc("GET /ems_cloud/new", a.handleNewForm)
	mux.HandleFunc("POST /ems_cloud/new", a.handleCreate)
	mux.HandleFunc("GET /ems_cloud/edit/{id}", a.handleEditForm)
	mux.HandleFunc("POST /ems_cloud/edit/{id}", a.handleUpdate)
	mux.HandleFunc("POST /ems_cloud/edit_selected", a.handleEditSelected)
	mux.HandleFunc("GET /ems_cloud/discover", a.handleDiscoverForm)
	mux.HandleFunc("POST /ems_cloud/discover", a.handleDiscoverSubmit)
	mux.HandleFunc("POST /ems_cloud/protect", a.handleProtectSelected)
	mux.HandleFunc("GET /ems_cloud/protect/{id}", a.handleProtect)
	mux.HandleFunc("POST /ems_cloud/tagging", a.handleTaggingSelected)
	mux.HandleFunc("GET /ems_cloud/tagging/{id}", a.handleTagging)
	mux.HandleFunc("GET /ems_cloud/timeline/{id}", a.handleTimeline)

	mux.HandleFunc("GET /api/providers", a.apiListProviders)
	mux.HandleFunc("POST /api/providers", a.apiCreateProvider)
	mux.HandleFunc("DELETE /api/providers/{name}", a.apiDeleteProvider)
	mux.HandleFunc("GET /api/discoveries", a.apiListDiscoveries)
	mux.HandleFunc("POST /api/reset", a.apiReset)

	return obs.RequestContextMiddleware(obs.AccessLogMiddleware("appliance", mux))
}

// pageData feeds every page template; unused fields stay zero.
type pageData struct {
	Title      string
	Controller string
	Action     string
	Summary    string
	Flash      string
	ViewMode   string
	Providers  []Provider
	Total      int
	Pages      []int
	Provider   Provider
	FormAction string
	Count      int
}

func (a *Appliance) render(w http.ResponseWriter, page string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderPage(w, page, data); err != nil {
		a.log.Error("render failed", "page", page, "error", err)
	}
}

func (a *Appliance) handleDashboard(w http.ResponseWriter, r *http.Request) {
	a.render(w, "dashboard", pageData{
		Title:      "Dashboard",
		Controller: "dashboard",
		Action:     "show",
	})
}

func (a *Appliance) handleListing(w http.ResponseWriter, r *http.Request) {
	viewMode := r.URL.Query().Get("view")
	if viewMode != "list" {
		viewMode = "grid"
	}

	all := a.store.Providers()
	total := len(all)

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	pageCount := (total + GridPageSize - 1) / GridPageSize
	if page > pageCount && pageCount > 0 {
		page = pageCount
	}
	start := (page - 1) * GridPageSize
	end := start + GridPageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	pages := make([]int, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		pages = append(pages, i)
	}

	flash := ""
	switch r.URL.Query().Get("flash") {
	case "discovery_started":
		flash = "Cloud Providers: Discovery successfully initiated"
	case "provider_saved":
		flash = "Cloud Provider saved"
	}

	a.render(w, "listing", pageData{
		Title:      "Cloud Providers",
		Controller: controllerName,
		Action:     "show_list",
		Flash:      flash,
		ViewMode:   viewMode,
		Providers:  all[start:end],
		Total:      total,
		Pages:      pages,
	})
}

func (a *Appliance) handleDetails(w http.ResponseWriter, r *http.Request) {
	p, err := a.store.Provider(r.PathValue("id"))
	if err != nil {
		a.renderError(w, err)
		return
	}

	switch r.URL.Query().Get("display") {
	case "instances":
		a.render(w, "relationship", pageData{
			Title:      p.Name,
			Controller: controllerName,
			Action:     "show",
			Summary:    fmt.Sprintf("%s (All Instances)", p.Name),
			Count:      p.Instances,
		})
	case "images":
		a.render(w, "relationship", pageData{
			Title:      p.Name,
			Controller: controllerName,
			Action:     "show",
			Summary:    fmt.Sprintf("%s (All Images)", p.Name),
			Count:      p.Images,
		})
	default:
		a.render(w, "details", pageData{
			Title:      p.Name,
			Controller: controllerName,
			Action:     "show",
			Summary:    p.Name,
			Provider:   p,
		})
	}
}

func (a *Appliance) handleNewForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, "provider-form", pageData{
		Title:      "Add New Cloud Provider",
		Controller: controllerName,
		Action:     "new",
		FormAction: "/ems_cloud/new",
	})
}

func (a *Appliance) handleCreate(w http.ResponseWriter, r *http.Request) {
	_, err := a.store.AddProvider(Provider{
		Name: r.FormValue("name"),
		Zone: r.FormValue("zone"),
	})
	if err != nil {
		a.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/ems_cloud/show_list?flash=provider_saved", http.StatusSeeOther)
}

func (a *Appliance) handleEditForm(w http.ResponseWriter, r *http.Request) {
	p, err := a.store.Provider(r.PathValue("id"))
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.render(w, "provider-form", pageData{
		Title:      "Edit Cloud Provider",
		Controller: controllerName,
		Action:     "edit",
		Provider:   p,
		FormAction: "/ems_cloud/edit/" + p.ID,
	})
}

func (a *Appliance) handleUpdate(w http.ResponseWriter, r *http.Request) {
	p, err := a.store.UpdateProvider(r.PathValue("id"), r.FormValue("name"), r.FormValue("zone"))
	if err != nil {
		a.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/ems_cloud/show/"+p.ID, http.StatusSeeOther)
}

// checkedProvider resolves the first checked quadicon of a listing form
// submission.
func (a *Appliance) checkedProvider(r *http.Request) (Provider, error) {
	name := r.FormValue("check")
	if name == "" {
		return Provider{}, errs.New(errs.InvalidArgument, "no provider selected")
	}
	return a.store.ProviderByName(name)
}

func (a *Appliance) handleEditSelected(w http.ResponseWriter, r *http.Request) {
	p, err := a.checkedProvider(r)
	if err != nil {
		a.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/ems_cloud/edit/"+p.ID, http.StatusSeeOther)
}

func (a *Appliance) handleProtectSelected(w http.ResponseWriter, r *http.Request) {
	p, err := a.checkedProvider(r)
	if err != nil {
		a.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/ems_cloud/protect/"+p.ID, http.StatusSeeOther)
}

func (a *Appliance) handleProtect(w http.ResponseWriter, r *http.Request) {
	p, err := a.store.Provider(r.PathValue("id"))
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.render(w, "policy", pageData{
		Title:      "Manage Policies",
		Controller: controllerName,
		Action:     "protect",
		Provider:   p,
	})
}

func (a *Appliance) handleTaggingSelected(w http.ResponseWriter, r *http.Request) {
	p, err := a.checkedProvider(r)
	if err != nil {
		a.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/ems_cloud/tagging/"+p.ID, http.StatusSeeOther)
}

func (a *Appliance) handleTagging(w http.ResponseWriter, r *http.Request) {
	p, err := a.store.Provider(r.PathValue("id"))
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.render(w, "policy", pageData{
		Title:      "Edit Tags",
		Controller: controllerName,
		Action:     "tagging",
		Provider:   p,
	})
}

func (a *Appliance) handleTimeline(w http.ResponseWriter, r *http.Request) {
	p, err := a.store.Provider(r.PathValue("id"))
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.render(w, "timeline", pageData{
		Title:      "Timelines",
		Controller: controllerName,
		Action:     "timeline",
		Provider:   p,
	})
}

func (a *Appliance) handleDiscoverForm(w http.ResponseWriter, r *http.Request) {
	flash := ""
	if r.URL.Query().Get("error") == "verify_mismatch" {
		flash = "Password and verify password do not match"
	}
	a.render(w, "discover", pageData{
		Title:      "Cloud Providers Discovery",
		Controller: controllerName,
		Action:     "discover",
		Flash:      flash,
	})
}

func (a *Appliance) handleDiscoverSubmit(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("password") != r.FormValue("password_verify") {
		http.Redirect(w, r, "/ems_cloud/discover?error=verify_mismatch", http.StatusSeeOther)
		return
	}
	a.store.RecordDiscovery(Discovery{
		Type:     r.FormValue("discover_type"),
		Username: r.FormValue("username"),
	})
	http.Redirect(w, r, "/ems_cloud/show_list?flash=discovery_started", http.StatusSeeOther)
}

func (a *Appliance) renderError(w http.ResponseWriter, err error) {
	code := errs.CodeOf(err)
	http.Error(w, errs.MessageOf(err), errs.HTTPStatus(code))
}

// =========================================================================
// Seeding API (JSON, used by test fixtures and cmd/appliance tooling)
// =========================================================================

func (a *Appliance) apiListProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"providers": a.store.Providers()})
}

func (a *Appliance) apiCreateProvider(w http.ResponseWriter, r *http.Request) {
	var req Provider
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeJSONError(w, errs.Wrap(errs.InvalidArgument, "malformed provider payload", err))
		return
	}
	p, err := a.store.AddProvider(req)
	if err != nil {
		a.writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *Appliance) apiDeleteProvider(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteProvider(r.PathValue("name")); err != nil {
		a.writeJSONError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Appliance) apiListDiscoveries(w http.ResponseWriter, r *http.Request) {
	discoveries := a.store.Discoveries()
	if discoveries == nil {
		discoveries = []Discovery{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"discoveries": discoveries})
}

func (a *Appliance) apiReset(w http.ResponseWriter, r *http.Request) {
	a.store.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (a *Appliance) writeJSONError(w http.ResponseWriter, err error) {
	code := errs.CodeOf(err)
	writeJSON(w, errs.HTTPStatus(code), map[string]string{
		"error": errs.MessageOf(err),
		"code":  string(code),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
