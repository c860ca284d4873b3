package appliance

import (
	"html/template"
	"io"

	"github.com/AndreyMenezes/integration-tests/internal/errs"
)

// Every page shares the layout: the body carries data-controller,
// data-action, and optional data-summary markers the page objects'
// displayed-checks key on, mirroring the real product's location model.
const pageHTML = `
{{define "layout"}}<!doctype html>
<html>
<head><title>{{.Title}}</title></head>
<body data-controller="{{.Controller}}" data-action="{{.Action}}"{{with .Summary}} data-summary="{{.}}"{{end}}>
<nav id="main-nav">
  <span class="nav-group">Compute</span>
  <span class="nav-group">Clouds</span>
  <a data-nav="compute-clouds-providers" href="/ems_cloud/show_list">Providers</a>
</nav>
{{template "content" .}}
</body>
</html>{{end}}

{{define "dashboard-content"}}
<h1 id="dashboard-title">Dashboard</h1>
{{end}}

{{define "listing-content"}}
<h1 id="explorer-title">Cloud Providers</h1>
{{with .Flash}}<div id="flash">{{.}}</div>{{end}}
<div id="view-selector" data-selected="{{.ViewMode}}">
  <a id="view-grid" href="/ems_cloud/show_list?view=grid">Grid View</a>
  <a id="view-list" href="/ems_cloud/show_list?view=list">List View</a>
</div>
<form id="grid-form" method="post" action="/ems_cloud/edit_selected">
  <div id="toolbar">
    <details id="toolbar-configuration"><summary>Configuration</summary>
      <a data-action="new" href="/ems_cloud/new">Add a New Cloud Provider</a>
      <a data-action="discover" href="/ems_cloud/discover">Discover Cloud Providers</a>
      <button data-action="edit-selected" type="submit" formaction="/ems_cloud/edit_selected">Edit Selected Cloud Provider</button>
    </details>
    <details id="toolbar-policy"><summary>Policy</summary>
      <button data-action="manage-policies" type="submit" formaction="/ems_cloud/protect">Manage Policies</button>
      <button data-action="edit-tags" type="submit" formaction="/ems_cloud/tagging">Edit Tags</button>
    </details>
  </div>
  <div id="providers-grid" data-view="{{.ViewMode}}">
    {{range .Providers}}
    <article class="quadicon">
      <input class="quad-check" type="checkbox" name="check" value="{{.Name}}">
      <a class="quad-link" href="/ems_cloud/show/{{.ID}}" title="{{.Name}}">{{.Name}}</a>
    </article>
    {{end}}
  </div>
  {{if gt .Total 0}}
  <div id="paginator">
    Items <span id="items-amount">{{.Total}}</span>
    <input id="check-all" type="checkbox">
    {{range .Pages}}<a class="page-link" data-page="{{.}}" href="/ems_cloud/show_list?page={{.}}&view={{$.ViewMode}}">{{.}}</a>{{end}}
  </div>
  {{end}}
</form>
{{end}}

{{define "details-content"}}
<h1 id="provider-title">{{.Provider.Name}}</h1>
<div id="toolbar">
  <details id="toolbar-configuration"><summary>Configuration</summary>
    <a data-action="edit" href="/ems_cloud/edit/{{.Provider.ID}}">Edit this Cloud Provider</a>
  </details>
  <details id="toolbar-policy"><summary>Policy</summary>
    <a data-action="manage-policies" href="/ems_cloud/protect/{{.Provider.ID}}">Manage Policies</a>
    <a data-action="edit-tags" href="/ems_cloud/tagging/{{.Provider.ID}}">Edit Tags</a>
  </details>
  <details id="toolbar-monitoring"><summary>Monitoring</summary>
    <a data-action="timelines" href="/ems_cloud/timeline/{{.Provider.ID}}">Timelines</a>
  </details>
</div>
<section class="info-block" data-block="Properties">
  <div class="info-row">Name: <span data-field="Name">{{.Provider.Name}}</span></div>
  <div class="info-row">Zone: <span data-field="Zone">{{.Provider.Zone}}</span></div>
  <div class="info-row">Type: <span data-field="Type">{{.Provider.Type}}</span></div>
</section>
<section class="info-block" data-block="Relationships">
  <div class="info-row"><a data-field="Instances" href="/ems_cloud/show/{{.Provider.ID}}?display=instances">Instances ({{.Provider.Instances}})</a></div>
  <div class="info-row"><a data-field="Images" href="/ems_cloud/show/{{.Provider.ID}}?display=images">Images ({{.Provider.Images}})</a></div>
</section>
{{end}}

{{define "relationship-content"}}
<h1 id="relationship-title">{{.Summary}}</h1>
<div id="relationship-count" data-count="{{.Count}}">{{.Count}} items</div>
{{end}}

{{define "discover-content"}}
<h1 id="discover-title">Cloud Providers Discovery</h1>
{{with .Flash}}<div id="flash">{{.}}</div>{{end}}
<form id="discover-form" method="post" action="/ems_cloud/discover">
  <select name="discover_type" id="discover_type">
    <option value="Amazon">Amazon</option>
    <option value="Azure">Azure</option>
  </select>
  <input name="username" id="username" type="text">
  <input name="password" id="password" type="password">
  <input name="password_verify" id="password_verify" type="password">
  <button id="start" type="submit">Start</button>
  <a id="cancel" href="/ems_cloud/show_list">Cancel</a>
</form>
{{end}}

{{define "provider-form-content"}}
<h1 id="form-title">{{.Title}}</h1>
<form id="provider-form" method="post" action="{{.FormAction}}">
  <input name="name" id="name" type="text" value="{{.Provider.Name}}">
  <input name="zone" id="zone" type="text" value="{{.Provider.Zone}}">
  <button id="save" type="submit">Save</button>
  <a id="form-cancel" href="/ems_cloud/show_list">Cancel</a>
</form>
{{end}}

{{define "policy-content"}}
<h1 id="policy-title">{{.Title}}</h1>
<p id="policy-target">{{.Provider.Name}}</p>
<a id="policy-cancel" href="/ems_cloud/show_list">Cancel</a>
{{end}}

{{define "timeline-content"}}
<h1 id="timeline-title">Timelines for {{.Provider.Name}}</h1>
<div id="timeline-chart"></div>
{{end}}
`

var basePages = template.Must(template.New("pages").Parse(pageHTML))

var pageSet = map[string]*template.Template{}

func init() {
	for _, name := range []string{
		"dashboard", "listing", "details", "relationship",
		"discover", "provider-form", "policy", "timeline",
	} {
		set := template.Must(basePages.Clone())
		template.Must(set.Parse(`{{define "content"}}{{template "` + name + `-content" .}}{{end}}`))
		pageSet[name] = set
	}
}

func renderPage(w io.Writer, page string, data any) error {
	set, ok := pageSet[page]
	if !ok {
		return errs.New(errs.Internal, "unknown page template "+page)
	}
	return set.ExecuteTemplate(w, "layout", data)
}
