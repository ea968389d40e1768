package uitemplates

import (
	"bytes"
	"fmt"
	"html/template"
)

type ShowProjectParams struct {
	Title          string
	DateRange      string
	CountdownLabel string
	MemberCount    int
	SelfLink       string

	// Creator-only controls.
	IsCreator  bool
	InviteLink string
	ProjectID  string

	UserError string

	Days []*ShowProjectDay
}

type ShowProjectDay struct {
	DayNumber int64
	Label     string
	Date      string
	Theme     string

	IsToday  bool
	IsFuture bool

	// CanUpload is true once the day has arrived.
	CanUpload bool

	Images []*ShowProjectImage
}

type ShowProjectImage struct {
	ID       string
	URL      string
	UserName string

	// CanDelete is true when the active user uploaded this image.
	CanDelete bool
}

var showProjectText = `{{define "title"}}{{.Title}}{{end}}
{{define "breadcrumbs" -}}
<li class="breadcrumb-item"><a href="/">Home</a></li>
<li class="breadcrumb-item"><a href="/projects/">My Projects</a></li>
<li class="breadcrumb-item active" aria-current="page"><a href="{{.SelfLink}}">{{.Title}}</a></li>
{{- end}}

{{define "content"}}
<h1>{{.Title}}</h1>
<p>
  {{.DateRange}}
  <span class="badge text-bg-primary">{{.CountdownLabel}}</span>
  {{.MemberCount}} member(s)
</p>

{{if .UserError}}
<div class="alert alert-danger" role="alert">{{.UserError}}</div>
{{end}}

{{if .IsCreator}}
<p>
  <a class="btn btn-outline-primary" href="{{.InviteLink}}">Invite</a>
</p>
<form method="POST" action="/delete-project" onsubmit="return confirm('Delete this project?');">
  <input type="hidden" name="project-id" value="{{.ProjectID}}">
  <button type="submit" class="btn btn-outline-danger btn-sm">Delete Project</button>
</form>
{{end}}

<div class="row row-cols-2 row-cols-md-5 g-3 mt-2">
  {{range .Days}}
  <div class="col">
    <div class="card h-100 {{if .IsToday}}border-success{{else if .IsFuture}}opacity-50{{end}}">
      <div class="card-body">
        <h6 class="card-title">{{.Label}}</h6>
        <p class="card-text"><small>{{.Date}}</small></p>
        <p class="card-text">{{.Theme}}</p>

        {{range .Images}}
        <figure class="figure">
          <img src="{{.URL}}" class="figure-img img-fluid rounded" alt="Photo by {{.UserName}}">
          <figcaption class="figure-caption">{{.UserName}}</figcaption>
        </figure>
        {{if .CanDelete}}
        <form method="POST" action="/delete-image">
          <input type="hidden" name="project-id" value="{{$.ProjectID}}">
          <input type="hidden" name="image-id" value="{{.ID}}">
          <button type="submit" class="btn btn-link btn-sm text-danger">Delete</button>
        </form>
        {{end}}
        {{end}}

        {{if .CanUpload}}
        <form method="POST" action="/upload-image" enctype="multipart/form-data">
          <input type="hidden" name="project-id" value="{{$.ProjectID}}">
          <input type="hidden" name="day-number" value="{{.DayNumber}}">
          <input type="file" name="image" accept="image/*" class="form-control form-control-sm mb-1" required>
          <button type="submit" class="btn btn-primary btn-sm">Upload</button>
        </form>
        {{else}}
        <p class="card-text"><small>Locked</small></p>
        {{end}}
      </div>
    </div>
  </div>
  {{end}}
</div>
{{end}}
`

var showProjectTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(showProjectText))

func ShowProjectPage(params *ShowProjectParams) ([]byte, error) {
	b := bytes.Buffer{}
	if err := showProjectTemplate.Execute(&b, params); err != nil {
		return nil, fmt.Errorf("while executing template: %w", err)
	}
	return b.Bytes(), nil
}
