package uitemplates

import (
	"bytes"
	"fmt"
	"html/template"
)

type ListProjectsParams struct {
	Projects []ListProjectsProject
}

type ListProjectsProject struct {
	Title           string
	DateRange       string
	CountdownLabel  string
	MemberCount     int
	ShowProjectLink string
}

var listProjectsText = `{{define "title"}}My Projects{{end}}
{{define "breadcrumbs" -}}
<li class="breadcrumb-item"><a href="/">Home</a></li>
<li class="breadcrumb-item active" aria-current="page"><a href="/projects/">My Projects</a></li>
{{- end}}

{{define "content"}}
<h1>My Projects</h1>

<div class="row row-cols-1 row-cols-md-3 g-4">
  {{range .Projects}}
  <div class="col">
    <div class="card h-100">
      <div class="card-body">
        <h5 class="card-title"><a href="{{.ShowProjectLink}}">{{.Title}}</a></h5>
        <p class="card-text">{{.DateRange}}</p>
        <p class="card-text"><span class="badge text-bg-primary">{{.CountdownLabel}}</span> {{.MemberCount}} member(s)</p>
      </div>
    </div>
  </div>
  {{else}}
  <p>No projects yet.</p>
  {{end}}
</div>

<a class="btn btn-primary mt-4" href="/create-project">New Project</a>
{{end}}
`

var listProjectsTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(listProjectsText))

func ListProjectsPage(params *ListProjectsParams) ([]byte, error) {
	b := bytes.Buffer{}
	if err := listProjectsTemplate.Execute(&b, params); err != nil {
		return nil, fmt.Errorf("while executing template: %w", err)
	}
	return b.Bytes(), nil
}
