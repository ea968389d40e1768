package uitemplates

import (
	"bytes"
	"fmt"
	"html/template"
)

type CreateProjectParams struct {
	UserError string

	// TotalDays is fixed by the form; it is displayed, not chosen.
	TotalDays int
}

var createProjectText = `{{define "title"}}New Project{{end}}
{{define "breadcrumbs" -}}
<li class="breadcrumb-item"><a href="/">Home</a></li>
<li class="breadcrumb-item"><a href="/projects/">My Projects</a></li>
<li class="breadcrumb-item active" aria-current="page"><a href="/create-project">New Project</a></li>
{{- end}}

{{define "content"}}
<h1>New Project</h1>
<p>Create an advent calendar project ({{.TotalDays}} days).</p>

{{if .UserError}}
<div class="alert alert-danger" role="alert">{{.UserError}}</div>
{{end}}

<form method="POST">
  <div class="mb-3">
    <label for="title" class="form-label">Project Title</label>
    <input type="text" name="title" id="title" class="form-control" placeholder="e.g. Family Christmas 2025" required>
  </div>

  <div class="mb-3">
    <label for="date-type" class="form-label">Which date do you want to fix?</label>
    <select name="date-type" id="date-type" class="form-select">
      <option value="end" selected>End date (the calendar counts down to it)</option>
      <option value="start">Start date</option>
    </select>
  </div>

  <div class="mb-3">
    <label for="date" class="form-label">Date</label>
    <input type="date" name="date" id="date" class="form-control" required>
  </div>

  <div class="mb-3">
    <label for="theme-type" class="form-label">Themes</label>
    <select name="theme-type" id="theme-type" class="form-select">
      <option value="default" selected>Default themes</option>
      <option value="custom">Custom themes</option>
    </select>
  </div>

  <div class="mb-3">
    <label for="custom-themes" class="form-label">Custom themes (one per line, blank lines allowed)</label>
    <textarea name="custom-themes" id="custom-themes" class="form-control" rows="{{.TotalDays}}"></textarea>
  </div>

  <button type="submit" class="btn btn-primary">Create Project</button>
</form>
{{end}}
`

var createProjectTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(createProjectText))

func CreateProjectPage(params *CreateProjectParams) ([]byte, error) {
	b := bytes.Buffer{}
	if err := createProjectTemplate.Execute(&b, params); err != nil {
		return nil, fmt.Errorf("while executing template: %w", err)
	}
	return b.Bytes(), nil
}
