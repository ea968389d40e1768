package uitemplates

import (
	"bytes"
	"fmt"
	"html/template"
)

type JoinProjectParams struct {
	Title       string
	DateRange   string
	TotalDays   int64
	MemberCount int

	// AlreadyMember switches the page from the join invitation to a
	// "you're in" notice.
	AlreadyMember bool

	ShowProjectLink string
	SelfLink        string
}

var joinProjectText = `{{define "title"}}Project Invitation{{end}}
{{define "breadcrumbs" -}}
<li class="breadcrumb-item"><a href="/">Home</a></li>
<li class="breadcrumb-item active" aria-current="page"><a href="{{.SelfLink}}">Invitation</a></li>
{{- end}}

{{define "content"}}
{{if .AlreadyMember}}
<h1>Already a member</h1>
<p>You are already a member of <strong>{{.Title}}</strong>.</p>
<a class="btn btn-primary" href="{{.ShowProjectLink}}">Open Project</a>
{{else}}
<h1>Project Invitation</h1>
<p>Would you like to join this project?</p>

<div class="card mb-3">
  <div class="card-body">
    <h5 class="card-title">{{.Title}}</h5>
    <p class="card-text">{{.DateRange}}</p>
    <p class="card-text">{{.TotalDays}} days, {{.MemberCount}} member(s) so far</p>
  </div>
</div>

<form method="POST">
  <a class="btn btn-outline-secondary" href="/projects/">Cancel</a>
  <button type="submit" class="btn btn-primary">Join</button>
</form>
{{end}}
{{end}}
`

var joinProjectTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(joinProjectText))

func JoinProjectPage(params *JoinProjectParams) ([]byte, error) {
	b := bytes.Buffer{}
	if err := joinProjectTemplate.Execute(&b, params); err != nil {
		return nil, fmt.Errorf("while executing template: %w", err)
	}
	return b.Bytes(), nil
}
