package uitemplates

import (
	"bytes"
	"fmt"
	"html/template"
)

type HomeParams struct {
	ActiveUser ActiveUserParams
}

var homeText = `{{define "title"}}Home{{end}}
{{define "breadcrumbs" -}}
<li class="breadcrumb-item active" aria-current="page"><a href="/">Home</a></li>
{{- end}}

{{define "content"}}
<h1>AdventShare</h1>
<p>Create a dated photo calendar, invite your people, and fill one day
at a time together.</p>

{{if .ActiveUser.LoggedIn}}
<p>Welcome back, {{.ActiveUser.DisplayName}}.</p>
<a class="btn btn-primary" href="/projects/">My Projects</a>
<a class="btn btn-outline-primary" href="/create-project">New Project</a>
{{else}}
<a class="btn btn-primary" href="/log-in">Log In</a>
{{end}}
{{end}}
`

var homeTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(homeText))

func HomePage(params *HomeParams) ([]byte, error) {
	b := bytes.Buffer{}
	if err := homeTemplate.Execute(&b, params); err != nil {
		return nil, fmt.Errorf("while executing template: %w", err)
	}
	return b.Bytes(), nil
}
