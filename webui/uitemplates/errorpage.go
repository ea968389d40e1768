package uitemplates

import (
	"bytes"
	"fmt"
	"html/template"
)

type ErrorPageParams struct {
	// Message is a short human-readable description of what went
	// wrong.
	Message string

	// BackLink and BackLabel give the user a recovery action.
	BackLink  string
	BackLabel string
}

var errorPageText = `{{define "title"}}Something went wrong{{end}}
{{define "breadcrumbs" -}}
<li class="breadcrumb-item"><a href="/">Home</a></li>
{{- end}}

{{define "content"}}
<h1>Something went wrong</h1>
<p>{{.Message}}</p>
<a class="btn btn-primary" href="{{.BackLink}}">{{.BackLabel}}</a>
{{end}}
`

var errorPageTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(errorPageText))

func ErrorPage(params *ErrorPageParams) ([]byte, error) {
	b := bytes.Buffer{}
	if err := errorPageTemplate.Execute(&b, params); err != nil {
		return nil, fmt.Errorf("while executing template: %w", err)
	}
	return b.Bytes(), nil
}
