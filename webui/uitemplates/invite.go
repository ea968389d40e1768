package uitemplates

import (
	"bytes"
	"fmt"
	"html/template"
)

type InviteParams struct {
	Title string

	// JoinURL is the absolute invite link to share.
	JoinURL string

	ProjectID       string
	ShowProjectLink string
	SelfLink        string

	// EmailEnabled is false when no mail provider is configured.
	EmailEnabled bool

	UserError string
	Sent      bool
}

var inviteText = `{{define "title"}}Invite to {{.Title}}{{end}}
{{define "breadcrumbs" -}}
<li class="breadcrumb-item"><a href="/">Home</a></li>
<li class="breadcrumb-item"><a href="{{.ShowProjectLink}}">{{.Title}}</a></li>
<li class="breadcrumb-item active" aria-current="page"><a href="{{.SelfLink}}">Invite</a></li>
{{- end}}

{{define "content"}}
<h1>Invite friends</h1>

{{if .UserError}}
<div class="alert alert-danger" role="alert">{{.UserError}}</div>
{{end}}
{{if .Sent}}
<div class="alert alert-success" role="alert">Invitation sent.</div>
{{end}}

<p>Anyone with this link can view the invitation and join
<strong>{{.Title}}</strong> after signing in:</p>

<p><code>{{.JoinURL}}</code></p>

{{if .EmailEnabled}}
<hr>
<form method="POST">
  <input type="hidden" name="project-id" value="{{.ProjectID}}">
  <div class="mb-3">
    <label for="email" class="form-label">Send the link by email</label>
    <input type="email" name="email" id="email" class="form-control" required>
  </div>
  <button type="submit" class="btn btn-primary">Send Invitation</button>
</form>
{{end}}
{{end}}
`

var inviteTemplate = template.Must(template.Must(template.New("base").Parse(baseText)).Parse(inviteText))

func InvitePage(params *InviteParams) ([]byte, error) {
	b := bytes.Buffer{}
	if err := inviteTemplate.Execute(&b, params); err != nil {
		return nil, fmt.Errorf("while executing template: %w", err)
	}
	return b.Bytes(), nil
}
