package markdown

import (
	"html/template"
	"strings"
)

var documentTmpl = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.55; color: #1f2933; }
h1, h2, h3 { color: #243b53; }
pre { background: #f0f4f8; padding: 0.75rem 1rem; overflow-x: auto; }
code { font-family: ui-monospace, monospace; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Document wraps an HTML fragment produced by Render into a standalone page.
func Document(title, fragment string) string {
	var b strings.Builder
	// The template and its inputs are fixed; Execute can only fail on a
	// writer error, and strings.Builder never returns one.
	_ = documentTmpl.Execute(&b, struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(fragment)})
	return b.String()
}
