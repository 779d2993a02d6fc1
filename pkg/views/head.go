// Package views renders server-side HTML: document heads built from page
// metadata, the collection page body and the memoised dropdown filters.
package views

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yair/media-stats/pkg/domain"
)

const headTemplate = `<title>{{.Title}}</title>
<meta name="description" content="{{.Description}}">
<meta property="og:title" content="{{.OpenGraph.Title}}">
<meta property="og:description" content="{{.OpenGraph.Description}}">
{{- with .OpenGraph.Images}}{{if .IsList}}{{range .Descriptors}}
<meta property="og:image" content="{{.URL}}">
{{- if .Width}}
<meta property="og:image:width" content="{{.Width}}">{{end}}
{{- if .Height}}
<meta property="og:image:height" content="{{.Height}}">{{end}}
{{- if .Alt}}
<meta property="og:image:alt" content="{{.Alt}}">{{end}}
{{- end}}{{else if .URL}}
<meta property="og:image" content="{{.URL}}">
{{- end}}{{end}}
<meta name="twitter:card" content="{{.Twitter.Card}}">
<meta name="twitter:title" content="{{.Twitter.Title}}">
<meta name="twitter:description" content="{{.Twitter.Description}}">
{{- range .Twitter.Images.URLs}}
<meta name="twitter:image" content="{{.}}">
{{- end}}
`

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{template "head" .Metadata}}</head>
<body>
{{.Body}}
</body>
</html>
`

var pageTmpl = template.Must(
	template.New("page").Parse(pageTemplate + `{{define "head"}}` + headTemplate + `{{end}}`),
)

// Page is a full HTML document: head tags from Metadata and a pre-rendered body.
type Page struct {
	Metadata domain.PageMetadata
	Body     template.HTML
}

// RenderHead renders only the tags that belong in <head>.
func RenderHead(meta domain.PageMetadata) (template.HTML, error) {
	var buf bytes.Buffer
	if err := pageTmpl.ExecuteTemplate(&buf, "head", meta); err != nil {
		return "", fmt.Errorf("failed to render head: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// RenderPage writes the complete document. Output is buffered so a template
// error never leaves a half-written response.
func RenderPage(w io.Writer, page Page) error {
	var buf bytes.Buffer
	if err := pageTmpl.ExecuteTemplate(&buf, "page", page); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
