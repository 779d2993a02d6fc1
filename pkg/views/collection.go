package views

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yair/media-stats/pkg/domain"
)

const collectionTemplate = `<main class="collection">
<h1>My Collection</h1>
<p class="stats">{{.View.Stats.TotalReleases}} releases
{{- range $format, $count := .View.Stats.ByFormat}}, {{$count}} {{$format}}{{end}}</p>
<form class="filters" method="get" action="/collection">
{{range .Filters}}{{.}}
{{end}}<button type="submit">Filter</button>
</form>
<ul class="releases">
{{- range .View.Releases}}
<li class="release" data-id="{{.ID}}">
{{- if .CoverURL}}<img src="{{.CoverURL}}" alt="{{.Title}} cover" width="150" height="150">{{end}}
<span class="artist">{{.Artist}}</span> <span class="title">{{.Title}}</span>
{{- if .Year}} <span class="year">({{.Year}})</span>{{end}} <span class="format">{{.Format}}</span>
</li>
{{- else}}
<li class="empty">No releases match these filters.</li>
{{- end}}
</ul>
</main>`

var collectionTmpl = template.Must(template.New("collection").Parse(collectionTemplate))

// RenderCollection renders the collection page body around already rendered
// filter fragments.
func RenderCollection(view *domain.CollectionView, filters ...template.HTML) (template.HTML, error) {
	if view == nil {
		return "", fmt.Errorf("collection view is required")
	}

	var buf bytes.Buffer
	err := collectionTmpl.Execute(&buf, struct {
		View    *domain.CollectionView
		Filters []template.HTML
	}{view, filters})
	if err != nil {
		return "", fmt.Errorf("failed to render collection: %w", err)
	}
	return template.HTML(buf.String()), nil
}
