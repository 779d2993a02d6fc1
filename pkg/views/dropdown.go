package views

import (
	"bytes"
	"fmt"
	"html/template"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"

	"github.com/yair/media-stats/pkg/domain"
	"github.com/yair/media-stats/pkg/metrics"
)

const dropdownTemplate = `<div class="filter">
<label for="{{.ID}}">{{.Label}}</label>
<select id="{{.ID}}" name="{{.Name}}">
{{- range .Options}}
<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
{{- end}}
</select>
</div>`

var dropdownTmpl = template.Must(template.New("dropdown").Parse(dropdownTemplate))

var (
	FormatFilter = NewDropdown("format", "Format")
	GenreFilter  = NewDropdown("genre", "Genre")
	StyleFilter  = NewDropdown("style", "Style")
)

// Dropdown is a labelled <select> whose options are exactly the available
// values. Renders are memoised on the selected value and the option list, so
// re-rendering with equal props returns the cached fragment.
type Dropdown struct {
	name  string
	label string
	id    string
	memo  *cache.Cache

	renders atomic.Int64
}

type dropdownData struct {
	ID      string
	Name    string
	Label   string
	Options []dropdownOption
}

type dropdownOption struct {
	Value    string
	Selected bool
}

func NewDropdown(name, label string) *Dropdown {
	return &Dropdown{
		name:  name,
		label: label,
		id:    name + "-select",
		memo:  cache.New(30*time.Minute, time.Hour),
	}
}

func (d *Dropdown) Name() string { return d.name }

func (d *Dropdown) ID() string { return d.id }

// Render returns the HTML fragment for props. OnChange does not take part in
// memoisation.
func (d *Dropdown) Render(props domain.FilterProps) (template.HTML, error) {
	key, err := memoKey(props)
	if err != nil {
		return "", err
	}

	if cached, ok := d.memo.Get(key); ok {
		metrics.RenderCacheHits.WithLabelValues(d.name).Inc()
		return cached.(template.HTML), nil
	}
	metrics.RenderCacheMisses.WithLabelValues(d.name).Inc()

	data := dropdownData{
		ID:      d.id,
		Name:    d.name,
		Label:   d.label,
		Options: make([]dropdownOption, 0, len(props.AvailableValues)),
	}
	selected := false
	for _, value := range props.AvailableValues {
		isSelected := !selected && value == props.SelectedValue
		selected = selected || isSelected
		data.Options = append(data.Options, dropdownOption{Value: value, Selected: isSelected})
	}

	var buf bytes.Buffer
	if err := dropdownTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s dropdown: %w", d.name, err)
	}
	d.renders.Add(1)

	html := template.HTML(buf.String())
	d.memo.SetDefault(key, html)
	return html, nil
}

// Change forwards the event to props.OnChange unchanged.
func (d *Dropdown) Change(props domain.FilterProps, ev *domain.ChangeEvent) {
	if props.OnChange == nil {
		return
	}
	props.OnChange(ev)
}

// memoKey keys on what the fragment shows. A selected value outside the
// options renders like no selection, so it shares that entry and arbitrary
// request input cannot add cache entries.
func memoKey(props domain.FilterProps) (string, error) {
	values := props.AvailableValues
	if len(values) == 0 {
		values = nil
	}
	selected := props.SelectedValue
	if !containsValue(values, selected) {
		selected = ""
	}
	key, err := json.Marshal(struct {
		Selected string   `json:"s"`
		Values   []string `json:"v"`
	}{selected, values})
	if err != nil {
		return "", fmt.Errorf("failed to build memo key: %w", err)
	}
	return string(key), nil
}

func containsValue(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
