package views

import (
	"fmt"
	"html/template"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yair/media-stats/pkg/domain"
)

func parseFragment(t *testing.T, html template.HTML) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	require.NoError(t, err)
	return doc
}

func optionValues(doc *goquery.Document) (values, texts, selected []string) {
	doc.Find("select option").Each(func(_ int, s *goquery.Selection) {
		value, _ := s.Attr("value")
		values = append(values, value)
		texts = append(texts, s.Text())
		if _, ok := s.Attr("selected"); ok {
			selected = append(selected, value)
		}
	})
	return values, texts, selected
}

func TestDropdown_Render(t *testing.T) {
	t.Run("options in order with selection", func(t *testing.T) {
		d := NewDropdown("genre", "Genre")
		html, err := d.Render(domain.FilterProps{
			SelectedValue:   "Jazz",
			AvailableValues: []string{"Rock", "Jazz", "Pop"},
		})
		require.NoError(t, err)

		doc := parseFragment(t, html)
		values, texts, selected := optionValues(doc)
		assert.Equal(t, []string{"Rock", "Jazz", "Pop"}, values)
		assert.Equal(t, values, texts)
		assert.Equal(t, []string{"Jazz"}, selected)

		label := doc.Find("label")
		assert.Equal(t, "Genre", label.Text())
		forAttr, _ := label.Attr("for")
		assert.Equal(t, "genre-select", forAttr)
		id, _ := doc.Find("select").Attr("id")
		assert.Equal(t, "genre-select", id)
	})

	t.Run("empty values", func(t *testing.T) {
		d := NewDropdown("format", "Format")
		for _, values := range [][]string{nil, {}} {
			html, err := d.Render(domain.FilterProps{AvailableValues: values})
			require.NoError(t, err)
			doc := parseFragment(t, html)
			assert.Equal(t, 1, doc.Find("select").Length())
			assert.Equal(t, 0, doc.Find("option").Length())
		}
	})

	t.Run("selected value outside the list", func(t *testing.T) {
		d := NewDropdown("style", "Style")
		html, err := d.Render(domain.FilterProps{
			SelectedValue:   "Shoegaze",
			AvailableValues: []string{"Ambient", "Dub"},
		})
		require.NoError(t, err)

		values, _, selected := optionValues(parseFragment(t, html))
		assert.Equal(t, []string{"Ambient", "Dub"}, values)
		assert.Empty(t, selected)
	})

	t.Run("values are escaped", func(t *testing.T) {
		d := NewDropdown("genre", "Genre")
		html, err := d.Render(domain.FilterProps{AvailableValues: []string{`Folk, World, & "Country"`}})
		require.NoError(t, err)
		assert.NotContains(t, string(html), `"Country"`)

		values, texts, _ := optionValues(parseFragment(t, html))
		assert.Equal(t, []string{`Folk, World, & "Country"`}, values)
		assert.Equal(t, values, texts)
	})
}

func TestDropdown_Memoisation(t *testing.T) {
	d := NewDropdown("genre", "Genre")
	props := domain.FilterProps{SelectedValue: "Jazz", AvailableValues: []string{"Rock", "Jazz", "Pop"}}

	first, err := d.Render(props)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.renders.Load())

	// Structurally equal props with a fresh slice and a different callback.
	second, err := d.Render(domain.FilterProps{
		SelectedValue:   "Jazz",
		AvailableValues: []string{"Rock", "Jazz", "Pop"},
		OnChange:        func(*domain.ChangeEvent) {},
	})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), d.renders.Load())

	_, err = d.Render(domain.FilterProps{SelectedValue: "Pop", AvailableValues: props.AvailableValues})
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.renders.Load())

	_, err = d.Render(domain.FilterProps{SelectedValue: "Jazz", AvailableValues: []string{"Jazz", "Rock", "Pop"}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.renders.Load())
}

func TestDropdown_OutOfListSelectionSharesEntry(t *testing.T) {
	d := NewDropdown("format", "Format")
	values := []string{"All", "Vinyl", "CD"}

	for i := 0; i < 1000; i++ {
		html, err := d.Render(domain.FilterProps{
			SelectedValue:   fmt.Sprintf("Cassette-%d", i),
			AvailableValues: values,
		})
		require.NoError(t, err)
		_, _, selected := optionValues(parseFragment(t, html))
		assert.Empty(t, selected)
	}
	assert.Equal(t, 1, d.memo.ItemCount())
	assert.Equal(t, int64(1), d.renders.Load())

	_, err := d.Render(domain.FilterProps{AvailableValues: values})
	require.NoError(t, err)
	assert.Equal(t, 1, d.memo.ItemCount(), "no selection reuses the out-of-list entry")

	_, err = d.Render(domain.FilterProps{SelectedValue: "Vinyl", AvailableValues: values})
	require.NoError(t, err)
	assert.Equal(t, 2, d.memo.ItemCount())
}

func TestDropdown_Change(t *testing.T) {
	t.Run("forwards the same event once", func(t *testing.T) {
		var calls int
		var got *domain.ChangeEvent
		props := domain.FilterProps{
			SelectedValue:   "Jazz",
			AvailableValues: []string{"Rock", "Jazz", "Pop"},
			OnChange: func(ev *domain.ChangeEvent) {
				calls++
				got = ev
			},
		}

		ev := &domain.ChangeEvent{Target: domain.ChangeTarget{Name: "genre", Value: "Pop"}}
		GenreFilter.Change(props, ev)

		assert.Equal(t, 1, calls)
		assert.Same(t, ev, got)
		assert.Equal(t, "Pop", got.Target.Value)
	})

	t.Run("nil callback", func(t *testing.T) {
		assert.NotPanics(t, func() {
			FormatFilter.Change(domain.FilterProps{}, &domain.ChangeEvent{})
		})
	})
}

func TestFilterInstances(t *testing.T) {
	tests := []struct {
		dropdown *Dropdown
		label    string
		id       string
	}{
		{FormatFilter, "Format", "format-select"},
		{GenreFilter, "Genre", "genre-select"},
		{StyleFilter, "Style", "style-select"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			html, err := tt.dropdown.Render(domain.FilterProps{AvailableValues: []string{"All"}})
			require.NoError(t, err)

			doc := parseFragment(t, html)
			assert.Equal(t, tt.label, doc.Find("label").Text())
			assert.Equal(t, tt.id, tt.dropdown.ID())
			id, _ := doc.Find("select").Attr("id")
			assert.Equal(t, tt.id, id)
		})
	}
}
