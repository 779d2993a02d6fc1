package interfaces

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/yair/media-stats/pkg/domain"
	"github.com/yair/media-stats/pkg/pages"
)

func newPageRouter() *mux.Router {
	router := mux.NewRouter()
	NewPageHandler(pages.DefaultRegistry(), pages.Collection.Key()).RegisterRoutes(router)
	return router
}

func TestPageHandler_GetMetadata(t *testing.T) {
	router := newPageRouter()

	t.Run("recommendations", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/metadata/recommendations", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}

		var meta domain.PageMetadata
		if err := json.Unmarshal(rr.Body.Bytes(), &meta); err != nil {
			t.Fatalf("could not unmarshal response: %v", err)
		}
		if !meta.OpenGraph.Images.IsList() || meta.Twitter.Images.IsList() {
			t.Errorf("expected list for open graph and url for twitter, got %+v", meta)
		}
		if meta.OpenGraph.Images.Descriptors[0].Width != 1200 {
			t.Errorf("expected width 1200, got %d", meta.OpenGraph.Images.Descriptors[0].Width)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/metadata/unknown", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusNotFound)
		}
		if !strings.Contains(rr.Body.String(), "route not found") {
			t.Errorf("unexpected body %s", rr.Body.String())
		}
	})
}

func TestPageHandler_Pages(t *testing.T) {
	router := newPageRouter()

	for _, key := range []string{"guessgame", "library", "playlist-cover", "recommendations"} {
		t.Run(key, func(t *testing.T) {
			route, err := pages.DefaultRegistry().ByKey(key)
			if err != nil {
				t.Fatal(err)
			}

			req, _ := http.NewRequest("GET", route.Path(), nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
			}
			if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("expected html content type, got %s", ct)
			}

			doc, err := goquery.NewDocumentFromReader(rr.Body)
			if err != nil {
				t.Fatal(err)
			}
			if got := doc.Find("title").Text(); got != route.Metadata().Title {
				t.Errorf("expected title %q, got %q", route.Metadata().Title, got)
			}
			card, _ := doc.Find(`meta[name="twitter:card"]`).Attr("content")
			if card != string(route.Metadata().Twitter.Card) {
				t.Errorf("expected card %s, got %s", route.Metadata().Twitter.Card, card)
			}
			if doc.Find("main#" + key).Length() != 1 {
				t.Errorf("expected page body for %s", key)
			}
		})
	}

	t.Run("collection is skipped", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/collection", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("expected collection to be left unregistered, got %d", rr.Code)
		}
	})
}
