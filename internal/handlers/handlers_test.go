package handlers

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gif-viewer/internal/database"
	"gif-viewer/internal/media"
	"gif-viewer/internal/reporting"
	"gif-viewer/internal/search"
	"gif-viewer/internal/startup"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/mux"
)

// touch creates an empty file with a modification time in year.
func touch(t *testing.T, dir, name string, year int) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	mtime := time.Date(year, time.March, 1, 12, 0, 0, 0, time.Local)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
}

// writeRealGIF creates a decodable 40x20 single frame GIF.
func writeRealGIF(t *testing.T, dir, name string) {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 40, 20), color.Palette{color.White, color.Black})
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := gif.Encode(f, img, nil); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
}

type testEnv struct {
	dir      string
	db       *database.Database
	h        *Handlers
	router   *mux.Router
	reported []error
}

type envOption func(*startup.Config, *Deps)

func withThumbnails(cacheDir string) envOption {
	return func(_ *startup.Config, d *Deps) {
		d.Thumbnails = media.NewThumbnailGenerator(cacheDir, true)
	}
}

func withTemplates(dir string) envOption {
	return func(c *startup.Config, _ *Deps) {
		c.TemplatesDir = dir
	}
}

func withScheduler(s HealthSource) envOption {
	return func(_ *startup.Config, d *Deps) {
		d.Scheduler = s
	}
}

// newTestEnv indexes 25 GIFs owned by "kroo" (2010) plus "paul-dog.gif"
// (2012) and wires the handlers into a router with the application routes.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	env := &testEnv{dir: t.TempDir()}
	for i := 1; i <= 25; i++ {
		touch(t, env.dir, fmt.Sprintf("kroo-cat_%02d.gif", i), 2010)
	}
	writeRealGIF(t, env.dir, "paul-dog.gif")
	mtime := time.Date(2012, time.May, 5, 0, 0, 0, 0, time.Local)
	if err := os.Chtimes(filepath.Join(env.dir, "paul-dog.gif"), mtime, mtime); err != nil {
		t.Fatal(err)
	}

	db, err := database.New(env.dir)
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	env.db = db

	suggester := search.NewSuggester()
	suggester.Rebuild(db)

	config := &startup.Config{GIFsDir: env.dir, PerPage: 10}
	deps := Deps{
		Suggester: suggester,
		Reporter: reporting.Func(func(err error, _ map[string]string) string {
			env.reported = append(env.reported, err)
			return "test-event"
		}),
	}
	for _, opt := range opts {
		opt(config, &deps)
	}

	h, err := New(db, deps, config)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	env.h = h
	env.router = testRouter(h)
	return env
}

func testRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/c/{name}/", h.Person).Methods("GET")
	r.HandleFunc("/y/{year}/", h.Year).Methods("GET")
	r.HandleFunc("/s/", h.Search).Methods("GET")
	r.HandleFunc("/s/suggest", h.Suggest).Methods("GET")
	r.HandleFunc("/opensearchdescription.xml", h.OpenSearch).Methods("GET")
	r.HandleFunc("/t/{filename}", h.Thumbnail).Methods("GET")
	r.PathPrefix("/gifs/").Handler(h.GIFs())
	r.PathPrefix("/static/").Handler(h.Static())
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	return r
}

func (env *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("parse response: %v", err)
	}
	return doc
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d", rec.Code, want)
	}
}

func wantText(t *testing.T, doc *goquery.Document, selector, want string) {
	t.Helper()
	if got := doc.Find(selector).Text(); got != want {
		t.Errorf("%s text = %q, want %q", selector, got, want)
	}
}

func wantCount(t *testing.T, doc *goquery.Document, selector string, want int) {
	t.Helper()
	if got := doc.Find(selector).Length(); got != want {
		t.Errorf("%s matched %d elements, want %d", selector, got, want)
	}
}

func wantAttr(t *testing.T, sel *goquery.Selection, name, want string) {
	t.Helper()
	got, ok := sel.Attr(name)
	if !ok {
		t.Errorf("missing %s attribute", name)
		return
	}
	if got != want {
		t.Errorf("%s = %q, want %q", name, got, want)
	}
}

func TestNewFailsOnMissingTemplates(t *testing.T) {
	db, err := database.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, err = New(db, Deps{}, &startup.Config{TemplatesDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for empty templates directory")
	}
}
