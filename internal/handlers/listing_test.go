package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIndexFirstPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/")
	wantStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	doc := parse(t, rec)
	wantText(t, doc, "h2.title", "Index")
	wantText(t, doc, "p.count", "26 GIFs")
	wantCount(t, doc, "li.gif", 10)
	wantText(t, doc, "nav.pages span.current", "1")
	wantCount(t, doc, "nav.pages a.prev", 0)
	wantAttr(t, doc.Find("nav.pages a.next"), "href", "/?page=2")
	wantCount(t, doc, "nav.people a", 2)
	wantCount(t, doc, "nav.years a", 2)
}

func TestIndexLastPage(t *testing.T) {
	env := newTestEnv(t)

	doc := parse(t, env.get(t, "/?page=3"))
	wantCount(t, doc, "li.gif", 6)
	wantCount(t, doc, "nav.pages a.next", 0)
	wantAttr(t, doc.Find("nav.pages a.prev"), "href", "/?page=2")
}

func TestIndexPages(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		page      string
		wantItems int
	}{
		{"9", 0},
		{"-1", 0},
		{"0", 0},
		{"4611686018427387906", 0},
		{"abc", 10},
	}

	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			rec := env.get(t, "/?page="+tt.page)
			wantStatus(t, rec, http.StatusOK)
			wantCount(t, parse(t, rec), "li.gif", tt.wantItems)
		})
	}
}

func TestIndexUnparsablePageIsFirst(t *testing.T) {
	env := newTestEnv(t)

	doc := parse(t, env.get(t, "/?page=abc"))
	wantCount(t, doc, "li.gif", 10)
	wantText(t, doc, "nav.pages span.current", "1")
}

func TestPerson(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/c/paul/")
	wantStatus(t, rec, http.StatusOK)

	doc := parse(t, rec)
	wantText(t, doc, "h2.title", "Paul")
	wantCount(t, doc, "li.gif", 1)
	wantText(t, doc, "li.gif span.name", "Paul Dog")
	wantCount(t, doc, "nav.pages", 0)
}

func TestYear(t *testing.T) {
	env := newTestEnv(t)

	doc := parse(t, env.get(t, "/y/2010/"))
	wantText(t, doc, "h2.title", "DB4")
	wantText(t, doc, "p.count", "25 GIFs")
}

func TestLookupNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/c/unknownowner/", "/y/1899/", "/y/abc/", "/nowhere"} {
		t.Run(target, func(t *testing.T) {
			rec := env.get(t, target)
			wantStatus(t, rec, http.StatusNotFound)
			doc := parse(t, rec)
			wantText(t, doc, "h2.title", "Not Found")
			wantCount(t, doc, "li.gif", 0)
		})
	}
}

func TestYearTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year int
		want string
	}{
		{2007, "DB1"},
		{2006, "DB0"},
		{1899, "DB-107"},
	}
	for _, tt := range tests {
		if got := YearTitle(tt.year); got != tt.want {
			t.Errorf("YearTitle(%d) = %q, want %q", tt.year, got, tt.want)
		}
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/s/?q=cat")
	wantStatus(t, rec, http.StatusOK)

	doc := parse(t, rec)
	wantText(t, doc, "h2.title", "Results: cat")
	wantText(t, doc, "p.count", "25 GIFs")
	wantAttr(t, doc.Find("form.search input[name=q]"), "value", "cat")
	wantAttr(t, doc.Find("nav.pages a.next"), "href", "/s/?page=2&q=cat")
}

func TestSearchEmptyQuery(t *testing.T) {
	env := newTestEnv(t)

	doc := parse(t, env.get(t, "/s/"))
	wantText(t, doc, "h2.title", "Results: ")
	wantCount(t, doc, "li.gif", 0)
}

func TestSearchEscapesQuery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/s/?q=%3Cscript%3E")
	if strings.Contains(rec.Body.String(), "<script>") {
		t.Error("query was rendered unescaped")
	}
}

func TestListingLinks(t *testing.T) {
	env := newTestEnv(t)

	item := parse(t, env.get(t, "/c/paul/")).Find("li.gif").First()
	wantAttr(t, item.Find("a").First(), "href", "/gifs/paul-dog.gif")
	wantAttr(t, item.Find("img"), "src", "/gifs/paul-dog.gif")
	wantAttr(t, item.Find("span.meta a").Last(), "href", "/y/2012/")
}

func TestListingUsesThumbnailsWhenEnabled(t *testing.T) {
	env := newTestEnv(t, withThumbnails(t.TempDir()))

	img := parse(t, env.get(t, "/c/paul/")).Find("li.gif img")
	wantAttr(t, img, "src", "/t/paul-dog.gif")
}

func TestRenderFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		listTemplate:       `{{template "missing"}}`,
		openSearchTemplate: `ok`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	env := newTestEnv(t, withTemplates(dir))

	rec := env.get(t, "/")
	wantStatus(t, rec, http.StatusInternalServerError)
	if len(env.reported) != 1 {
		t.Fatalf("reported %d errors, want 1", len(env.reported))
	}
	if !strings.Contains(env.reported[0].Error(), listTemplate) {
		t.Errorf("reported error %q does not name %s", env.reported[0], listTemplate)
	}
}

func TestHumanBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := humanBytes(tt.in); got != tt.want {
			t.Errorf("humanBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestURLHelpersEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"personURL", personURL("a b"), "/c/a%20b/"},
		{"gifURL", gifURL("a?b.gif"), "/gifs/a%3Fb.gif"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
