package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gif-viewer/internal/database"
	"gif-viewer/internal/logging"
	"gif-viewer/internal/names"
	"gif-viewer/internal/paginate"
	"gif-viewer/internal/reporting"
	"gif-viewer/internal/search"

	"github.com/gorilla/mux"
)

// yearOffset numbers years the way the collection does: 2007 is DB1.
const yearOffset = 2006

type listPage struct {
	Title       string
	Query       string
	Gifs        *paginate.Paginator[*database.GIF]
	People      []string
	Years       []int
	Thumbnails  bool
	LastUpdated time.Time
}

// Index lists every GIF.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, "Index", h.db.All(), http.StatusOK)
}

// Person lists the GIFs of one owner.
func (h *Handlers) Person(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	gifs, err := h.db.ByPerson(name)
	if err != nil {
		h.lookupFailed(w, r, err)
		return
	}
	h.renderList(w, r, names.Capitalize(name), gifs, http.StatusOK)
}

// Year lists the GIFs last modified in one year.
func (h *Handlers) Year(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil {
		h.NotFound(w, r)
		return
	}

	gifs, err := h.db.ByYear(year)
	if err != nil {
		h.lookupFailed(w, r, err)
		return
	}
	h.renderList(w, r, YearTitle(year), gifs, http.StatusOK)
}

// YearTitle is the listing title for a year page.
func YearTitle(year int) string {
	return fmt.Sprintf("DB%d", year-yearOffset)
}

// Search lists the GIFs matching the q parameter, best first.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	h.renderList(w, r, "Results: "+q, search.Search(h.db, q), http.StatusOK)
}

// NotFound renders an empty listing with status 404.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, "Not Found", nil, http.StatusNotFound)
}

func (h *Handlers) lookupFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, database.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	h.serverError(w, err)
}

func (h *Handlers) renderList(w http.ResponseWriter, r *http.Request, title string, gifs []*database.GIF, status int) {
	page := paginate.New(gifs, paginate.ParsePage(r.URL.Query().Get("page")), h.perPage).WithURL(r.URL)

	data := listPage{
		Title:       title,
		Query:       r.URL.Query().Get("q"),
		Gifs:        page,
		People:      h.db.People(),
		Years:       h.db.Years(),
		Thumbnails:  h.thumbGen.IsEnabled(),
		LastUpdated: h.db.LastUpdated(),
	}

	var buf bytes.Buffer
	if err := h.list.Execute(&buf, data); err != nil {
		h.serverError(w, fmt.Errorf("render %s: %w", listTemplate, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Debug("failed to write response: %v", err)
	}
}

// serverError reports err and answers 500.
func (h *Handlers) serverError(w http.ResponseWriter, err error) {
	id := h.reporter.Report(err, map[string]string{reporting.SourceTag: "render"})
	logging.Error("Request failed (event %s): %v", id, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
