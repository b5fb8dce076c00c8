package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"gif-viewer/internal/database"
	"gif-viewer/internal/logging"
	"gif-viewer/internal/media"
	"gif-viewer/web"

	"github.com/gorilla/mux"
)

// Thumbnail serves the JPEG poster of a GIF.
func (h *Handlers) Thumbnail(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	gif, err := h.db.ByFilename(filename)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.serverError(w, err)
		return
	}
	if !h.thumbGen.IsEnabled() {
		http.NotFound(w, r)
		return
	}

	etag := media.ETag(gif)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := h.thumbGen.GetThumbnail(gif)
	if err != nil {
		var decodeErr *media.DecodeError
		if errors.As(err, &decodeErr) || errors.Is(err, os.ErrNotExist) {
			logging.Warn("No poster for %s: %v", gif.Filename, err)
			w.Header().Del("ETag")
			w.Header().Del("Cache-Control")
			http.NotFound(w, r)
			return
		}
		h.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		logging.Debug("failed to write poster: %v", err)
	}
}

// GIFs serves the indexed directory under /gifs/.
func (h *Handlers) GIFs() http.Handler {
	return http.StripPrefix("/gifs/", http.FileServer(noListing{http.Dir(h.gifsDir)}))
}

// Static serves the static assets under /static/, from StaticDir when set.
func (h *Handlers) Static() http.Handler {
	var fsys http.FileSystem = http.FS(web.Static())
	if h.staticDir != "" {
		fsys = http.Dir(h.staticDir)
	}
	return http.StripPrefix("/static/", http.FileServer(noListing{fsys}))
}

// noListing hides directories so the file servers never render an index.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
