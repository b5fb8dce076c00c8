package handlers

import (
	htmltemplate "html/template"
	"io/fs"
	"os"
	texttemplate "text/template"
	"time"

	"gif-viewer/internal/database"
	"gif-viewer/internal/media"
	"gif-viewer/internal/reporting"
	"gif-viewer/internal/scheduler"
	"gif-viewer/internal/search"
	"gif-viewer/internal/startup"
	"gif-viewer/web"
)

// Index is the read side of the GIF database used by the handlers.
type Index interface {
	All() []*database.GIF
	ByPerson(person string) ([]*database.GIF, error)
	ByYear(year int) ([]*database.GIF, error)
	ByFilename(filename string) (*database.GIF, error)
	People() []string
	Years() []int
	LastUpdated() time.Time
	GetStats() database.Stats
}

// HealthSource reports the state of the rescan loop.
type HealthSource interface {
	GetHealthStatus() scheduler.HealthStatus
}

// Deps are the collaborators the handlers need besides the index.
type Deps struct {
	Scheduler  HealthSource
	Thumbnails *media.ThumbnailGenerator
	Suggester  *search.Suggester
	Reporter   reporting.Reporter
}

// Handlers serves every route of the application.
type Handlers struct {
	db        Index
	scheduler HealthSource
	thumbGen  *media.ThumbnailGenerator
	suggester *search.Suggester
	reporter  reporting.Reporter
	list      *htmltemplate.Template
	osd       *texttemplate.Template
	perPage   int
	gifsDir   string
	staticDir string
	startTime time.Time
}

// New creates the handlers and parses the templates, either from
// config.TemplatesDir or the embedded defaults.
func New(db Index, deps Deps, config *startup.Config) (*Handlers, error) {
	var templates fs.FS = web.Templates()
	if config.TemplatesDir != "" {
		templates = os.DirFS(config.TemplatesDir)
	}

	list, osd, err := loadTemplates(templates)
	if err != nil {
		return nil, err
	}

	if deps.Reporter == nil {
		deps.Reporter = reporting.Discard
	}
	if deps.Suggester == nil {
		deps.Suggester = search.NewSuggester()
	}
	if deps.Thumbnails == nil {
		deps.Thumbnails = media.NewThumbnailGenerator("", false)
	}

	return &Handlers{
		db:        db,
		scheduler: deps.Scheduler,
		thumbGen:  deps.Thumbnails,
		suggester: deps.Suggester,
		reporter:  deps.Reporter,
		list:      list,
		osd:       osd,
		perPage:   config.PerPage,
		gifsDir:   config.GIFsDir,
		staticDir: config.StaticDir,
		startTime: time.Now(),
	}, nil
}
