package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gif-viewer/internal/filesystem"
	"gif-viewer/internal/logging"
	"gif-viewer/internal/metrics"
	"gif-viewer/internal/names"
)

const defaultIgnoreFile = ".gifignore"

// Database is the in-memory index of the GIFs found in one directory.
type Database struct {
	source     string
	suffix     string
	ignoreFile string
	retry      filesystem.RetryConfig
	now        func() time.Time

	// scanMu serializes scans; mu guards everything below.
	scanMu sync.Mutex
	mu     sync.RWMutex

	gifs        []*GIF
	paths       map[string]*GIF
	people      map[string][]*GIF
	years       map[int][]*GIF
	names       map[string]*GIF
	totalBytes  int64
	lastUpdated time.Time
}

// Option configures a Database.
type Option func(*Database)

// WithSuffix sets the filename suffix that marks a file for indexing.
func WithSuffix(suffix string) Option {
	return func(db *Database) {
		if suffix != "" {
			db.suffix = suffix
		}
	}
}

// WithIgnoreFile sets the name of the ignore file inside the source
// directory. An empty name disables ignore handling.
func WithIgnoreFile(name string) Option {
	return func(db *Database) {
		db.ignoreFile = name
	}
}

// WithRetryConfig sets the retry policy used when stat-ing entries.
func WithRetryConfig(config filesystem.RetryConfig) Option {
	return func(db *Database) {
		db.retry = config
	}
}

// WithClock replaces time.Now for the lastUpdated timestamp.
func WithClock(now func() time.Time) Option {
	return func(db *Database) {
		db.now = now
	}
}

// New creates a Database for source and performs the initial scan.
func New(source string, opts ...Option) (*Database, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory: %w", err)
	}

	db := &Database{
		source:     abs,
		suffix:     names.Extension,
		ignoreFile: defaultIgnoreFile,
		retry:      filesystem.DefaultRetryConfig(),
		now:        time.Now,
		paths:      make(map[string]*GIF),
		people:     make(map[string][]*GIF),
		years:      make(map[int][]*GIF),
		names:      make(map[string]*GIF),
	}
	for _, opt := range opts {
		opt(db)
	}

	if _, err := db.Scan(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *Database) String() string {
	return fmt.Sprintf("<Database:%s>", db.source)
}

// Source returns the absolute path of the scanned directory.
func (db *Database) Source() string {
	return db.source
}

// Scan lists the source directory and loads every GIF not seen before. It
// returns the number of GIFs added. A listing failure is returned as a
// *ScanError; a file that cannot be loaded is logged and skipped.
func (db *Database) Scan() (int, error) {
	db.scanMu.Lock()
	defer db.scanMu.Unlock()

	start := time.Now()
	metrics.ScanRunsTotal.Inc()
	metrics.ScanIsRunning.Set(1)
	defer metrics.ScanIsRunning.Set(0)

	logging.Info("Scan %s", db.source)

	entries, err := os.ReadDir(db.source)
	if err != nil {
		metrics.ScanErrorsTotal.Inc()
		return 0, &ScanError{Source: db.source, Err: err}
	}

	ignored := db.loadIgnoreMatcher()

	added := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, db.suffix) {
			continue
		}
		if ignored.Match(name) {
			logging.Debug("Ignoring %s", name)
			metrics.ScanItemsSkipped.WithLabelValues("ignored").Inc()
			continue
		}

		ok, err := db.loadOne(name)
		if err != nil {
			logging.Warn("Skipping %s: %v", name, err)
			metrics.ScanItemsSkipped.WithLabelValues("error").Inc()
			continue
		}
		if ok {
			added++
		}
	}

	db.mu.Lock()
	db.lastUpdated = db.now()
	total := len(db.gifs)
	db.mu.Unlock()

	duration := time.Since(start)
	metrics.ScanItemsAdded.Add(float64(added))
	metrics.ScanLastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.ScanLastRunDuration.Set(duration.Seconds())

	logging.Info("Scan done: %d new, %d total in %v", added, total, duration)
	return added, nil
}

func (db *Database) loadIgnoreMatcher() *filesystem.IgnoreMatcher {
	if db.ignoreFile == "" {
		return nil
	}
	m, err := filesystem.LoadIgnoreFile(filepath.Join(db.source, db.ignoreFile))
	if err != nil {
		logging.Warn("Ignore file unusable, indexing everything: %v", err)
		return nil
	}
	return m
}

// loadOne stats filename and adds it to the index unless its path is
// already known. It reports whether a GIF was added.
func (db *Database) loadOne(filename string) (bool, error) {
	path := filepath.Join(db.source, filename)

	info, err := filesystem.StatWithRetry(path, db.retry)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	gif := &GIF{
		Path:     path,
		Filename: filename,
		Name:     names.NormalizeName(filename),
		Year:     info.ModTime().Year(),
		Person:   names.ExtractOwner(filename),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, seen := db.paths[path]; seen {
		return false, nil
	}

	db.gifs = append(db.gifs, gif)
	db.paths[path] = gif
	db.people[gif.Person] = append(db.people[gif.Person], gif)
	db.years[gif.Year] = append(db.years[gif.Year], gif)
	db.names[gif.Name] = gif
	db.totalBytes += gif.Size

	logging.Debug("Loaded %s", gif.Name)
	return true, nil
}

// All returns every GIF in scan order.
func (db *Database) All() []*GIF {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return cloneList(db.gifs)
}

// Count returns the number of indexed GIFs.
func (db *Database) Count() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.gifs)
}

// ByPerson returns the GIFs owned by person in scan order.
func (db *Database) ByPerson(person string) ([]*GIF, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	gifs, ok := db.people[person]
	if !ok {
		return nil, fmt.Errorf("person %q: %w", person, ErrNotFound)
	}
	return cloneList(gifs), nil
}

// ByYear returns the GIFs last modified in year, in scan order.
func (db *Database) ByYear(year int) ([]*GIF, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	gifs, ok := db.years[year]
	if !ok {
		return nil, fmt.Errorf("year %d: %w", year, ErrNotFound)
	}
	return cloneList(gifs), nil
}

// ByName returns the GIF most recently indexed under the display name.
func (db *Database) ByName(name string) (*GIF, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	gif, ok := db.names[name]
	if !ok {
		return nil, fmt.Errorf("name %q: %w", name, ErrNotFound)
	}
	return gif, nil
}

// ByFilename returns the GIF stored at filename inside the source directory.
func (db *Database) ByFilename(filename string) (*GIF, error) {
	path := filepath.Join(db.source, filepath.Base(filename))

	db.mu.RLock()
	defer db.mu.RUnlock()

	gif, ok := db.paths[path]
	if !ok {
		return nil, fmt.Errorf("file %q: %w", filename, ErrNotFound)
	}
	return gif, nil
}

// People returns the known owner tokens, sorted.
func (db *Database) People() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	people := make([]string, 0, len(db.people))
	for p := range db.people {
		people = append(people, p)
	}
	sort.Strings(people)
	return people
}

// Years returns the known years, ascending.
func (db *Database) Years() []int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	years := make([]int, 0, len(db.years))
	for y := range db.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Names returns every display name in the name lookup, sorted.
func (db *Database) Names() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]string, 0, len(db.names))
	for n := range db.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// LastUpdated returns the completion time of the most recent scan.
func (db *Database) LastUpdated() time.Time {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.lastUpdated
}

// GetStats returns counts describing the index.
func (db *Database) GetStats() Stats {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return Stats{
		TotalGIFs:   len(db.gifs),
		TotalPeople: len(db.people),
		TotalYears:  len(db.years),
		TotalBytes:  db.totalBytes,
		LastUpdated: db.lastUpdated,
	}
}

func cloneList(gifs []*GIF) []*GIF {
	out := make([]*GIF, len(gifs))
	copy(out, gifs)
	return out
}
