package database

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by grouping lookups when the key is absent.
var ErrNotFound = errors.New("not found")

// GIF is one discovered file and the metadata derived from it at scan time.
// Two GIFs are the same GIF when their paths are equal.
type GIF struct {
	Path     string    `json:"path"`
	Filename string    `json:"filename"`
	Name     string    `json:"name"`
	Year     int       `json:"year"`
	Person   string    `json:"person"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"modTime"`
}

// Equal reports whether g and other refer to the same file.
func (g *GIF) Equal(other *GIF) bool {
	if g == nil || other == nil {
		return false
	}
	return g.Path == other.Path
}

func (g *GIF) String() string {
	return fmt.Sprintf("<GIF:%s>", g.Path)
}

// ScanError means the source directory could not be listed.
type ScanError struct {
	Source string
	Err    error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("failed to list %s: %v", e.Source, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Stats summarizes the index contents.
type Stats struct {
	TotalGIFs   int       `json:"totalGifs"`
	TotalPeople int       `json:"totalPeople"`
	TotalYears  int       `json:"totalYears"`
	TotalBytes  int64     `json:"totalBytes"`
	LastUpdated time.Time `json:"lastUpdated"`
}
