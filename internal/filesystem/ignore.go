package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreMatcher reports whether a directory entry should be left out of a
// scan. It is loaded from a gitignore-style file inside the scanned directory.
type IgnoreMatcher struct {
	gi *ignore.GitIgnore
}

// LoadIgnoreFile compiles the patterns in path. A missing file yields a
// matcher that ignores nothing.
func LoadIgnoreFile(path string) (*IgnoreMatcher, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &IgnoreMatcher{}, nil
		}
		return nil, fmt.Errorf("failed to stat ignore file: %w", err)
	}

	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to compile ignore file %s: %w", path, err)
	}
	return &IgnoreMatcher{gi: gi}, nil
}

// Match reports whether name matches one of the ignore patterns.
func (m *IgnoreMatcher) Match(name string) bool {
	if m == nil || m.gi == nil {
		return false
	}
	return m.gi.MatchesPath(name)
}
