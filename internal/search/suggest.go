package search

import (
	"strings"
	"sync"

	"github.com/armon/go-radix"
)

// NameSource lists the display names suggestions are drawn from.
type NameSource interface {
	Names() []string
}

// Suggester answers prefix queries over display names. It is rebuilt after
// every scan; queries see either the old or the new tree, never a partial one.
type Suggester struct {
	mu   sync.RWMutex
	tree *radix.Tree
}

// NewSuggester creates an empty Suggester.
func NewSuggester() *Suggester {
	return &Suggester{tree: radix.New()}
}

// Rebuild replaces the suggestion tree with the names in src.
func (s *Suggester) Rebuild(src NameSource) {
	tree := radix.New()
	for _, name := range src.Names() {
		key := strings.ToLower(name)
		existing, ok := tree.Get(key)
		if !ok {
			tree.Insert(key, []string{name})
			continue
		}
		tree.Insert(key, append(existing.([]string), name))
	}

	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()
}

// Len returns the number of distinct lowercase names in the tree.
func (s *Suggester) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

// Suggest returns up to limit display names starting with prefix, compared
// case-insensitively, in lexical order. A blank prefix yields nothing.
func (s *Suggester) Suggest(prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || limit <= 0 {
		return []string{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []string{}
	s.tree.WalkPrefix(prefix, func(_ string, v interface{}) bool {
		for _, name := range v.([]string) {
			if len(out) >= limit {
				return true
			}
			out = append(out, name)
		}
		return len(out) >= limit
	})
	return out
}
