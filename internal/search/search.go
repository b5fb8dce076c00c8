// Package search ranks indexed GIFs against a free-text query and offers
// prefix suggestions for the OpenSearch endpoint.
package search

import (
	"sort"
	"strings"

	"gif-viewer/internal/database"
	"gif-viewer/internal/logging"
	"gif-viewer/internal/metrics"

	"github.com/google/shlex"
)

// Source is the part of the index that search reads.
type Source interface {
	All() []*database.GIF
}

// Result is one matching GIF with its score in (0, 1].
type Result struct {
	Score float64
	GIF   *database.GIF
}

// Tokenize splits a query using shell quoting rules, so a quoted phrase is a
// single term. '#' is an ordinary character, not a comment. A query with an
// unbalanced quote falls back to splitting on whitespace.
func Tokenize(query string) []string {
	terms, err := shlex.Split(escapeComments(query))
	if err != nil {
		logging.Debug("Query %q is not shell-quoted, splitting on whitespace: %v", query, err)
		return strings.Fields(query)
	}
	return terms
}

// escapeComments backslash-escapes every '#' outside quotes, where shlex
// would otherwise start a comment.
func escapeComments(query string) string {
	if !strings.ContainsRune(query, '#') {
		return query
	}

	var b strings.Builder
	var quote rune
	escaped := false
	for _, r := range query {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '#':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Rank scores every GIF in src against query. The score is the fraction of
// terms found (case-insensitively) in the display name. GIFs scoring zero
// are dropped; the rest are ordered by score, ties keeping scan order.
func Rank(src Source, query string) []Result {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	lowered := make([]string, len(terms))
	for i, term := range terms {
		lowered[i] = strings.ToLower(term)
	}

	var results []Result
	for _, gif := range src.All() {
		name := strings.ToLower(gif.Name)
		matched := 0
		for _, term := range lowered {
			if strings.Contains(name, term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		results = append(results, Result{
			Score: float64(matched) / float64(len(terms)),
			GIF:   gif,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Search returns the GIFs matching query, most relevant first.
func Search(src Source, query string) []*database.GIF {
	results := Rank(src, query)

	metrics.SearchQueriesTotal.Inc()
	metrics.SearchResults.Observe(float64(len(results)))

	gifs := make([]*database.GIF, len(results))
	for i, r := range results {
		gifs[i] = r.GIF
	}
	return gifs
}
