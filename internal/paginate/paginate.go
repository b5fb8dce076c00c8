// Package paginate slices an ordered result list into numbered pages.
package paginate

import (
	"iter"
	"net/url"
	"strconv"
)

// DefaultPerPage is used when a non-positive page size is requested.
const DefaultPerPage = 20

// Paginator describes one page of a result list. Page numbers are 1-based.
type Paginator[T any] struct {
	items []T
	base  url.URL

	Page       int
	PerPage    int
	TotalCount int
	Start      int
	End        int
	Pages      int
	HasNext    bool
	HasPrev    bool
	HasPages   bool
}

// New builds the paginator for page of items.
func New[T any](items []T, page, perPage int) *Paginator[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	total := len(items)
	pages := (total + perPage - 1) / perPage

	// Range-check before multiplying so absurd page numbers cannot
	// overflow (page-1)*perPage. Items clamps whatever is left.
	var start, end int
	switch {
	case page < 1:
	case page > total/perPage+1:
		start, end = total, total
	default:
		start = (page - 1) * perPage
		end = start + perPage
	}

	return &Paginator[T]{
		items:      items,
		Page:       page,
		PerPage:    perPage,
		TotalCount: total,
		Start:      start,
		End:        end,
		Pages:      pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
		HasPages:   pages > 1,
	}
}

// ParsePage reads a 1-based page number from a query value. Anything that
// does not parse as an integer yields 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}

// WithURL sets the request URL that page links are built from.
func (p *Paginator[T]) WithURL(u *url.URL) *Paginator[T] {
	if u != nil {
		p.base = *u
	}
	return p
}

// URL returns a link to page that keeps every other query parameter of the
// request.
func (p *Paginator[T]) URL(page int) string {
	params := p.base.Query()
	params.Set("page", strconv.Itoa(page))
	return p.base.Path + "?" + params.Encode()
}

// PageNumbers yields 1 through Pages.
func (p *Paginator[T]) PageNumbers() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 1; i <= p.Pages; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// PageList is PageNumbers as a slice, for templates.
func (p *Paginator[T]) PageList() []int {
	out := make([]int, 0, p.Pages)
	for n := range p.PageNumbers() {
		out = append(out, n)
	}
	return out
}

// Items returns the items on the current page. Bounds are clamped to the
// list, so pages before the first or past the last are empty.
func (p *Paginator[T]) Items() []T {
	start := clamp(p.Start, 0, p.TotalCount)
	end := clamp(p.End, 0, p.TotalCount)
	if start >= end {
		return []T{}
	}
	return p.items[start:end]
}

// All yields the items on the current page.
func (p *Paginator[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range p.Items() {
			if !yield(item) {
				return
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
