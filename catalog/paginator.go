package catalog

import "errors"

// ErrEmptyPage is returned by Paginator.Page for a number outside 1..NumPages.
var ErrEmptyPage = errors.New("catalog: page out of range")

// Paginator splits an ordered slice into fixed size pages numbered from 1.
// An empty slice still has one (empty) page.
type Paginator[T any] struct {
	items   []T
	perPage int
}

// NewPaginator panics when perPage is not positive; page size is a programming constant.
func NewPaginator[T any](items []T, perPage int) *Paginator[T] {
	if perPage < 1 {
		panic("catalog: paginator page size must be positive")
	}
	return &Paginator[T]{items: items, perPage: perPage}
}

// Count returns the number of items.
func (p *Paginator[T]) Count() int {
	return len(p.items)
}

// NumPages returns the number of pages, at least 1.
func (p *Paginator[T]) NumPages() int {
	if len(p.items) == 0 {
		return 1
	}
	return (len(p.items) + p.perPage - 1) / p.perPage
}

// PageRange returns 1..NumPages.
func (p *Paginator[T]) PageRange() []int {
	n := p.NumPages()
	pages := make([]int, n)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Page returns page number, or ErrEmptyPage when it does not exist.
func (p *Paginator[T]) Page(number int) (Page[T], error) {
	numPages := p.NumPages()
	if number < 1 || number > numPages {
		return Page[T]{}, ErrEmptyPage
	}

	lo := (number - 1) * p.perPage
	hi := lo + p.perPage
	if hi > len(p.items) {
		hi = len(p.items)
	}

	return Page[T]{
		Items:    p.items[lo:hi],
		Number:   number,
		NumPages: numPages,
	}, nil
}

// Page is one window of a Paginator.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
}

func (pg Page[T]) HasNext() bool {
	return pg.Number < pg.NumPages
}

func (pg Page[T]) HasPrevious() bool {
	return pg.Number > 1
}

func (pg Page[T]) NextPageNumber() int {
	if !pg.HasNext() {
		return pg.Number
	}
	return pg.Number + 1
}

func (pg Page[T]) PreviousPageNumber() int {
	if !pg.HasPrevious() {
		return pg.Number
	}
	return pg.Number - 1
}
