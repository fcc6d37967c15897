package catalog

import (
	"slices"

	"github.com/dukerupert/chapters/internal/domain"
)

// Page size options offered by the shop page.
var PerPageOptions = []int{5, 15, 20, 25}

const (
	defaultPerPage = 20
	defaultSort    = domain.SortOnSale
)

// Query is the shop page's filter/sort/pagination state. It projects into
// a single remote fetch request and tracks the derived display indices
// ("Showing start-end of total").
//
// Any filter or sort change resets the page to 1. Changing the page size
// does not; that asymmetry is observed product behavior and is kept.
type Query struct {
	categoryID *int
	authorID   *int
	minRating  *int
	sortBy     string
	page       int
	perPage    int

	total     int
	startItem int
	endItem   int
}

// NewQuery returns the shop page's initial state: no filters,
// on-sale sort, page 1, twenty items per page.
func NewQuery() *Query {
	return &Query{
		sortBy:  defaultSort,
		page:    1,
		perPage: defaultPerPage,
	}
}

// SetCategory filters by category and resets to page 1.
func (q *Query) SetCategory(id int) {
	q.categoryID = &id
	q.page = 1
}

// SetAuthor filters by author and resets to page 1.
func (q *Query) SetAuthor(id int) {
	q.authorID = &id
	q.page = 1
}

// SetMinRating filters by minimum star rating (1-5) and resets to page 1.
func (q *Query) SetMinRating(stars int) {
	q.minRating = &stars
	q.page = 1
}

// ClearFilters removes all filters and resets to page 1.
func (q *Query) ClearFilters() {
	q.categoryID = nil
	q.authorID = nil
	q.minRating = nil
	q.page = 1
}

// SetSort changes the sort key and resets to page 1. Unknown keys are
// ignored; the select widget only offers the valid ones.
func (q *Query) SetSort(key string) {
	if !domain.ValidBookSort(key) {
		return
	}
	q.sortBy = key
	q.page = 1
}

// SetPage jumps to a page. Range checks belong to the pager widget,
// which only ever offers pages 1..ceil(total/perPage).
func (q *Query) SetPage(page int) {
	q.page = page
}

// SetPerPage changes the page size. Values outside the offered option set
// are ignored. The current page is kept as-is.
func (q *Query) SetPerPage(n int) {
	if !slices.Contains(PerPageOptions, n) {
		return
	}
	q.perPage = n
}

// BuildRequest projects the current state into fetch parameters.
func (q *Query) BuildRequest() domain.BookQuery {
	return domain.BookQuery{
		Skip:       (q.page - 1) * q.perPage,
		Limit:      q.perPage,
		SortBy:     q.sortBy,
		CategoryID: q.categoryID,
		AuthorID:   q.authorID,
		MinRating:  q.minRating,
	}
}

// ApplyResponse records the fetched total and recomputes the
// "Showing start-end of total" display indices.
func (q *Query) ApplyResponse(total int) {
	q.total = total
	q.startItem = (q.page-1)*q.perPage + 1
	q.endItem = min(q.page*q.perPage, total)
}

// Page returns the current 1-indexed page.
func (q *Query) Page() int { return q.page }

// PerPage returns the current page size.
func (q *Query) PerPage() int { return q.perPage }

// SortBy returns the current sort key.
func (q *Query) SortBy() string { return q.sortBy }

// Total returns the total reported by the last applied response.
func (q *Query) Total() int { return q.total }

// StartItem returns the 1-indexed position of the first displayed item.
func (q *Query) StartItem() int { return q.startItem }

// EndItem returns the 1-indexed position of the last displayed item.
func (q *Query) EndItem() int { return q.endItem }
