package review

import (
	"slices"

	"github.com/dukerupert/chapters/internal/domain"
)

// Page size options offered by the review list.
var PerPageOptions = []int{5, 15, 20, 25}

const (
	defaultPerPage = 20
	defaultSort    = domain.ReviewSortNewest
)

// Query is the review list state for one book: a single exact-star filter,
// date sort and pagination.
//
// Changing the star filter resets the page to 1. Changing the sort does
// NOT reset the page here, unlike the catalog; nor does changing the page
// size. Both asymmetries are observed product behavior and are kept.
type Query struct {
	bookID  int
	rating  *int
	sortBy  string
	page    int
	perPage int

	total     int
	startItem int
	endItem   int
}

// NewQuery returns the initial review list state for one book:
// all stars, newest first, page 1, twenty reviews per page.
func NewQuery(bookID int) *Query {
	return &Query{
		bookID:  bookID,
		sortBy:  defaultSort,
		page:    1,
		perPage: defaultPerPage,
	}
}

// SetRating filters to one exact star value (1-5) and resets to page 1.
func (q *Query) SetRating(star int) {
	q.rating = &star
	q.page = 1
}

// ClearRating removes the star filter ("All") and resets to page 1.
func (q *Query) ClearRating() {
	q.rating = nil
	q.page = 1
}

// SetSort changes the date sort. The page is intentionally kept.
func (q *Query) SetSort(key string) {
	if key != domain.ReviewSortNewest && key != domain.ReviewSortOldest {
		return
	}
	q.sortBy = key
}

// SetPage jumps to a page. Range checks belong to the pager widget.
func (q *Query) SetPage(page int) {
	q.page = page
}

// SetPerPage changes the page size. Values outside the offered option set
// are ignored. The current page is kept.
func (q *Query) SetPerPage(n int) {
	if !slices.Contains(PerPageOptions, n) {
		return
	}
	q.perPage = n
}

// Rating returns the active star filter, nil for "All".
func (q *Query) Rating() *int { return q.rating }

// BookID returns the book this query is scoped to.
func (q *Query) BookID() int { return q.bookID }

// BuildRequest projects the current state into fetch parameters.
func (q *Query) BuildRequest() domain.ReviewQuery {
	return domain.ReviewQuery{
		Skip:   (q.page - 1) * q.perPage,
		Limit:  q.perPage,
		SortBy: q.sortBy,
		Rating: q.rating,
	}
}

// ApplyResponse records the fetched total and recomputes the
// display indices.
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

// StartItem returns the 1-indexed position of the first displayed review.
func (q *Query) StartItem() int { return q.startItem }

// EndItem returns the 1-indexed position of the last displayed review.
func (q *Query) EndItem() int { return q.endItem }
