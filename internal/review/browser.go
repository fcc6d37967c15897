package review

import (
	"context"
	"sync"

	"github.com/dukerupert/chapters/internal/domain"
	"github.com/dukerupert/chapters/internal/query"
)

// API is the slice of the remote client the review section consumes.
type API interface {
	ListReviews(ctx context.Context, bookID int, q domain.ReviewQuery) (*domain.ReviewPage, error)
	RatingSummary(ctx context.Context, bookID int) ([]domain.RatingCount, error)
	CreateReview(ctx context.Context, bookID int, review domain.ReviewCreate) error
}

// Browser drives the review section of one product page: the paginated,
// star-filterable review list plus the rating histogram.
//
// The histogram comes from the unfiltered ratings summary and the list
// total from the filtered page fetch. When reviews arrive between the two
// fetches the star-count labels and the filtered total can disagree for a
// moment; that eventual consistency is accepted, not papered over.
type Browser struct {
	mu        sync.Mutex
	q         *Query
	loader    query.Loader[domain.Review]
	api       API
	histogram Histogram
}

// NewBrowser creates a review browser for one book.
func NewBrowser(bookID int, api API) *Browser {
	return &Browser{
		q:   NewQuery(bookID),
		api: api,
	}
}

// SetRating filters to one star value, resets the page and refreshes.
func (b *Browser) SetRating(ctx context.Context, star int) error {
	b.mu.Lock()
	b.q.SetRating(star)
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// ClearRating shows all stars, resets the page and refreshes.
func (b *Browser) ClearRating(ctx context.Context) error {
	b.mu.Lock()
	b.q.ClearRating()
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// SetSort changes the date sort (keeping the page) and refreshes.
func (b *Browser) SetSort(ctx context.Context, key string) error {
	b.mu.Lock()
	b.q.SetSort(key)
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// SetPage jumps to a page and refreshes.
func (b *Browser) SetPage(ctx context.Context, page int) error {
	b.mu.Lock()
	b.q.SetPage(page)
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// SetPerPage changes the page size (keeping the page) and refreshes.
func (b *Browser) SetPerPage(ctx context.Context, n int) error {
	b.mu.Lock()
	b.q.SetPerPage(n)
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// Refresh fetches the current review page. Stale responses are discarded
// by issue order, same as the catalog.
func (b *Browser) Refresh(ctx context.Context) error {
	b.mu.Lock()
	bookID := b.q.BookID()
	req := b.q.BuildRequest()
	b.mu.Unlock()

	gen := b.loader.Begin()

	page, err := b.api.ListReviews(ctx, bookID, req)
	if err != nil {
		b.loader.Fail(gen, err)
		return err
	}

	if b.loader.Complete(gen, page.Items, page.Total) {
		b.mu.Lock()
		b.q.ApplyResponse(page.Total)
		b.mu.Unlock()
	}

	return nil
}

// LoadSummary fetches the unfiltered ratings summary and rebuilds the
// histogram. Runs on product page load and after a review submission.
func (b *Browser) LoadSummary(ctx context.Context) error {
	b.mu.Lock()
	bookID := b.q.BookID()
	b.mu.Unlock()

	ratings, err := b.api.RatingSummary(ctx, bookID)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.histogram = NewHistogram(ratings)
	b.mu.Unlock()
	return nil
}

// SubmitReview posts a new review, then resets to page 1 and reloads both
// the review page and the ratings summary so the counts catch up.
func (b *Browser) SubmitReview(ctx context.Context, review domain.ReviewCreate) error {
	b.mu.Lock()
	bookID := b.q.BookID()
	b.mu.Unlock()

	if err := b.api.CreateReview(ctx, bookID, review); err != nil {
		return err
	}

	b.mu.Lock()
	b.q.SetPage(1)
	b.mu.Unlock()

	if err := b.Refresh(ctx); err != nil {
		return err
	}
	return b.LoadSummary(ctx)
}

// ReviewCountFor returns the count label for a star filter button:
// the filtered list total for nil ("All"), else the histogram count for
// that star. The two can transiently disagree; see the type comment.
func (b *Browser) ReviewCountFor(star *int) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if star == nil {
		return b.q.Total()
	}
	return b.histogram.Count(*star)
}

// Histogram returns the current rating histogram.
func (b *Browser) Histogram() Histogram {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.histogram
}

// AverageRating returns the weighted mean star rating from the histogram.
func (b *Browser) AverageRating() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.histogram.Average()
}

// Reviews returns the last successfully loaded review page.
func (b *Browser) Reviews() []domain.Review { return b.loader.Items() }

// State returns the fetch lifecycle state.
func (b *Browser) State() query.State { return b.loader.State() }

// Err returns the most recent fetch error, nil after a success.
func (b *Browser) Err() error { return b.loader.Err() }

// Pagination returns the pager display values:
// page, per-page, start, end and total.
func (b *Browser) Pagination() (page, perPage, start, end, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.q.Page(), b.q.PerPage(), b.q.StartItem(), b.q.EndItem(), b.q.Total()
}
