package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dukerupert/chapters/internal/domain"
	"github.com/dukerupert/chapters/internal/query"
)

// API is the slice of the remote client the shop page consumes.
type API interface {
	ListBooks(ctx context.Context, q domain.BookQuery) (*domain.BookPage, error)
	ListAuthors(ctx context.Context) ([]domain.Author, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListDiscounts(ctx context.Context) ([]domain.Discount, error)
}

// Browser drives the shop page: it owns the Query, issues the remote
// fetches and applies responses through a stale-discarding loader.
//
// Mutations and Refresh may be called from concurrent facade requests;
// when two refreshes race, only the later-issued one lands.
type Browser struct {
	mu     sync.Mutex
	q      *Query
	loader query.Loader[domain.Book]
	api    API
	logger *slog.Logger

	sideOnce   sync.Once
	categories []domain.Category
	authors    []domain.Author
	discounts  []domain.Discount
}

// NewBrowser creates a shop browser in its initial state.
func NewBrowser(api API, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{
		q:      NewQuery(),
		api:    api,
		logger: logger,
	}
}

// SetCategory filters by category, resets the page and refreshes.
func (b *Browser) SetCategory(ctx context.Context, id int) error {
	b.mu.Lock()
	b.q.SetCategory(id)
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// SetAuthor filters by author, resets the page and refreshes.
func (b *Browser) SetAuthor(ctx context.Context, id int) error {
	b.mu.Lock()
	b.q.SetAuthor(id)
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// SetMinRating filters by minimum rating, resets the page and refreshes.
func (b *Browser) SetMinRating(ctx context.Context, stars int) error {
	b.mu.Lock()
	b.q.SetMinRating(stars)
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// ClearFilters removes all filters, resets the page and refreshes.
func (b *Browser) ClearFilters(ctx context.Context) error {
	b.mu.Lock()
	b.q.ClearFilters()
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// SetSort changes the sort key, resets the page and refreshes.
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

// Refresh fetches the current page. A response that arrives after a newer
// parameter change has issued its own fetch is discarded.
func (b *Browser) Refresh(ctx context.Context) error {
	b.mu.Lock()
	req := b.q.BuildRequest()
	b.mu.Unlock()

	gen := b.loader.Begin()

	// The shop page re-reads active discounts alongside every listing
	// fetch; a failure here only loses strikethrough prices.
	if discounts, err := b.api.ListDiscounts(ctx); err != nil {
		b.logger.Warn("discount fetch failed", slog.String("error", err.Error()))
	} else {
		b.mu.Lock()
		b.discounts = discounts
		b.mu.Unlock()
	}

	page, err := b.api.ListBooks(ctx, req)
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

// LoadFilterLists fetches the category and author side lists.
// They load once per process; later calls are no-ops.
func (b *Browser) LoadFilterLists(ctx context.Context) error {
	var err error
	b.sideOnce.Do(func() {
		var categories []domain.Category
		var authors []domain.Author

		categories, err = b.api.ListCategories(ctx)
		if err != nil {
			return
		}
		authors, err = b.api.ListAuthors(ctx)
		if err != nil {
			return
		}

		b.mu.Lock()
		b.categories = categories
		b.authors = authors
		b.mu.Unlock()
	})
	return err
}

// Books returns the last successfully loaded page of books.
func (b *Browser) Books() []domain.Book { return b.loader.Items() }

// State returns the fetch lifecycle state.
func (b *Browser) State() query.State { return b.loader.State() }

// Err returns the most recent fetch error, nil after a success.
func (b *Browser) Err() error { return b.loader.Err() }

// Categories returns the category side list.
func (b *Browser) Categories() []domain.Category {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.categories
}

// Authors returns the author side list.
func (b *Browser) Authors() []domain.Author {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.authors
}

// Discounts returns the active discounts from the last refresh.
func (b *Browser) Discounts() []domain.Discount {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.discounts
}

// Pagination returns the display values for the pager:
// page, per-page, start, end and total.
func (b *Browser) Pagination() (page, perPage, start, end, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.q.Page(), b.q.PerPage(), b.q.StartItem(), b.q.EndItem(), b.q.Total()
}
