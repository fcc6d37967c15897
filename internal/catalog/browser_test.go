package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/chapters/internal/domain"
	"github.com/dukerupert/chapters/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAPI implements API for testing
type mockAPI struct {
	ListBooksFunc      func(ctx context.Context, q domain.BookQuery) (*domain.BookPage, error)
	ListAuthorsFunc    func(ctx context.Context) ([]domain.Author, error)
	ListCategoriesFunc func(ctx context.Context) ([]domain.Category, error)
	ListDiscountsFunc  func(ctx context.Context) ([]domain.Discount, error)

	bookRequests []domain.BookQuery
}

func (m *mockAPI) ListBooks(ctx context.Context, q domain.BookQuery) (*domain.BookPage, error) {
	m.bookRequests = append(m.bookRequests, q)
	if m.ListBooksFunc != nil {
		return m.ListBooksFunc(ctx, q)
	}
	return &domain.BookPage{}, nil
}

func (m *mockAPI) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	if m.ListAuthorsFunc != nil {
		return m.ListAuthorsFunc(ctx)
	}
	return nil, nil
}

func (m *mockAPI) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *mockAPI) ListDiscounts(ctx context.Context) ([]domain.Discount, error) {
	if m.ListDiscountsFunc != nil {
		return m.ListDiscountsFunc(ctx)
	}
	return nil, nil
}

func TestBrowser_RefreshLoadsBooks(t *testing.T) {
	api := &mockAPI{
		ListBooksFunc: func(ctx context.Context, q domain.BookQuery) (*domain.BookPage, error) {
			return &domain.BookPage{
				Items: []domain.Book{{ID: 1, Title: "Dune"}},
				Total: 57,
			}, nil
		},
	}
	b := NewBrowser(api, nil)

	require.NoError(t, b.Refresh(context.Background()))

	assert.Equal(t, query.Loaded, b.State())
	require.Len(t, b.Books(), 1)
	assert.Equal(t, "Dune", b.Books()[0].Title)

	_, _, start, end, total := b.Pagination()
	assert.Equal(t, 1, start)
	assert.Equal(t, 20, end)
	assert.Equal(t, 57, total)
}

func TestBrowser_RefreshFailureKeepsPreviousPage(t *testing.T) {
	calls := 0
	api := &mockAPI{
		ListBooksFunc: func(ctx context.Context, q domain.BookQuery) (*domain.BookPage, error) {
			calls++
			if calls > 1 {
				return nil, errors.New("backend down")
			}
			return &domain.BookPage{Items: []domain.Book{{ID: 1}}, Total: 1}, nil
		},
	}
	b := NewBrowser(api, nil)
	ctx := context.Background()

	require.NoError(t, b.Refresh(ctx))
	require.Error(t, b.Refresh(ctx))

	assert.Equal(t, query.Failed, b.State())
	assert.Error(t, b.Err())
	assert.Len(t, b.Books(), 1, "a failed refresh keeps the last good page")
}

func TestBrowser_SetCategoryResetsPageInRequest(t *testing.T) {
	api := &mockAPI{}
	b := NewBrowser(api, nil)
	ctx := context.Background()

	require.NoError(t, b.SetPage(ctx, 3))
	require.NoError(t, b.SetCategory(ctx, 9))

	require.Len(t, api.bookRequests, 2)
	assert.Equal(t, 40, api.bookRequests[0].Skip)

	last := api.bookRequests[1]
	assert.Equal(t, 0, last.Skip, "a filter change must fetch page 1")
	require.NotNil(t, last.CategoryID)
	assert.Equal(t, 9, *last.CategoryID)
}

func TestBrowser_SetPerPageKeepsPageInRequest(t *testing.T) {
	api := &mockAPI{}
	b := NewBrowser(api, nil)
	ctx := context.Background()

	require.NoError(t, b.SetPage(ctx, 2))
	require.NoError(t, b.SetPerPage(ctx, 5))

	last := api.bookRequests[len(api.bookRequests)-1]
	assert.Equal(t, 5, last.Limit)
	assert.Equal(t, 5, last.Skip, "page 2 of 5 per page")
}

func TestBrowser_DiscountFailureIsNotFatal(t *testing.T) {
	api := &mockAPI{
		ListDiscountsFunc: func(ctx context.Context) ([]domain.Discount, error) {
			return nil, errors.New("discounts unavailable")
		},
		ListBooksFunc: func(ctx context.Context, q domain.BookQuery) (*domain.BookPage, error) {
			return &domain.BookPage{Items: []domain.Book{{ID: 1}}, Total: 1}, nil
		},
	}
	b := NewBrowser(api, nil)

	require.NoError(t, b.Refresh(context.Background()))
	assert.Equal(t, query.Loaded, b.State())
	assert.Empty(t, b.Discounts())
}

func TestBrowser_LoadFilterListsOnce(t *testing.T) {
	categoryCalls := 0
	api := &mockAPI{
		ListCategoriesFunc: func(ctx context.Context) ([]domain.Category, error) {
			categoryCalls++
			return []domain.Category{{ID: 1, Name: "Science Fiction"}}, nil
		},
		ListAuthorsFunc: func(ctx context.Context) ([]domain.Author, error) {
			return []domain.Author{{ID: 1, Name: "Frank Herbert"}}, nil
		},
	}
	b := NewBrowser(api, nil)
	ctx := context.Background()

	require.NoError(t, b.LoadFilterLists(ctx))
	require.NoError(t, b.LoadFilterLists(ctx))

	assert.Equal(t, 1, categoryCalls)
	assert.Len(t, b.Categories(), 1)
	assert.Len(t, b.Authors(), 1)
}
