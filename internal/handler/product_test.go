package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/chapters/internal/domain"
	"github.com/dukerupert/chapters/internal/router"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBookGetter implements BookGetter for testing
type mockBookGetter struct {
	GetBookFunc     func(ctx context.Context, id int) (*domain.Book, error)
	GetDiscountFunc func(ctx context.Context, bookID int) (*domain.Discount, error)
}

func (m *mockBookGetter) GetBook(ctx context.Context, id int) (*domain.Book, error) {
	if m.GetBookFunc != nil {
		return m.GetBookFunc(ctx, id)
	}
	return &domain.Book{ID: id, Title: "Dune", AuthorID: 1, Price: decimal.RequireFromString("9.99")}, nil
}

func (m *mockBookGetter) GetAuthor(ctx context.Context, id int) (*domain.Author, error) {
	return &domain.Author{ID: id, Name: "Frank Herbert"}, nil
}

func (m *mockBookGetter) GetDiscount(ctx context.Context, bookID int) (*domain.Discount, error) {
	if m.GetDiscountFunc != nil {
		return m.GetDiscountFunc(ctx, bookID)
	}
	return nil, domain.NotFound("api.request", "discount", "/discounts/1")
}

// mockReviewAPI implements review.API for testing
type mockReviewAPI struct {
	listRequests []domain.ReviewQuery
	created      []domain.ReviewCreate
}

func (m *mockReviewAPI) ListReviews(ctx context.Context, bookID int, q domain.ReviewQuery) (*domain.ReviewPage, error) {
	m.listRequests = append(m.listRequests, q)
	return &domain.ReviewPage{
		Items: []domain.Review{{ID: 1, ReviewTitle: "Loved it", RatingStar: 5}},
		Total: 31,
	}, nil
}

func (m *mockReviewAPI) RatingSummary(ctx context.Context, bookID int) ([]domain.RatingCount, error) {
	return []domain.RatingCount{
		{RatingStar: 5, ReviewCount: 2},
		{RatingStar: 4, ReviewCount: 1},
	}, nil
}

func (m *mockReviewAPI) CreateReview(ctx context.Context, bookID int, review domain.ReviewCreate) error {
	m.created = append(m.created, review)
	return nil
}

func productRouter(books BookGetter, reviews *mockReviewAPI) *router.Router {
	h := NewProductHandler(books, reviews, validator.New(validator.WithRequiredStructEnabled()))

	r := router.New()
	r.Get("/books/{id}", h.View)
	r.Post("/books/{id}/reviews", h.SubmitReview)
	r.Post("/books/{id}/reviews/filter", h.FilterReviews)
	r.Post("/books/{id}/reviews/sort", h.SortReviews)
	r.Post("/books/{id}/reviews/page", h.PageReviews)
	r.Post("/books/{id}/reviews/page-size", h.PerPageReviews)
	return r
}

func TestProductHandler_View(t *testing.T) {
	r := productRouter(&mockBookGetter{}, &mockReviewAPI{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/12", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Book          *domain.Book    `json:"book"`
		Author        *domain.Author  `json:"author"`
		Reviews       []domain.Review `json:"reviews"`
		AverageRating float64         `json:"average_rating"`
		Histogram     map[string]int  `json:"histogram"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

	require.NotNil(t, view.Book)
	assert.Equal(t, "Dune", view.Book.Title)
	require.NotNil(t, view.Author)
	assert.Equal(t, "Frank Herbert", view.Author.Name)
	assert.Len(t, view.Reviews, 1)
	assert.InDelta(t, 14.0/3.0, view.AverageRating, 1e-9)
	assert.Equal(t, 2, view.Histogram["5"])
	assert.Equal(t, 0, view.Histogram["3"])
}

func TestProductHandler_ViewMissingDiscountIsFine(t *testing.T) {
	books := &mockBookGetter{}
	r := productRouter(books, &mockReviewAPI{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/12", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"discount"`)
}

func TestProductHandler_ViewUnknownBook(t *testing.T) {
	books := &mockBookGetter{
		GetBookFunc: func(ctx context.Context, id int) (*domain.Book, error) {
			return nil, domain.NotFound("api.request", "book", "/books/999")
		},
	}
	r := productRouter(books, &mockReviewAPI{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandler_InvalidPathID(t *testing.T) {
	r := productRouter(&mockBookGetter{}, &mockReviewAPI{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductHandler_ReviewSortKeepsPage(t *testing.T) {
	reviews := &mockReviewAPI{}
	r := productRouter(&mockBookGetter{}, reviews)

	rec := postJSON(t, r, "/books/12/reviews/page", `{"page":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, r, "/books/12/reviews/sort", `{"sort_by":"oldest to newest"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	last := reviews.listRequests[len(reviews.listRequests)-1]
	assert.Equal(t, 40, last.Skip, "a review sort change keeps the page")
	assert.Equal(t, domain.ReviewSortOldest, last.SortBy)
}

func TestProductHandler_ReviewFilterResetsPage(t *testing.T) {
	reviews := &mockReviewAPI{}
	r := productRouter(&mockBookGetter{}, reviews)

	postJSON(t, r, "/books/12/reviews/page", `{"page":3}`)
	rec := postJSON(t, r, "/books/12/reviews/filter", `{"rating":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	last := reviews.listRequests[len(reviews.listRequests)-1]
	assert.Equal(t, 0, last.Skip)
	require.NotNil(t, last.Rating)
	assert.Equal(t, 5, *last.Rating)
}

func TestProductHandler_ReviewStateIsPerBook(t *testing.T) {
	reviews := &mockReviewAPI{}
	r := productRouter(&mockBookGetter{}, reviews)

	postJSON(t, r, "/books/12/reviews/page", `{"page":3}`)
	rec := postJSON(t, r, "/books/13/reviews/page", `{"page":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	last := reviews.listRequests[len(reviews.listRequests)-1]
	assert.Equal(t, 0, last.Skip, "book 13 has its own pagination state")
}

func TestProductHandler_SubmitReview(t *testing.T) {
	reviews := &mockReviewAPI{}
	r := productRouter(&mockBookGetter{}, reviews)

	rec := postJSON(t, r, "/books/12/reviews", `{"review_title":"Great read","review_details":"Finished in one sitting.","rating_star":5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, reviews.created, 1)
	assert.Equal(t, "Great read", reviews.created[0].ReviewTitle)
	assert.Equal(t, 5, reviews.created[0].RatingStar)
	assert.False(t, reviews.created[0].ReviewDate.IsZero())
}

func TestProductHandler_SubmitReviewValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"rating_star":5}`},
		{"star out of range", `{"review_title":"x","rating_star":6}`},
		{"zero star", `{"review_title":"x","rating_star":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := &mockReviewAPI{}
			r := productRouter(&mockBookGetter{}, reviews)

			rec := postJSON(t, r, "/books/12/reviews", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, reviews.created)
		})
	}
}
