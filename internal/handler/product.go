package handler

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dukerupert/chapters/internal/domain"
	"github.com/dukerupert/chapters/internal/review"
	"github.com/go-playground/validator/v10"
)

// BookGetter is the slice of the remote client the product page consumes.
type BookGetter interface {
	GetBook(ctx context.Context, id int) (*domain.Book, error)
	GetAuthor(ctx context.Context, id int) (*domain.Author, error)
	GetDiscount(ctx context.Context, bookID int) (*domain.Discount, error)
}

// ProductHandler serves the product detail page and its review section.
// Each book gets its own review browser so filter and pagination state is
// per product, the way each open product page owns its own review list.
type ProductHandler struct {
	books    BookGetter
	reviews  review.API
	validate *validator.Validate

	mu       sync.Mutex
	browsers map[int]*review.Browser
}

// NewProductHandler creates a new product handler
func NewProductHandler(books BookGetter, reviews review.API, validate *validator.Validate) *ProductHandler {
	return &ProductHandler{
		books:    books,
		reviews:  reviews,
		validate: validate,
		browsers: make(map[int]*review.Browser),
	}
}

func (h *ProductHandler) browserFor(bookID int) *review.Browser {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.browsers[bookID]
	if !ok {
		b = review.NewBrowser(bookID, h.reviews)
		h.browsers[bookID] = b
	}
	return b
}

// productView is the product page payload.
type productView struct {
	Book          *domain.Book     `json:"book"`
	Author        *domain.Author   `json:"author,omitempty"`
	Discount      *domain.Discount `json:"discount,omitempty"`
	Reviews       []domain.Review  `json:"reviews"`
	ReviewState   string           `json:"review_state"`
	AverageRating float64          `json:"average_rating"`
	Histogram     map[int]int      `json:"histogram"`
	Pagination    paginationView   `json:"pagination"`
}

// View handles GET /books/{id}
func (h *ProductHandler) View(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx := r.Context()

	book, err := h.books.GetBook(ctx, bookID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var author *domain.Author
	if book.AuthorID != 0 {
		author, err = h.books.GetAuthor(ctx, book.AuthorID)
		if err != nil && domain.ErrorCode(err) != domain.ENOTFOUND {
			respondError(w, r, err)
			return
		}
	}

	// A book without an active discount is the normal case, not an error.
	discount, err := h.books.GetDiscount(ctx, bookID)
	if err != nil && domain.ErrorCode(err) != domain.ENOTFOUND {
		respondError(w, r, err)
		return
	}

	b := h.browserFor(bookID)
	if err := b.LoadSummary(ctx); err != nil {
		respondError(w, r, err)
		return
	}
	if err := b.Refresh(ctx); err != nil {
		respondError(w, r, err)
		return
	}

	h.respondView(w, book, author, discount, b)
}

// reviewFilterRequest selects the star filter. Clear wins over Rating.
type reviewFilterRequest struct {
	Rating *int `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Clear  bool `json:"clear,omitempty"`
}

// FilterReviews handles POST /books/{id}/reviews/filter
func (h *ProductHandler) FilterReviews(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req reviewFilterRequest
	if err := bindJSON(r, &req, h.validate); err != nil {
		respondError(w, r, err)
		return
	}

	b := h.browserFor(bookID)
	switch {
	case req.Clear:
		err = b.ClearRating(r.Context())
	case req.Rating != nil:
		err = b.SetRating(r.Context(), *req.Rating)
	default:
		respondError(w, r, domain.Invalid("product.filterReviews", "no rating filter given"))
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.respondReviews(w, b)
}

// SortReviews handles POST /books/{id}/reviews/sort
func (h *ProductHandler) SortReviews(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req sortRequest
	if err := bindJSON(r, &req, h.validate); err != nil {
		respondError(w, r, err)
		return
	}

	if req.SortBy != domain.ReviewSortNewest && req.SortBy != domain.ReviewSortOldest {
		respondError(w, r, domain.Errorf(domain.EINVALID, "product.sortReviews", "invalid sort key: %s", req.SortBy))
		return
	}

	b := h.browserFor(bookID)
	if err := b.SetSort(r.Context(), req.SortBy); err != nil {
		respondError(w, r, err)
		return
	}

	h.respondReviews(w, b)
}

// PageReviews handles POST /books/{id}/reviews/page
func (h *ProductHandler) PageReviews(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req pageRequest
	if err := bindJSON(r, &req, h.validate); err != nil {
		respondError(w, r, err)
		return
	}

	b := h.browserFor(bookID)
	if err := b.SetPage(r.Context(), req.Page); err != nil {
		respondError(w, r, err)
		return
	}

	h.respondReviews(w, b)
}

// PerPageReviews handles POST /books/{id}/reviews/page-size
func (h *ProductHandler) PerPageReviews(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req perPageRequest
	if err := bindJSON(r, &req, h.validate); err != nil {
		respondError(w, r, err)
		return
	}

	b := h.browserFor(bookID)
	if err := b.SetPerPage(r.Context(), req.PerPage); err != nil {
		respondError(w, r, err)
		return
	}

	h.respondReviews(w, b)
}

type submitReviewRequest struct {
	ReviewTitle   string `json:"review_title" validate:"required,max=120"`
	ReviewDetails string `json:"review_details" validate:"max=2000"`
	RatingStar    int    `json:"rating_star" validate:"required,min=1,max=5"`
}

// SubmitReview handles POST /books/{id}/reviews
func (h *ProductHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req submitReviewRequest
	if err := bindJSON(r, &req, h.validate); err != nil {
		respondError(w, r, err)
		return
	}

	b := h.browserFor(bookID)
	err = b.SubmitReview(r.Context(), domain.ReviewCreate{
		ReviewTitle:   req.ReviewTitle,
		ReviewDetails: req.ReviewDetails,
		ReviewDate:    time.Now().UTC(),
		RatingStar:    req.RatingStar,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.respondReviewsStatus(w, http.StatusCreated, b)
}

// reviewsView is the review section payload returned by the event routes.
type reviewsView struct {
	Reviews       []domain.Review `json:"reviews"`
	State         string          `json:"state"`
	AverageRating float64         `json:"average_rating"`
	Histogram     map[int]int     `json:"histogram"`
	Pagination    paginationView  `json:"pagination"`
}

func (h *ProductHandler) respondReviews(w http.ResponseWriter, b *review.Browser) {
	h.respondReviewsStatus(w, http.StatusOK, b)
}

func (h *ProductHandler) respondReviewsStatus(w http.ResponseWriter, status int, b *review.Browser) {
	page, perPage, start, end, total := b.Pagination()
	respondJSON(w, status, reviewsView{
		Reviews:       b.Reviews(),
		State:         b.State().String(),
		AverageRating: b.AverageRating(),
		Histogram:     histogramMap(b.Histogram()),
		Pagination: paginationView{
			Page:      page,
			PerPage:   perPage,
			StartItem: start,
			EndItem:   end,
			Total:     total,
		},
	})
}

func (h *ProductHandler) respondView(w http.ResponseWriter, book *domain.Book, author *domain.Author, discount *domain.Discount, b *review.Browser) {
	page, perPage, start, end, total := b.Pagination()
	respondJSON(w, http.StatusOK, productView{
		Book:          book,
		Author:        author,
		Discount:      discount,
		Reviews:       b.Reviews(),
		ReviewState:   b.State().String(),
		AverageRating: b.AverageRating(),
		Histogram:     histogramMap(b.Histogram()),
		Pagination: paginationView{
			Page:      page,
			PerPage:   perPage,
			StartItem: start,
			EndItem:   end,
			Total:     total,
		},
	})
}

func histogramMap(h review.Histogram) map[int]int {
	m := make(map[int]int, 5)
	for star := 1; star <= 5; star++ {
		m[star] = h.Count(star)
	}
	return m
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		return 0, domain.Invalid("handler.pathID", "invalid id in path")
	}
	return id, nil
}
