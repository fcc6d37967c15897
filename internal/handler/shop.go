package handler

import (
	"net/http"

	"github.com/dukerupert/chapters/internal/catalog"
	"github.com/dukerupert/chapters/internal/domain"
	"github.com/dukerupert/chapters/internal/query"
	"github.com/go-playground/validator/v10"
)

// ShopHandler drives the shop page: one browser instance holds the
// filter/sort/pagination state, and each UI event posts to its own route.
type ShopHandler struct {
	browser  *catalog.Browser
	validate *validator.Validate
}

// NewShopHandler creates a new shop handler
func NewShopHandler(browser *catalog.Browser, validate *validator.Validate) *ShopHandler {
	return &ShopHandler{
		browser:  browser,
		validate: validate,
	}
}

// shopView is the shop page payload.
type shopView struct {
	Books      []domain.Book     `json:"books"`
	Categories []domain.Category `json:"categories"`
	Authors    []domain.Author   `json:"authors"`
	Discounts  []domain.Discount `json:"discounts"`
	State      string            `json:"state"`
	Pagination paginationView    `json:"pagination"`
}

type paginationView struct {
	Page      int `json:"page"`
	PerPage   int `json:"per_page"`
	StartItem int `json:"start_item"`
	EndItem   int `json:"end_item"`
	Total     int `json:"total"`
}

// View handles GET /shop: the current listing plus the filter side lists.
func (h *ShopHandler) View(w http.ResponseWriter, r *http.Request) {
	if err := h.browser.LoadFilterLists(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}

	if h.browser.State() == query.Idle {
		if err := h.browser.Refresh(r.Context()); err != nil {
			respondError(w, r, err)
			return
		}
	}

	h.respondView(w)
}

// filterRequest selects one filter dimension. Exactly one field is set.
type filterRequest struct {
	CategoryID *int `json:"category_id,omitempty"`
	AuthorID   *int `json:"author_id,omitempty"`
	MinRating  *int `json:"min_rating,omitempty" validate:"omitempty,min=1,max=5"`
	Clear      bool `json:"clear,omitempty"`
}

// Filter handles POST /shop/filter
func (h *ShopHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := bindJSON(r, &req, h.validate); err != nil {
		respondError(w, r, err)
		return
	}

	ctx := r.Context()
	var err error
	switch {
	case req.Clear:
		err = h.browser.ClearFilters(ctx)
	case req.CategoryID != nil:
		err = h.browser.SetCategory(ctx, *req.CategoryID)
	case req.AuthorID != nil:
		err = h.browser.SetAuthor(ctx, *req.AuthorID)
	case req.MinRating != nil:
		err = h.browser.SetMinRating(ctx, *req.MinRating)
	default:
		respondError(w, r, domain.Invalid("shop.filter", "no filter dimension given"))
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.respondView(w)
}

type sortRequest struct {
	SortBy string `json:"sort_by" validate:"required"`
}

// Sort handles POST /shop/sort
func (h *ShopHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := bindJSON(r, &req, h.validate); err != nil {
		respondError(w, r, err)
		return
	}

	if !domain.ValidBookSort(req.SortBy) {
		respondError(w, r, domain.Errorf(domain.EINVALID, "shop.sort", "invalid sort key: %s", req.SortBy))
		return
	}

	if err := h.browser.SetSort(r.Context(), req.SortBy); err != nil {
		respondError(w, r, err)
		return
	}

	h.respondView(w)
}

type pageRequest struct {
	Page int `json:"page" validate:"required,min=1"`
}

// Page handles POST /shop/page
func (h *ShopHandler) Page(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := bindJSON(r, &req, h.validate); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.browser.SetPage(r.Context(), req.Page); err != nil {
		respondError(w, r, err)
		return
	}

	h.respondView(w)
}

type perPageRequest struct {
	PerPage int `json:"per_page" validate:"required"`
}

// PerPage handles POST /shop/page-size
func (h *ShopHandler) PerPage(w http.ResponseWriter, r *http.Request) {
	var req perPageRequest
	if err := bindJSON(r, &req, h.validate); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.browser.SetPerPage(r.Context(), req.PerPage); err != nil {
		respondError(w, r, err)
		return
	}

	h.respondView(w)
}

func (h *ShopHandler) respondView(w http.ResponseWriter) {
	page, perPage, start, end, total := h.browser.Pagination()
	respondJSON(w, http.StatusOK, shopView{
		Books:      h.browser.Books(),
		Categories: h.browser.Categories(),
		Authors:    h.browser.Authors(),
		Discounts:  h.browser.Discounts(),
		State:      h.browser.State().String(),
		Pagination: paginationView{
			Page:      page,
			PerPage:   perPage,
			StartItem: start,
			EndItem:   end,
			Total:     total,
		},
	})
}
