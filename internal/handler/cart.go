package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dukerupert/chapters/internal/cart"
	"github.com/dukerupert/chapters/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// OrderService places the current cart as an order.
type OrderService interface {
	PlaceOrder(ctx context.Context) (*domain.Order, error)
}

// CartHandler handles all cart-related routes
type CartHandler struct {
	ledger   cart.Service
	orders   OrderService
	validate *validator.Validate
}

// NewCartHandler creates a new cart handler
func NewCartHandler(ledger cart.Service, orders OrderService, validate *validator.Validate) *CartHandler {
	return &CartHandler{
		ledger:   ledger,
		orders:   orders,
		validate: validate,
	}
}

// cartView is the cart page payload.
type cartView struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     decimal.Decimal   `json:"total"`
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, cartView{
		Items:     h.ledger.Items(),
		ItemCount: h.ledger.ItemCount(),
		Total:     h.ledger.Total(),
	})
}

// Count handles GET /cart/count: the header badge value.
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]int{"count": h.ledger.ItemCount()})
}

// addToCartRequest carries the add-time snapshot from the product page.
type addToCartRequest struct {
	BookID     int              `json:"book_id" validate:"required"`
	Quantity   int              `json:"quantity" validate:"required,min=1"`
	BookTitle  string           `json:"book_title" validate:"required"`
	FinalPrice decimal.Decimal  `json:"final_price" validate:"required"`
	BasePrice  *decimal.Decimal `json:"base_price,omitempty"`
	CoverPhoto string           `json:"book_cover_photo,omitempty"`
	Author     string           `json:"book_author,omitempty"`
}

// Add handles POST /cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := bindJSON(r, &req, h.validate); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.ledger.Add(r.Context(), cart.AddParams{
		BookID:     req.BookID,
		Quantity:   req.Quantity,
		Title:      req.BookTitle,
		FinalPrice: req.FinalPrice,
		BasePrice:  req.BasePrice,
		CoverPhoto: req.CoverPhoto,
		Author:     req.Author,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	// Cap violations are part of the result contract, not HTTP errors
	respondJSON(w, http.StatusOK, result)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=8"`
}

// UpdateQuantity handles PUT /cart/items/{id}.
// A quantity of 0 removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, r, domain.Invalid("cart.update", "invalid book id"))
		return
	}

	var req updateQuantityRequest
	if err := bindJSON(r, &req, h.validate); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.ledger.UpdateQuantity(r.Context(), bookID, req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /cart/items/{id}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, r, domain.Invalid("cart.remove", "invalid book id"))
		return
	}

	if err := h.ledger.Remove(r.Context(), bookID); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /checkout. On success the cart is already
// cleared; rejection and auth errors map through respondError so the UI
// can reconcile or re-authenticate.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.PlaceOrder(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}
