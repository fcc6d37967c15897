package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemCreate is one line of an order placement request.
type OrderItemCreate struct {
	BookID   int             `json:"book_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderCreate is the payload for POST /orders.
type OrderCreate struct {
	OrderDate   time.Time         `json:"order_date"`
	OrderAmount decimal.Decimal   `json:"order_amount"`
	Items       []OrderItemCreate `json:"items"`
}

// Order is a placed order as returned by the backend.
type Order struct {
	ID          int             `json:"id"`
	UserID      int             `json:"user_id"`
	OrderDate   time.Time       `json:"order_date"`
	OrderAmount decimal.Decimal `json:"order_amount"`
}
