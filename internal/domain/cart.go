package domain

import "github.com/shopspring/decimal"

// MaxQuantity is the cap on a single cart line's quantity.
const MaxQuantity = 8

// CartItem is one cart line: a book and the quantity/price snapshot taken
// when it was added. The display fields are deliberately not refreshed
// against the catalog afterwards.
type CartItem struct {
	BookID   int `json:"book_id"`
	Quantity int `json:"quantity"`

	// FinalPrice is the unit price actually charged (post-discount if one
	// was active at add time).
	FinalPrice decimal.Decimal `json:"final_price"`

	// BasePrice is the pre-discount list price, set only when a discount
	// was active. Display-only; never part of total computation.
	BasePrice *decimal.Decimal `json:"base_price,omitempty"`

	BookTitle      string `json:"book_title"`
	BookCoverPhoto string `json:"book_cover_photo,omitempty"`
	BookAuthor     string `json:"book_author,omitempty"`
}

// LineTotal is quantity times the charged unit price.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.FinalPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AddResult reports the outcome of an add-to-cart attempt.
type AddResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
