package domain

import "github.com/shopspring/decimal"

// Sort keys accepted by the books listing endpoint.
const (
	SortOnSale    = "onsale"
	SortPopular   = "popular"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ValidBookSort reports whether key is one of the catalog sort keys.
func ValidBookSort(key string) bool {
	switch key {
	case SortOnSale, SortPopular, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// Book is the catalog view of a book as served by the backend.
type Book struct {
	ID            int             `json:"id"`
	Title         string          `json:"book_title"`
	Summary       string          `json:"book_summary,omitempty"`
	Price         decimal.Decimal `json:"book_price"`
	CoverPhoto    string          `json:"book_cover_photo,omitempty"`
	CategoryID    int             `json:"category_id,omitempty"`
	AuthorID      int             `json:"author_id,omitempty"`
	AuthorName    string          `json:"author_name,omitempty"`
	AverageRating float64         `json:"avg_rating,omitempty"`
	ReviewCount   int             `json:"total_reviews,omitempty"`
}

// Author is a catalog author entry.
type Author struct {
	ID   int    `json:"id"`
	Name string `json:"author_name"`
	Bio  string `json:"author_bio,omitempty"`
}

// Category is a catalog category entry.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"category_name"`
	Description string `json:"category_desc,omitempty"`
}

// Discount is an active price reduction for a single book.
type Discount struct {
	ID        int             `json:"id"`
	BookID    int             `json:"book_id"`
	StartDate string          `json:"discount_start_date"`
	EndDate   string          `json:"discount_end_date"`
	Price     decimal.Decimal `json:"discount_price"`
}

// BookQuery is the parameter set for a paginated catalog fetch.
// Optional filters are nil when unset so they stay out of the query string.
type BookQuery struct {
	Skip       int
	Limit      int
	SortBy     string
	CategoryID *int
	AuthorID   *int
	MinRating  *int
}

// BookPage is one page of a paginated books response.
type BookPage struct {
	Items []Book `json:"items"`
	Total int    `json:"total"`
}
