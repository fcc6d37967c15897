package domain

import "time"

// Sort keys accepted by the reviews listing endpoint.
const (
	ReviewSortNewest = "newest to oldest"
	ReviewSortOldest = "oldest to newest"
)

// Review is one customer review of a book.
type Review struct {
	ID            int       `json:"id"`
	BookID        int       `json:"book_id"`
	ReviewTitle   string    `json:"review_title"`
	ReviewDetails string    `json:"review_details,omitempty"`
	ReviewDate    time.Time `json:"review_date"`
	RatingStar    int       `json:"rating_star"`
}

// ReviewCreate is the payload for submitting a new review.
type ReviewCreate struct {
	ReviewTitle   string    `json:"review_title"`
	ReviewDetails string    `json:"review_details,omitempty"`
	ReviewDate    time.Time `json:"review_date"`
	RatingStar    int       `json:"rating_star"`
}

// ReviewQuery is the parameter set for a paginated reviews fetch.
// Rating is nil for "all stars".
type ReviewQuery struct {
	Skip   int
	Limit  int
	SortBy string
	Rating *int
}

// ReviewPage is one page of a paginated reviews response.
type ReviewPage struct {
	Items []Review `json:"items"`
	Total int      `json:"total"`
}

// RatingCount is one row of the per-book ratings summary.
type RatingCount struct {
	RatingStar  int `json:"rating_star"`
	ReviewCount int `json:"review_count"`
}
