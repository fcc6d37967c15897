package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dukerupert/chapters/internal/domain"
)

// ListReviews fetches one page of a book's reviews.
func (c *Client) ListReviews(ctx context.Context, bookID int, q domain.ReviewQuery) (*domain.ReviewPage, error) {
	params := url.Values{}
	params.Set("skip", strconv.Itoa(q.Skip))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("sort_by", q.SortBy)
	if q.Rating != nil {
		params.Set("rating", strconv.Itoa(*q.Rating))
	}

	var page domain.ReviewPage
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reviews/%d", bookID), params, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// RatingSummary fetches the unfiltered per-star review counts for a book.
// Summaries are cached; CreateReview invalidates the book's entry.
func (c *Client) RatingSummary(ctx context.Context, bookID int) ([]domain.RatingCount, error) {
	if ratings, ok := c.ratingCache.Get(bookID); ok {
		return ratings, nil
	}

	var ratings []domain.RatingCount
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reviews/ratings/%d", bookID), nil, nil, &ratings); err != nil {
		return nil, err
	}

	c.ratingCache.Add(bookID, ratings)
	return ratings, nil
}

// CreateReview submits a new review for a book and drops the book's
// cached ratings summary so the next read sees the new counts.
func (c *Client) CreateReview(ctx context.Context, bookID int, review domain.ReviewCreate) error {
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/reviews/%d", bookID), nil, review, nil); err != nil {
		return err
	}

	c.ratingCache.Remove(bookID)
	return nil
}
