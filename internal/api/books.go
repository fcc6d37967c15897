package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dukerupert/chapters/internal/domain"
)

// ListBooks fetches one page of the catalog.
func (c *Client) ListBooks(ctx context.Context, q domain.BookQuery) (*domain.BookPage, error) {
	params := url.Values{}
	params.Set("skip", strconv.Itoa(q.Skip))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("sort_by", q.SortBy)
	if q.CategoryID != nil {
		params.Set("category_id", strconv.Itoa(*q.CategoryID))
	}
	if q.AuthorID != nil {
		params.Set("author_id", strconv.Itoa(*q.AuthorID))
	}
	if q.MinRating != nil {
		params.Set("min_rating", strconv.Itoa(*q.MinRating))
	}

	var page domain.BookPage
	if err := c.do(ctx, http.MethodGet, "/books", params, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBook fetches one book's detail. Details are cached; product pages
// re-request them on every review filter change.
func (c *Client) GetBook(ctx context.Context, id int) (*domain.Book, error) {
	if book, ok := c.bookCache.Get(id); ok {
		return book, nil
	}

	var book domain.Book
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books/%d", id), nil, nil, &book); err != nil {
		return nil, err
	}

	c.bookCache.Add(id, &book)
	return &book, nil
}

// ListAuthors fetches the full author list for the filter sidebar.
func (c *Client) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	var authors []domain.Author
	if err := c.do(ctx, http.MethodGet, "/authors", nil, nil, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

// GetAuthor fetches one author.
func (c *Client) GetAuthor(ctx context.Context, id int) (*domain.Author, error) {
	var author domain.Author
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/authors/%d", id), nil, nil, &author); err != nil {
		return nil, err
	}
	return &author, nil
}

// ListCategories fetches the full category list for the filter sidebar.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListDiscounts fetches all currently active discounts.
func (c *Client) ListDiscounts(ctx context.Context) ([]domain.Discount, error) {
	var discounts []domain.Discount
	if err := c.do(ctx, http.MethodGet, "/discounts", nil, nil, &discounts); err != nil {
		return nil, err
	}
	return discounts, nil
}

// GetDiscount fetches the active discount for one book, if any.
func (c *Client) GetDiscount(ctx context.Context, bookID int) (*domain.Discount, error) {
	var discount domain.Discount
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/discounts/%d", bookID), nil, nil, &discount); err != nil {
		return nil, err
	}
	return &discount, nil
}
