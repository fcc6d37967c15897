package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dukerupert/chapters/internal/domain"
	"github.com/google/uuid"
)

// orderRejection is the backend's 422 body when it rejects a subset of
// order items.
type orderRejection struct {
	Detail struct {
		InvalidItems []domain.InvalidOrderItem `json:"invalid_items"`
	} `json:"detail"`
}

// PlaceOrder submits an order. A 401 surfaces as EUNAUTHORIZED for the
// re-authentication flow; a validation rejection surfaces as
// *domain.OrderRejectedError naming the invalid items.
//
// Each attempt carries a client-generated idempotency key so a retry after
// a timed-out submission can't double-place the order.
func (c *Client) PlaceOrder(ctx context.Context, order domain.OrderCreate) (*domain.Order, error) {
	data, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.New().String())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "api.order", "backend unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		var placed domain.Order
		if err := json.NewDecoder(resp.Body).Decode(&placed); err != nil {
			return nil, domain.WrapError(err, domain.EINTERNAL, "api.order", "malformed backend response")
		}
		return &placed, nil

	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.Unauthorized("api.order", "authentication required")

	case resp.StatusCode == http.StatusUnprocessableEntity:
		var rejection orderRejection
		if err := json.NewDecoder(resp.Body).Decode(&rejection); err == nil && len(rejection.Detail.InvalidItems) > 0 {
			return nil, &domain.OrderRejectedError{Items: rejection.Detail.InvalidItems}
		}
		return nil, domain.Errorf(domain.EINVALID, "api.order", "order was rejected by the backend")

	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, domain.Errorf(domain.EINTERNAL, "api.order",
			"backend returned status %d: %s", resp.StatusCode, string(snippet))
	}
}
