package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/chapters/internal/domain"
)

// OrderPlacer is the slice of the remote API the checkout needs.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order domain.OrderCreate) (*domain.Order, error)
}

// Checkout turns the current cart into an order.
type Checkout struct {
	ledger Service
	api    OrderPlacer
	logger *slog.Logger
	now    func() time.Time
}

// NewCheckout creates a checkout over ledger and api.
func NewCheckout(ledger Service, api OrderPlacer, logger *slog.Logger) *Checkout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checkout{
		ledger: ledger,
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

// PlaceOrder submits the cart as an order.
//
// On success the cart is cleared. A 401 is returned untouched so the caller
// can run the re-authentication flow. When the backend rejects a subset of
// items the ledger is reconciled to drop exactly those lines and the
// returned error names the dropped titles; the rest of the cart survives
// for a retry.
func (c *Checkout) PlaceOrder(ctx context.Context) (*domain.Order, error) {
	items := c.ledger.Items()
	if len(items) == 0 {
		return nil, domain.Invalid("checkout.place", "cart is empty")
	}

	order := domain.OrderCreate{
		OrderDate:   c.now(),
		OrderAmount: c.ledger.Total(),
		Items:       make([]domain.OrderItemCreate, 0, len(items)),
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItemCreate{
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.FinalPrice,
		})
	}

	placed, err := c.api.PlaceOrder(ctx, order)
	if err != nil {
		var rejected *domain.OrderRejectedError
		if errors.As(err, &rejected) {
			removed, recErr := c.ledger.Reconcile(ctx, rejected.BookIDs())
			if recErr != nil {
				return nil, fmt.Errorf("failed to reconcile rejected items: %w", recErr)
			}

			c.logger.Info("order rejected, cart reconciled",
				slog.Int("invalid_items", len(rejected.Items)),
				slog.Int("remaining_items", len(c.ledger.Items())),
			)

			return nil, domain.Errorf(domain.EREJECTED, "checkout.place",
				"Some items were removed from your cart: %s. Please review and try again.",
				strings.Join(removed, ", "))
		}

		// 401 and transport failures surface to the caller unchanged
		return nil, err
	}

	if err := c.ledger.Clear(ctx); err != nil {
		// The order went through; a stale local cart is the lesser problem
		c.logger.Warn("order placed but cart clear failed", slog.String("error", err.Error()))
	}

	return placed, nil
}
