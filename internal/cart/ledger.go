package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/dukerupert/chapters/internal/domain"
	"github.com/dukerupert/chapters/internal/store"
	"github.com/shopspring/decimal"
)

// StorageKey is the persisted-store key holding the JSON-encoded cart.
const StorageKey = "cart"

// Service provides business logic for the client-side shopping cart
type Service interface {
	// Load reads the persisted cart into memory. Must run once at startup
	// before any other operation; a missing or corrupt entry starts empty.
	Load(ctx context.Context) error

	// Add puts a book in the cart or merges into an existing line.
	// Quantity is capped at domain.MaxQuantity per line; a capped add is
	// reported in the result and leaves the cart and the store untouched.
	Add(ctx context.Context, params AddParams) (domain.AddResult, error)

	// UpdateQuantity sets a line's quantity. Zero removes the line.
	// Unknown book IDs are a no-op.
	UpdateQuantity(ctx context.Context, bookID, quantity int) error

	// Remove deletes a line if present.
	Remove(ctx context.Context, bookID int) error

	// Reconcile removes every line whose book ID is in bookIDs and
	// persists. Returns the titles of the removed lines.
	Reconcile(ctx context.Context, bookIDs []int) ([]string, error)

	// Clear empties the cart and removes the persisted entry.
	Clear(ctx context.Context) error

	// Items returns a copy of the cart lines in insertion order.
	Items() []domain.CartItem

	// ItemCount returns the sum of quantities across all lines.
	ItemCount() int

	// Total returns the sum of quantity * final price across all lines.
	Total() decimal.Decimal

	// Subscribe registers fn to run after every successful mutation.
	Subscribe(fn func())
}

// AddParams carries the display snapshot captured when a book is added.
// On a merge only the quantity changes; the snapshot of the existing line wins.
type AddParams struct {
	BookID     int
	Quantity   int
	Title      string
	FinalPrice decimal.Decimal
	CoverPhoto string
	Author     string

	// BasePrice is the pre-discount list price, nil when no discount is active.
	BasePrice *decimal.Decimal
}

// Ledger is the in-memory cart mirrored 1:1 into the persisted store.
// Every successful mutation writes the full cart back synchronously.
type Ledger struct {
	mu          sync.Mutex
	items       []domain.CartItem
	store       store.Store
	logger      *slog.Logger
	subscribers []func()
}

// NewLedger creates an empty ledger backed by st.
func NewLedger(st store.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		store:  st,
		logger: logger,
	}
}

// Load reads the persisted cart into memory
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := l.store.Get(ctx, StorageKey)
	if err != nil {
		if store.IsNotFound(err) {
			l.items = nil
			return nil
		}
		return fmt.Errorf("failed to load cart: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// Corrupt persisted data degrades to an empty cart, never a crash
		l.logger.Warn("discarding corrupt persisted cart", slog.String("error", err.Error()))
		l.items = nil
		return nil
	}

	l.items = items
	return nil
}

// Add puts a book in the cart or merges into an existing line
func (l *Ledger) Add(ctx context.Context, params AddParams) (domain.AddResult, error) {
	if params.Quantity < 1 {
		return domain.AddResult{}, domain.Invalid("cart.add", "quantity must be at least 1")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(params.BookID)

	if idx >= 0 {
		newQuantity := l.items[idx].Quantity + params.Quantity
		if newQuantity > domain.MaxQuantity {
			return domain.AddResult{
				Success: false,
				Message: fmt.Sprintf("Cannot add more. Max quantity of %d reached for %q.", domain.MaxQuantity, params.Title),
			}, nil
		}

		// Merge updates quantity only; the add-time snapshot is kept
		l.items[idx].Quantity = newQuantity

		if err := l.persist(ctx); err != nil {
			l.items[idx].Quantity = newQuantity - params.Quantity
			return domain.AddResult{}, err
		}

		l.notify()
		return domain.AddResult{
			Success: true,
			Message: fmt.Sprintf("%q added to cart with quantity is %d.", params.Title, newQuantity),
		}, nil
	}

	if params.Quantity > domain.MaxQuantity {
		return domain.AddResult{
			Success: false,
			Message: fmt.Sprintf("Cannot add %d items. Max quantity is %d for %q.", params.Quantity, domain.MaxQuantity, params.Title),
		}, nil
	}

	l.items = append(l.items, domain.CartItem{
		BookID:         params.BookID,
		Quantity:       params.Quantity,
		FinalPrice:     params.FinalPrice,
		BasePrice:      params.BasePrice,
		BookTitle:      params.Title,
		BookCoverPhoto: params.CoverPhoto,
		BookAuthor:     params.Author,
	})

	if err := l.persist(ctx); err != nil {
		l.items = l.items[:len(l.items)-1]
		return domain.AddResult{}, err
	}

	l.notify()
	return domain.AddResult{
		Success: true,
		Message: fmt.Sprintf("%q added to cart with quantity is %d.", params.Title, params.Quantity),
	}, nil
}

// UpdateQuantity sets a line's quantity; zero removes the line.
// No cap check here: the bounded quantity selector owns the 1..8 range,
// unlike Add which merges unbounded increments.
func (l *Ledger) UpdateQuantity(ctx context.Context, bookID, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(bookID)
	if idx < 0 {
		return nil
	}

	if quantity == 0 {
		l.items = slices.Delete(l.items, idx, idx+1)
	} else {
		l.items[idx].Quantity = quantity
	}

	if err := l.persist(ctx); err != nil {
		return err
	}

	l.notify()
	return nil
}

// Remove deletes a line if present
func (l *Ledger) Remove(ctx context.Context, bookID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(bookID)
	if idx < 0 {
		return nil
	}

	l.items = slices.Delete(l.items, idx, idx+1)

	if err := l.persist(ctx); err != nil {
		return err
	}

	l.notify()
	return nil
}

// Reconcile removes every line the backend rejected at checkout
func (l *Ledger) Reconcile(ctx context.Context, bookIDs []int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rejected := make(map[int]bool, len(bookIDs))
	for _, id := range bookIDs {
		rejected[id] = true
	}

	var removed []string
	kept := l.items[:0:0]
	for _, item := range l.items {
		if rejected[item.BookID] {
			removed = append(removed, item.BookTitle)
			continue
		}
		kept = append(kept, item)
	}

	if len(removed) == 0 {
		return nil, nil
	}

	l.items = kept
	if err := l.persist(ctx); err != nil {
		return nil, err
	}

	l.notify()
	return removed, nil
}

// Clear empties the cart and removes the persisted entry
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to clear persisted cart: %w", err)
	}

	l.items = nil
	l.notify()
	return nil
}

// Items returns a copy of the cart lines in insertion order
func (l *Ledger) Items() []domain.CartItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.items)
}

// ItemCount returns the sum of quantities across all lines
func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, item := range l.items {
		count += item.Quantity
	}
	return count
}

// Total returns the sum of quantity * final price across all lines
func (l *Ledger) Total() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := decimal.Zero
	for _, item := range l.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Subscribe registers fn to run after every successful mutation.
// The header badge and cart page listen here.
func (l *Ledger) Subscribe(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.subscribers = append(l.subscribers, fn)
}

// indexOf finds the line for bookID, -1 when absent. Caller holds the lock.
func (l *Ledger) indexOf(bookID int) int {
	return slices.IndexFunc(l.items, func(item domain.CartItem) bool {
		return item.BookID == bookID
	})
}

// persist writes the full cart to the store. Caller holds the lock.
func (l *Ledger) persist(ctx context.Context) error {
	data, err := json.Marshal(l.items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := l.store.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	return nil
}

// notify runs subscribers in registration order. Caller holds the lock.
func (l *Ledger) notify() {
	for _, fn := range l.subscribers {
		fn()
	}
}
