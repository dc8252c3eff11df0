// internal/domain/cart/store.go
package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/shopvn/storefront/internal/pkg/metrics"
)

// ErrItemNotFound is returned when an id does not name a cart line
var ErrItemNotFound = errors.New("item not found in cart")

// IDGenerator builds the id of a new line
type IDGenerator func(productID uint, variantID *uint, at time.Time) string

// NewItemID combines the line identity and creation time with a random
// suffix, since two adds can share a timestamp.
func NewItemID(productID uint, variantID *uint, at time.Time) string {
	variant := "none"
	if variantID != nil {
		variant = fmt.Sprintf("%d", *variantID)
	}
	return fmt.Sprintf("%d-%s-%d-%s", productID, variant, at.UnixNano(), uuid.NewString()[:8])
}

// Store owns the lines of one cart. Every mutation rewrites the whole
// record to storage; write failures are logged and never returned.
type Store struct {
	mu      sync.Mutex
	items   []CartItem
	storage Storage
	key     string
	now     func() time.Time
	newID   IDGenerator
	logger  *logrus.Entry
	metrics *metrics.CartMetrics
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces NewItemID
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger used for persistence failures
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Store) { s.logger = logger.WithField("component", "cart") }
}

// WithMetrics records mutations and persistence failures
func WithMetrics(m *metrics.CartMetrics) Option {
	return func(s *Store) { s.metrics = m }
}

// Open rehydrates the cart stored under key. A record that cannot be
// decoded is logged and replaced by an empty cart; a failing storage
// read is returned.
func Open(ctx context.Context, storage Storage, key string, opts ...Option) (*Store, error) {
	s := &Store{
		items:   []CartItem{},
		storage: storage,
		key:     key,
		now:     time.Now,
		newID:   NewItemID,
		logger:  logrus.StandardLogger().WithField("component", "cart"),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := storage.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	items, err := decodeRecord(data)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Discarding unreadable cart record")
		items = []CartItem{}
	}
	s.items = items
	return s, nil
}

// decodeRecord reads a stored record. Any version, including none, is
// read as the current shape. A bare array predates the version tag.
func decodeRecord(data []byte) ([]CartItem, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []CartItem{}, nil
	}

	if data[0] == '[' {
		var items []CartItem
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return normalize(items), nil
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return normalize(record.Cart), nil
}

func normalize(items []CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		out = append(out, item)
	}
	return out
}

// AddToCart merges item into the cart. An existing line for the same
// product and variant gains quantity and takes the incoming price
// snapshot; otherwise a new line is created. quantity below 1 adds one.
func (s *Store) AddToCart(ctx context.Context, item CartItem, quantity int) CartItem {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var line CartItem
	found := false
	for i := range s.items {
		if s.items[i].Matches(item.ProductID, item.VariantID) {
			s.items[i].Quantity += quantity
			s.items[i].Price = item.Price
			s.items[i].OriginalPrice = item.OriginalPrice
			s.items[i].DiscountPercent = item.DiscountPercent
			line = s.items[i]
			found = true
			break
		}
	}

	if !found {
		item.ID = s.newID(item.ProductID, item.VariantID, s.now())
		item.Quantity = quantity
		s.items = append(s.items, item)
		line = item
	}

	s.persist(ctx, "add")
	return line
}

// RemoveFromCart deletes the line with id. Unknown ids are a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(id)
	s.persist(ctx, "remove")
}

func (s *Store) remove(id string) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.remove(id)
		s.persist(ctx, "remove")
		return nil
	}

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			s.persist(ctx, "update")
			return nil
		}
	}
	return ErrItemNotFound
}

// ClearCart removes every line
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []CartItem{}
	s.persist(ctx, "clear")
}

// Items returns a copy of the lines in insertion order
func (s *Store) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total is the sum of price times quantity
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Count is the sum of quantities, not the number of lines
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// IsInCart reports whether a line exists for the product and variant
func (s *Store) IsInCart(productID uint, variantID *uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.Matches(productID, variantID) {
			return true
		}
	}
	return false
}

// Summary derives totals from the lines as they are now
func (s *Store) Summary() Summary {
	return Summarize(s.Items())
}

// persist writes the whole cart. Callers hold s.mu.
func (s *Store) persist(ctx context.Context, op string) {
	s.metrics.IncMutation(op)

	data, err := json.Marshal(Record{Version: CurrentVersion, Cart: s.items})
	if err == nil {
		err = s.storage.Save(ctx, s.key, data)
	}
	if err != nil {
		s.metrics.IncPersistFailure()
		s.logger.WithError(err).WithFields(logrus.Fields{
			"key": s.key,
			"op":  op,
		}).Error("Failed to persist cart")
	}
}
