package cart

import (
	"context"
	"sync"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the units held by a single cart line.
const MaxLineQuantity = 999

// ProductLookup resolves catalog products by id.
type ProductLookup interface {
	Find(id int64) (model.Product, bool)
}

// LocalConverter converts base-currency totals to the local currency.
type LocalConverter interface {
	ToLocal(amountBase decimal.Decimal) decimal.Decimal
}

// Store holds the cart lines and mirrors every mutation to durable storage
// before returning.
type Store struct {
	mu       sync.Mutex
	lines    []model.CartLine
	products ProductLookup
	currency LocalConverter
	storage  storage.Store
	onChange func()
	logger   zerolog.Logger
}

// NewStore creates an empty cart.
func NewStore(products ProductLookup, currency LocalConverter, store storage.Store, logger zerolog.Logger) *Store {
	return &Store{
		lines:    []model.CartLine{},
		products: products,
		currency: currency,
		storage:  store,
		logger:   logger.With().Str("component", "cart-store").Logger(),
	}
}

// OnChange registers fn to run after every mutation.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Add puts quantity units of productID in the cart, up to MaxLineQuantity
// per line. An existing line keeps its original name and price snapshot.
// Unknown products and quantities below one are ignored. It reports whether
// the cart changed.
func (s *Store) Add(ctx context.Context, productID int64, quantity int) bool {
	if quantity < 1 {
		s.logger.Debug().Int64("product_id", productID).Int("quantity", quantity).Msg("ignoring non-positive quantity")
		return false
	}

	product, ok := s.products.Find(productID)
	if !ok {
		s.logger.Debug().Int64("product_id", productID).Msg("ignoring add of unknown product")
		return false
	}

	return s.mutate(ctx, func(lines []model.CartLine) ([]model.CartLine, bool) {
		if i := indexOf(lines, productID); i >= 0 {
			if lines[i].Quantity >= MaxLineQuantity {
				return lines, false
			}
			lines[i].Quantity = min(lines[i].Quantity+quantity, MaxLineQuantity)
			return lines, true
		}
		return append(lines, model.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  min(quantity, MaxLineQuantity),
		}), true
	})
}

// Increment adds one unit to an existing line below MaxLineQuantity.
func (s *Store) Increment(ctx context.Context, productID int64) bool {
	return s.mutate(ctx, func(lines []model.CartLine) ([]model.CartLine, bool) {
		i := indexOf(lines, productID)
		if i < 0 || lines[i].Quantity >= MaxLineQuantity {
			return lines, false
		}
		lines[i].Quantity++
		return lines, true
	})
}

// Decrement removes one unit. A line at quantity one is deleted.
func (s *Store) Decrement(ctx context.Context, productID int64) bool {
	return s.mutate(ctx, func(lines []model.CartLine) ([]model.CartLine, bool) {
		i := indexOf(lines, productID)
		if i < 0 {
			return lines, false
		}
		if lines[i].Quantity > 1 {
			lines[i].Quantity--
			return lines, true
		}
		return append(lines[:i], lines[i+1:]...), true
	})
}

// Remove deletes the line for productID.
func (s *Store) Remove(ctx context.Context, productID int64) bool {
	return s.mutate(ctx, func(lines []model.CartLine) ([]model.CartLine, bool) {
		i := indexOf(lines, productID)
		if i < 0 {
			return lines, false
		}
		return append(lines[:i], lines[i+1:]...), true
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) bool {
	return s.mutate(ctx, func(lines []model.CartLine) ([]model.CartLine, bool) {
		if len(lines) == 0 {
			return lines, false
		}
		return []model.CartLine{}, true
	})
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Totals sums the cart in both currencies.
func (s *Store) Totals() model.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := model.CartTotals{TotalBase: decimal.Zero}
	for _, l := range s.lines {
		totals.TotalBase = totals.TotalBase.Add(l.Subtotal())
		totals.ItemCount += l.Quantity
	}
	totals.TotalLocal = s.currency.ToLocal(totals.TotalBase)

	return totals
}

// Restore replaces the in-memory cart with the persisted one. Persisted
// lines with a non-positive quantity or a duplicate product are dropped and
// oversized quantities are capped.
func (s *Store) Restore(ctx context.Context) bool {
	var stored []model.CartLine
	found, err := storage.LoadJSON(ctx, s.storage, storage.CartKey, &stored)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to restore cart, starting empty")
		return false
	}
	if !found {
		return false
	}

	lines := make([]model.CartLine, 0, len(stored))
	for _, l := range stored {
		if l.Quantity < 1 || indexOf(lines, l.ProductID) >= 0 {
			s.logger.Warn().Int64("product_id", l.ProductID).Msg("dropping invalid persisted cart line")
			continue
		}
		l.Quantity = min(l.Quantity, MaxLineQuantity)
		lines = append(lines, l)
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()

	s.logger.Info().Int("lines", len(lines)).Msg("cart restored from storage")
	return true
}

// Persist writes the current cart to storage.
func (s *Store) Persist(ctx context.Context) error {
	return storage.SaveJSON(ctx, s.storage, storage.CartKey, s.Lines())
}

// mutate applies fn under the lock and, when it reports a change, persists
// the new lines before releasing the lock so storage order matches memory
// order. The change hook runs after the lock is released.
func (s *Store) mutate(ctx context.Context, fn func([]model.CartLine) ([]model.CartLine, bool)) bool {
	s.mu.Lock()
	lines, changed := fn(s.lines)
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.lines = lines

	if err := storage.SaveJSON(ctx, s.storage, storage.CartKey, lines); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist cart")
	}
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}

	return true
}

func indexOf(lines []model.CartLine, productID int64) int {
	for i, l := range lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
