package currency

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// BaseMarker prefixes amounts in the base currency.
const BaseMarker = "$"

// Converter converts and formats base-currency amounts using an owned
// exchange rate. The rate starts at the default and is replaced by the
// restore path and the rate-fetch path.
type Converter struct {
	mu       sync.RWMutex
	rate     model.ExchangeRate
	store    storage.Store
	onChange func(model.ExchangeRate)
	logger   zerolog.Logger
}

// NewConverter creates a converter initialised with the default rate.
func NewConverter(store storage.Store, logger zerolog.Logger) *Converter {
	return &Converter{
		rate:   model.DefaultExchangeRate(),
		store:  store,
		logger: logger.With().Str("component", "currency-converter").Logger(),
	}
}

// OnChange registers fn to be called after every accepted rate update.
// It is how the banner gets refreshed.
func (c *Converter) OnChange(fn func(model.ExchangeRate)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Snapshot returns the current rate configuration.
func (c *Converter) Snapshot() model.ExchangeRate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rate
}

// ToLocal converts amountBase into the local currency.
func (c *Converter) ToLocal(amountBase decimal.Decimal) decimal.Decimal {
	return amountBase.Mul(c.Snapshot().Rate)
}

// FormatBase renders amount with two decimals and the base marker.
func (c *Converter) FormatBase(amount decimal.Decimal) string {
	return FormatBase(amount)
}

// FormatLocal renders amount with two decimals and the local symbol.
// The zero Decimal renders as 0.00.
func (c *Converter) FormatLocal(amount decimal.Decimal) string {
	return FormatLocal(c.Snapshot().Symbol, amount)
}

// Banner describes the current rate, e.g. "Bs. 36.50 per $1".
func (c *Converter) Banner() string {
	r := c.Snapshot()
	return fmt.Sprintf("%s %s per %s1", r.Symbol, r.Rate.StringFixed(2), BaseMarker)
}

// UpdateRate replaces the rate and symbol, persists them and notifies the
// change hook. A non-positive rate is rejected and the previous values are
// kept. An empty symbol selects the default symbol.
func (c *Converter) UpdateRate(ctx context.Context, rate decimal.Decimal, symbol string) bool {
	if !rate.IsPositive() {
		c.logger.Warn().
			Str("rate", rate.String()).
			Msg("ignoring non-positive exchange rate")
		return false
	}
	if symbol == "" {
		symbol = model.DefaultSymbol
	}

	next := model.ExchangeRate{Rate: rate, Symbol: symbol}

	c.mu.Lock()
	c.rate = next
	hook := c.onChange
	c.mu.Unlock()

	if err := storage.SaveJSON(ctx, c.store, storage.RateKey, next); err != nil {
		c.logger.Error().Err(err).Msg("failed to persist exchange rate")
	}

	if hook != nil {
		hook(next)
	}

	c.logger.Info().
		Str("rate", next.Rate.String()).
		Str("symbol", next.Symbol).
		Msg("exchange rate updated")

	return true
}

// Restore loads the persisted rate, if any. It reports whether a persisted
// value was applied. A stored rate that is not positive is replaced by the
// default rate.
func (c *Converter) Restore(ctx context.Context) bool {
	var stored model.ExchangeRate
	found, err := storage.LoadJSON(ctx, c.store, storage.RateKey, &stored)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to restore exchange rate, keeping default")
		return false
	}
	if !found {
		return false
	}

	if !stored.Rate.IsPositive() {
		stored.Rate = model.DefaultRate
	}
	if stored.Symbol == "" {
		stored.Symbol = model.DefaultSymbol
	}

	c.mu.Lock()
	c.rate = stored
	hook := c.onChange
	c.mu.Unlock()

	if hook != nil {
		hook(stored)
	}

	c.logger.Info().
		Str("rate", stored.Rate.String()).
		Str("symbol", stored.Symbol).
		Msg("exchange rate restored from storage")

	return true
}

// Persist writes the current rate to storage.
func (c *Converter) Persist(ctx context.Context) error {
	return storage.SaveJSON(ctx, c.store, storage.RateKey, c.Snapshot())
}

// FormatBase renders amount as "$12.50".
func FormatBase(amount decimal.Decimal) string {
	return BaseMarker + amount.StringFixed(2)
}

// FormatLocal renders amount as "<symbol> 12.50".
func FormatLocal(symbol string, amount decimal.Decimal) string {
	return symbol + " " + amount.StringFixed(2)
}
