package model

import "github.com/shopspring/decimal"

// Default exchange rate settings used until a persisted or fetched rate is known.
const (
	DefaultSymbol = "Bs."
)

// DefaultRate is the fallback base-to-local conversion factor.
var DefaultRate = decimal.RequireFromString("36.50")

// ExchangeRate converts base-currency amounts into the local display currency.
type ExchangeRate struct {
	Rate   decimal.Decimal `json:"tasaCambio"`
	Symbol string          `json:"monedaLocal"`
}

// DefaultExchangeRate returns the fallback rate configuration.
func DefaultExchangeRate() ExchangeRate {
	return ExchangeRate{Rate: DefaultRate, Symbol: DefaultSymbol}
}
