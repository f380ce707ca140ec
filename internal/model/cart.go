package model

import "github.com/shopspring/decimal"

// CartLine is a single entry in the shopping cart.
// Name and Price are snapshots taken when the line was first created.
type CartLine struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns Price * Quantity in the base currency.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartTotals holds the derived cart totals.
type CartTotals struct {
	TotalBase  decimal.Decimal `json:"totalBase"`
	TotalLocal decimal.Decimal `json:"totalLocal"`
	ItemCount  int             `json:"itemCount"`
}
