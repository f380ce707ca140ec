package model

import "github.com/shopspring/decimal"

// Product represents an item in the storefront catalogue.
// Prices are expressed in the base currency.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Category    string          `json:"categoria"`
	Price       decimal.Decimal `json:"precio"`
	ImageRef    string          `json:"imagen"`
	Available   *bool           `json:"disponible,omitempty"`
}

// IsAvailable reports whether the product can be shown.
// An unset availability flag counts as available.
func (p Product) IsAvailable() bool {
	return p.Available == nil || *p.Available
}
