package service

import (
	"context"

	"storefront/internal/model"
)

// StorefrontService drives the storefront page. Commands update the view
// state and return the freshly rendered view.
type StorefrontService interface {
	// Start restores persisted state and performs the initial catalog and
	// rate fetches. It returns once both fetches have completed.
	Start(ctx context.Context)

	// Render returns the current view without side effects.
	Render() model.View

	// OnFilterChanged applies category, search or sort changes and returns to page 1.
	OnFilterChanged(change model.FilterChange) model.View

	// OnPageChanged moves to another page of the current result set.
	OnPageChanged(change model.PageChange) model.View

	// OnCartAction applies a cart command. The returned view carries a
	// notice when the action warrants one.
	OnCartAction(ctx context.Context, action model.CartAction) (model.View, error)

	// Reload refetches the catalog and returns to page 1.
	Reload(ctx context.Context) model.View

	// Checkout persists the cart and rate and returns the checkout redirect.
	Checkout(ctx context.Context) (*model.Handoff, error)

	// ResetStorage deletes persisted state and empties the cart.
	ResetStorage(ctx context.Context) model.View
}

// CatalogSource loads the product list from the backend.
type CatalogSource interface {
	Load(ctx context.Context) ([]model.Product, error)
}

// RateSource fetches the exchange rate from the backend. found is false
// when the backend did not provide a usable rate and the default was returned.
type RateSource interface {
	Fetch(ctx context.Context) (rate model.ExchangeRate, found bool, err error)
}
