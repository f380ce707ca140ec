package catalog

import (
	"context"
	"strings"

	"storefront/internal/backend"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// DefaultPlaceholder is used for products without an image.
const DefaultPlaceholder = "img/placeholder.jpg"

// Client loads the product catalog from the backend.
type Client struct {
	backend     *backend.Client
	url         string
	origin      string
	placeholder string
	logger      zerolog.Logger
}

// NewClient creates a catalog client. Root-relative image references are
// resolved against origin; missing ones become placeholder.
func NewClient(client *backend.Client, url, origin, placeholder string, logger zerolog.Logger) *Client {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Client{
		backend:     client,
		url:         url,
		origin:      strings.TrimSuffix(origin, "/"),
		placeholder: placeholder,
		logger:      logger.With().Str("component", "catalog-client").Logger(),
	}
}

// Load fetches every product. On failure it returns a *model.FetchError and
// no products.
func (c *Client) Load(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.backend.GetJSON(ctx, c.url, &products); err != nil {
		c.logger.Error().Err(err).Msg("failed to load products")
		return nil, &model.FetchError{Source: "catalog", Err: err}
	}

	for i := range products {
		products[i].ImageRef = c.normaliseImage(products[i].ImageRef)
	}

	c.logger.Info().Int("count", len(products)).Msg("products loaded from backend")

	return products, nil
}

func (c *Client) normaliseImage(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return c.placeholder
	case strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//"):
		return c.origin + ref
	default:
		return ref
	}
}
