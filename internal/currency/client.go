package currency

import (
	"context"

	"storefront/internal/backend"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// rateResponse is the rate endpoint payload.
type rateResponse struct {
	Rate   *decimal.Decimal `json:"tasaCambio"`
	Symbol string           `json:"monedaLocal"`
}

// RateClient fetches the live exchange rate from the backend.
type RateClient struct {
	backend *backend.Client
	url     string
	logger  zerolog.Logger
}

// NewRateClient creates a client for the rate endpoint at url.
func NewRateClient(client *backend.Client, url string, logger zerolog.Logger) *RateClient {
	return &RateClient{
		backend: client,
		url:     url,
		logger:  logger.With().Str("component", "rate-client").Logger(),
	}
}

// Fetch returns the backend's exchange rate. When the payload carries no
// rate, the default configuration is returned with found == false and no
// error. Network and decode failures are returned as *model.FetchError.
func (c *RateClient) Fetch(ctx context.Context) (model.ExchangeRate, bool, error) {
	var resp rateResponse
	if err := c.backend.GetJSON(ctx, c.url, &resp); err != nil {
		c.logger.Error().Err(err).Msg("failed to fetch exchange rate")
		return model.ExchangeRate{}, false, &model.FetchError{Source: "rate", Err: err}
	}

	if resp.Rate == nil || resp.Rate.IsZero() {
		c.logger.Warn().Msg("backend returned no exchange rate, using default")
		return model.DefaultExchangeRate(), false, nil
	}

	symbol := resp.Symbol
	if symbol == "" {
		symbol = model.DefaultSymbol
	}

	c.logger.Info().
		Str("rate", resp.Rate.String()).
		Str("symbol", symbol).
		Msg("exchange rate fetched from backend")

	return model.ExchangeRate{Rate: *resp.Rate, Symbol: symbol}, true, nil
}
