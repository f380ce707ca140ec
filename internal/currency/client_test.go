package currency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/backend"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateClient_Fetch(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		body           string
		expectError    bool
		expectFound    bool
		expectedRate   string
		expectedSymbol string
	}{
		{
			name:           "Rate and symbol",
			status:         http.StatusOK,
			body:           `{"tasaCambio": 40.5, "monedaLocal": "VES"}`,
			expectFound:    true,
			expectedRate:   "40.5",
			expectedSymbol: "VES",
		},
		{
			name:           "Missing symbol uses default",
			status:         http.StatusOK,
			body:           `{"tasaCambio": 38}`,
			expectFound:    true,
			expectedRate:   "38",
			expectedSymbol: "Bs.",
		},
		{
			name:           "Missing rate falls back to default",
			status:         http.StatusOK,
			body:           `{"monedaLocal": "VES"}`,
			expectFound:    false,
			expectedRate:   "36.50",
			expectedSymbol: "Bs.",
		},
		{
			name:           "Null rate falls back to default",
			status:         http.StatusOK,
			body:           `{"tasaCambio": null}`,
			expectFound:    false,
			expectedRate:   "36.50",
			expectedSymbol: "Bs.",
		},
		{
			name:        "Server error",
			status:      http.StatusBadGateway,
			body:        `{}`,
			expectError: true,
		},
		{
			name:        "Malformed payload",
			status:      http.StatusOK,
			body:        `<html>`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			logger := zerolog.Nop()
			client := NewRateClient(backend.NewClient(time.Second, logger), server.URL, logger)

			rate, found, err := client.Fetch(context.Background())

			if tt.expectError {
				require.Error(t, err)
				var fetchErr *model.FetchError
				require.True(t, errors.As(err, &fetchErr))
				assert.Equal(t, "rate", fetchErr.Source)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectFound, found)
			assert.True(t, rate.Rate.Equal(dec(tt.expectedRate)), "got %s", rate.Rate)
			assert.Equal(t, tt.expectedSymbol, rate.Symbol)
		})
	}
}
