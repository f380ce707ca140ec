package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetJSON(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectError bool
		expected    map[string]int
	}{
		{
			name:     "Success",
			status:   http.StatusOK,
			body:     `{"a":1}`,
			expected: map[string]int{"a": 1},
		},
		{
			name:        "Server error",
			status:      http.StatusInternalServerError,
			body:        `{"a":1}`,
			expectError: true,
		},
		{
			name:        "Not found",
			status:      http.StatusNotFound,
			body:        ``,
			expectError: true,
		},
		{
			name:        "Malformed body",
			status:      http.StatusOK,
			body:        `{"a":`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(time.Second, zerolog.Nop())

			var got map[string]int
			err := client.GetJSON(context.Background(), server.URL, &got)

			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(time.Second, zerolog.Nop())

	var got map[string]any
	err := client.GetJSON(context.Background(), url, &got)
	assert.Error(t, err)
}
