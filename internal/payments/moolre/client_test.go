package moolre

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofiadjei/sleekline-backend/pkg/config"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	client, err := NewClient(config.MoolreConfig{
		Endpoint: endpoint,
		APIUser:  "merchant",
		APIKey:   "secret",
		Timeout:  5 * time.Second,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestInitiateSuccessReturnsRedirectURL(t *testing.T) {
	var received InitiationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "merchant", r.Header.Get("X-API-USER"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(InitiationResponse{Success: true, URL: "https://pay.example/x"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Initiate(context.Background(), InitiationRequest{
		OrderID:       "ORD-1700000000000-42",
		Amount:        decimal.NewFromInt(250),
		CustomerEmail: "ama@example.com",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "https://pay.example/x", resp.URL)
	assert.Equal(t, "ORD-1700000000000-42", received.OrderID)
	assert.True(t, received.Amount.Equal(decimal.NewFromInt(250)))
}

func TestInitiateDeclineIsNotATransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(InitiationResponse{Success: false, Message: "declined"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Initiate(context.Background(), InitiationRequest{OrderID: "ORD-1-1"})
	require.NoError(t, err)

	assert.False(t, resp.Success)
	assert.Equal(t, "declined", resp.Message)
}

func TestInitiateUnreachableProcessor(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	_, err := client.Initiate(context.Background(), InitiationRequest{OrderID: "ORD-1-1"})
	require.Error(t, err)
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient(config.MoolreConfig{}, nil)
	require.ErrorIs(t, err, errEndpointRequired)
}
