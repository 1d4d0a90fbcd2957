package moolre

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kofiadjei/sleekline-backend/pkg/config"
	"github.com/kofiadjei/sleekline-backend/pkg/logger"
)

var errEndpointRequired = errors.New("moolre endpoint is required")

// InitiationRequest is the payload sent to the processor. OrderID carries the
// human order number, not the internal uuid.
type InitiationRequest struct {
	OrderID       string          `json:"orderId"`
	Amount        decimal.Decimal `json:"amount"`
	CustomerEmail string          `json:"customerEmail"`
}

// InitiationResponse mirrors the processor contract: success with a hosted
// redirect URL, or failure with a human-readable message.
type InitiationResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// Gateway requests hosted payment sessions. Initiation is idempotent by
// contract: it only opens a redirect session and never mutates order state.
type Gateway interface {
	Initiate(ctx context.Context, req InitiationRequest) (*InitiationResponse, error)
}

// Client talks to the Moolre mobile-money processor over HTTP.
type Client struct {
	endpoint    string
	apiUser     string
	apiKey      string
	accountID   string
	callbackURL string
	http        *http.Client
	logg        *logger.Logger
}

// NewClient validates the configuration and builds the adapter. The timeout
// lives on the transport; callers do not impose a pipeline-level deadline.
func NewClient(cfg config.MoolreConfig, logg *logger.Logger) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errEndpointRequired
	}

	return &Client{
		endpoint:    endpoint,
		apiUser:     strings.TrimSpace(cfg.APIUser),
		apiKey:      strings.TrimSpace(cfg.APIKey),
		accountID:   strings.TrimSpace(cfg.AccountID),
		callbackURL: strings.TrimSpace(cfg.CallbackURL),
		http:        &http.Client{Timeout: cfg.Timeout},
		logg:        logg,
	}, nil
}

// Initiate requests a hosted redirect URL for the order. A transport failure
// is an error; a well-formed decline comes back as Success=false with the
// processor's message and is the caller's decision to surface.
func (c *Client) Initiate(ctx context.Context, req InitiationRequest) (*InitiationResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal initiation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build initiation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiUser != "" {
		httpReq.Header.Set("X-API-USER", c.apiUser)
	}
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-KEY", c.apiKey)
	}
	if c.accountID != "" {
		httpReq.Header.Set("X-ACCOUNT-ID", c.accountID)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call payment processor: %w", err)
	}
	defer resp.Body.Close()

	var out InitiationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode processor response: %w", err)
	}

	if c.logg != nil {
		ctx = c.logg.WithFields(ctx, map[string]any{
			"order_id": req.OrderID,
			"success":  out.Success,
		})
		c.logg.Info(ctx, "payment.initiation")
	}

	return &out, nil
}
