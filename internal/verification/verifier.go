package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kofiadjei/sleekline-backend/pkg/config"
	"github.com/kofiadjei/sleekline-backend/pkg/logger"
)

// Verifier is the opaque pass/fail human-check oracle gating checkout and
// contact submissions.
type Verifier interface {
	Verify(ctx context.Context, token, action string) (bool, error)
}

type siteVerifyResponse struct {
	Success bool     `json:"success"`
	Score   float64  `json:"score"`
	Action  string   `json:"action"`
	Errors  []string `json:"error-codes,omitempty"`
}

type verifier struct {
	endpoint string
	secret   string
	minScore float64
	bypass   bool
	http     *http.Client
	logg     *logger.Logger
}

// New builds the HTTP verifier. With Bypass set (dev only) every token passes.
func New(cfg config.VerificationConfig, logg *logger.Logger) *verifier {
	return &verifier{
		endpoint: strings.TrimSpace(cfg.Endpoint),
		secret:   cfg.Secret,
		minScore: cfg.MinScore,
		bypass:   cfg.Bypass,
		http:     &http.Client{Timeout: cfg.Timeout},
		logg:     logg,
	}
}

// Verify posts the token to the provider and applies the score threshold and
// action match. A transport failure is an error; a clean "no" is (false, nil).
func (v *verifier) Verify(ctx context.Context, token, action string) (bool, error) {
	if v.bypass {
		return true, nil
	}
	if v.endpoint == "" {
		return false, fmt.Errorf("verification endpoint not configured")
	}
	if strings.TrimSpace(token) == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("call verification provider: %w", err)
	}
	defer resp.Body.Close()

	var out siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode verification response: %w", err)
	}

	passed := out.Success && out.Score >= v.minScore
	if passed && action != "" && out.Action != "" && out.Action != action {
		passed = false
	}

	if v.logg != nil {
		ctx = v.logg.WithFields(ctx, map[string]any{
			"action": action,
			"score":  out.Score,
			"passed": passed,
		})
		v.logg.Info(ctx, "verification.checked")
	}

	return passed, nil
}
