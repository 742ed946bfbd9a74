package services

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/lalushbella/p2prental-backend/internal/config"
)

// PaymentProxy forwards payment-account, verification and payout
// requests to the external payment service verbatim. No retry, no
// idempotency, no interpretation: the upstream status code and body
// are passed straight back to the caller.
type PaymentProxy struct {
	baseURL string
	client  *http.Client
}

// NewPaymentProxy creates a proxy from config.
func NewPaymentProxy(cfg *config.Config) *PaymentProxy {
	return &PaymentProxy{
		baseURL: cfg.PaymentAPIURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Forward relays one request to the payment service and returns the
// upstream status code and raw body. ErrUpstreamUnavailable covers
// transport failures only; upstream error statuses flow through.
func (p *PaymentProxy) Forward(method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, p.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, ErrUpstreamUnavailable
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, ErrUpstreamUnavailable
	}

	return resp.StatusCode, respBody, nil
}
