// Package api is the HTTP client for the companion backend. It implements
// the phone verification, registration and catalog ports.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/companion/internal/adapters/logging"
	"github.com/felixgeelhaar/companion/internal/domain/registration"
	"github.com/felixgeelhaar/companion/internal/ports"
	"github.com/felixgeelhaar/companion/internal/retry"
)

// Endpoint paths relative to the base URL.
const (
	PathSendCode       = "/api/auth/phone/send"
	PathConfirmCode    = "/api/auth/phone/verify"
	PathRegister       = "/api/companions/register"
	PathAreas          = "/api/catalog/areas"
	PathCertifications = "/api/catalog/certifications"
)

// HeaderRequestID correlates client logs with server logs.
const HeaderRequestID = "X-Request-ID"

// maxBodySize bounds how much of a response is read.
const maxBodySize = 1 << 20

// ClientConfig configures the HTTP client.
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// AccessToken is sent as a bearer token when set.
	AccessToken string
	// RetryOptions apply to idempotent GET requests only.
	RetryOptions []retry.Option
}

// DefaultClientConfig returns defaults for everything except BaseURL.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:   15 * time.Second,
		UserAgent: "companion-cli",
	}
}

// Client talks to the companion backend.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     ports.Logger
	newID      func() string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger logs every request at debug level.
func WithLogger(logger ports.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client.
func NewClient(config ClientConfig, opts ...ClientOption) *Client {
	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logging.NewNopLogger(),
		newID:      func() string { return uuid.New().String() },
	}
	c.config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendCode asks the backend to text a verification code to phone.
func (c *Client) SendCode(ctx context.Context, phone string) error {
	if !registration.ValidPhone(phone) {
		return fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}

	body := map[string]string{"phone": registration.NormalizePhone(phone)}
	if err := c.do(ctx, http.MethodPost, PathSendCode, body, nil); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}
	return nil
}

// ConfirmCode checks a verification code. A wrong code is (false, nil).
func (c *Client) ConfirmCode(ctx context.Context, phone, code string) (bool, error) {
	if !registration.ValidPhone(phone) {
		return false, fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	body := map[string]string{
		"phone": registration.NormalizePhone(phone),
		"code":  strings.TrimSpace(code),
	}

	var resp struct {
		Verified bool `json:"verified"`
	}
	if err := c.do(ctx, http.MethodPost, PathConfirmCode, body, &resp); err != nil {
		return false, fmt.Errorf("failed to confirm verification code: %w", err)
	}
	return resp.Verified, nil
}

// RegisterCompanion submits the registration payload. It is never retried.
func (c *Client) RegisterCompanion(ctx context.Context, payload ports.RegistrationPayload) error {
	if err := c.do(ctx, http.MethodPost, PathRegister, payload, nil); err != nil {
		return fmt.Errorf("failed to register companion: %w", err)
	}
	return nil
}

// ServiceAreas fetches the service area list.
func (c *Client) ServiceAreas(ctx context.Context) ([]ports.CatalogEntry, error) {
	return c.fetchCatalog(ctx, PathAreas)
}

// Certifications fetches the certification list.
func (c *Client) Certifications(ctx context.Context) ([]ports.CatalogEntry, error) {
	return c.fetchCatalog(ctx, PathCertifications)
}

type catalogResponse struct {
	Items []struct {
		Code   string `json:"code"`
		Label  string `json:"label"`
		Region string `json:"region,omitempty"`
	} `json:"items"`
}

func (c *Client) fetchCatalog(ctx context.Context, path string) ([]ports.CatalogEntry, error) {
	var resp catalogResponse
	err := retry.Do(ctx, func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, path, nil, &resp)
	}, append([]retry.Option{retry.WithRetryIf(Transient)}, c.config.RetryOptions...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	entries := make([]ports.CatalogEntry, 0, len(resp.Items))
	for _, item := range resp.Items {
		entries = append(entries, ports.CatalogEntry{Code: item.Code, Label: item.Label, Region: item.Region})
	}
	return entries, nil
}

// do sends one JSON request and decodes a 2xx JSON response into out when
// out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", ErrUnexpected, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: request creation failed", ErrNetworkError)
	}

	requestID := c.newID()
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	}

	logCtx := context.WithValue(ctx, logging.RequestIDKey{}, requestID)
	start := time.Now()
	c.logger.Debug(logCtx, "api request", ports.F("method", method), ports.F("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug(logCtx, "api request failed", ports.Err(err))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s %s", ErrNetworkError, method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response", ErrNetworkError)
	}

	c.logger.Debug(logCtx, "api response",
		ports.F("status", resp.StatusCode),
		ports.F("duration", time.Since(start).String()),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, data, requestID)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnexpected, err)
	}
	return nil
}

var (
	_ ports.PhoneVerifier = (*Client)(nil)
	_ ports.Registrar     = (*Client)(nil)
	_ ports.CatalogSource = (*Client)(nil)
)
