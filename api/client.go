// Package api is the typed REST client for the AllDayDJ backend. It covers
// the boundary the session core touches - token issue and refresh - plus the
// tenancy listing consumed by the tenancy selection flow.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/steelegbr/alldaydj-sub000/internal/errors"
)

const defaultTimeout = 30 * time.Second

// Client is the API client for the AllDayDJ backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption modifies a Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client (primarily for testing).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, options ...ClientOption) *Client {
	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

// TokenPair is the response of the login endpoint.
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// Tenancy is a selectable multi-tenant partition.
type Tenancy struct {
	Name string `json:"name"`
}

// ErrorResponse is the backend's error body shape.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Login calls POST /api/token/ with the user's credentials and returns the
// issued token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	var pair TokenPair
	if err := c.post(ctx, "/api/token/", body, &pair, apperrors.ErrBadCredentials); err != nil {
		return nil, err
	}
	if pair.Refresh == "" || pair.Access == "" {
		return nil, fmt.Errorf("login response missing tokens")
	}
	return &pair, nil
}

// RefreshAccessToken calls POST /api/token/refresh/ and returns the new
// access token. The refresh token itself is not rotated by the backend.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{
		"refresh": refreshToken,
	}

	var response struct {
		Access string `json:"access"`
	}
	if err := c.post(ctx, "/api/token/refresh/", body, &response, apperrors.ErrRefreshRejected); err != nil {
		return "", err
	}
	if response.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}
	return response.Access, nil
}

// Tenancies calls GET /api/tenancy/ with the session's access token.
func (c *Client) Tenancies(ctx context.Context, accessToken string) ([]Tenancy, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tenancy/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp, apperrors.ErrNotAuthorised)
	}

	var tenancies []Tenancy
	if err := json.NewDecoder(resp.Body).Decode(&tenancies); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return tenancies, nil
}

// post sends a JSON body and decodes a JSON response into out. Non-success
// statuses decode the backend error body and wrap authErr so callers can
// match on the sentinel.
func (c *Client) post(ctx context.Context, path string, body any, out any, authErr error) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp, authErr)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages.
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses backend error responses. 4xx statuses wrap
// authErr; anything else reports the raw status.
func (c *Client) handleErrorResponse(resp *http.Response, authErr error) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Detail == "" {
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("%w: backend returned status %d", authErr, resp.StatusCode)
		}
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return fmt.Errorf("%w: %s", authErr, errResp.Detail)
	}
	return fmt.Errorf("backend error: %s", errResp.Detail)
}
