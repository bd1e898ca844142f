// Package backend implements the AdsBackend port as an HTTP client of the
// adspanel server API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AdsBackend = (*Client)(nil)

// maxBody bounds how much of a response body is read.
const maxBody = 8 << 20

// ErrUnexpectedResponse is returned when the server answers with a non-2xx
// status and no error message.
var ErrUnexpectedResponse = errors.New("unexpected response from server")

// Client talks to the server's /api/v1 endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Client for the server at baseURL. httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

type campaignsRequest struct {
	Credentials model.Credentials `json:"credentials"`
	CustomerID  string            `json:"customerId"`
}

type oauthURLRequest struct {
	ClientID string `json:"clientId"`
}

type oauthURLResponse struct {
	URL string `json:"url"`
}

type oauthExchangeRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	Code         string `json:"code"`
}

type oauthExchangeResponse struct {
	RefreshToken string `json:"refreshToken"`
}

// Validate posts creds to /validate. Below 500 the body is decoded whatever
// the status, since a rejected credential set is reported with 400 and a
// ValidationResult.
func (c *Client) Validate(ctx context.Context, creds model.Credentials) (model.ValidationResult, error) {
	status, body, err := c.post(ctx, "/api/v1/validate", creds)
	if err != nil {
		return model.ValidationResult{}, err
	}

	if status >= http.StatusInternalServerError {
		return model.ValidationResult{}, responseError(status, body)
	}

	var result model.ValidationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return model.ValidationResult{}, fmt.Errorf("%w: decode validation result (status %d): %w", model.ErrRemote, status, err)
	}
	return result, nil
}

// Campaigns posts to /campaigns and returns the rows.
func (c *Client) Campaigns(ctx context.Context, creds model.Credentials, customerID string) ([]model.CampaignRow, error) {
	status, body, err := c.post(ctx, "/api/v1/campaigns", campaignsRequest{Credentials: creds, CustomerID: customerID})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, responseError(status, body)
	}

	var rows []model.CampaignRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode campaigns: %w", model.ErrRemote, err)
	}
	return rows, nil
}

// OAuthURL posts to /oauth-url and returns the consent URL.
func (c *Client) OAuthURL(ctx context.Context, clientID string) (string, error) {
	status, body, err := c.post(ctx, "/api/v1/oauth-url", oauthURLRequest{ClientID: clientID})
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", responseError(status, body)
	}

	var resp oauthURLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode oauth url: %w", model.ErrRemote, err)
	}
	return resp.URL, nil
}

// ExchangeCode posts to /oauth-exchange and returns the refresh token.
func (c *Client) ExchangeCode(ctx context.Context, clientID, clientSecret, code string) (string, error) {
	req := oauthExchangeRequest{ClientID: clientID, ClientSecret: clientSecret, Code: code}
	status, body, err := c.post(ctx, "/api/v1/oauth-exchange", req)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", responseError(status, body)
	}

	var resp oauthExchangeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode token response: %w", model.ErrRemote, err)
	}
	return resp.RefreshToken, nil
}

// post sends payload as JSON and returns the status and body. Transport
// failures are reported as model.ErrConnectionFailed.
func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", model.ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response: %w", model.ErrConnectionFailed, err)
	}

	c.logger.Debug("backend request",
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
	)
	return resp.StatusCode, body, nil
}

// responseError builds an error from a non-2xx reply, wrapping the sentinel
// for the error code when the body carries one.
func responseError(status int, body []byte) error {
	var decoded struct {
		Error     string          `json:"error"`
		ErrorCode model.ErrorCode `json:"errorCode"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil || decoded.Error == "" {
		return fmt.Errorf("%w: status %d", ErrUnexpectedResponse, status)
	}

	sentinel := decoded.ErrorCode.Err()
	if sentinel == nil {
		if status == http.StatusBadRequest {
			sentinel = model.ErrMissingField
		} else {
			sentinel = model.ErrRemote
		}
	}
	return fmt.Errorf("%w: %s", sentinel, decoded.Error)
}
