// Package googleads implements the AdsPlatform port against the Google Ads
// REST API (googleAds:search with GAQL queries).
package googleads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/domain/port/driven"
	"github.com/ericfisherdev/adspanel/internal/metrics"
)

const (
	// DefaultBaseURL is the production Google Ads API host.
	DefaultBaseURL = "https://googleads.googleapis.com"
	// DefaultAPIVersion is the REST API version used when none is configured.
	DefaultAPIVersion = "v17"
	// AdwordsScope is the OAuth scope required by the Google Ads API.
	AdwordsScope = "https://www.googleapis.com/auth/adwords"
)

// maxErrorBody bounds how much of a failure body is read for classification.
const maxErrorBody = 64 << 10

// Compile-time interface satisfaction checks.
var (
	_ driven.AdsPlatform        = (*Client)(nil)
	_ driven.AdsPlatformFactory = (*Factory)(nil)
)

// Options configures the transport used for every credential set.
type Options struct {
	BaseURL    string
	APIVersion string
	// TokenURL overrides the Google OAuth token endpoint (tests).
	TokenURL   string
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// Factory builds a Client per credential set.
type Factory struct {
	opts Options
}

// NewFactory fills in defaults and returns a Factory.
func NewFactory(opts Options) *Factory {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.APIVersion == "" {
		opts.APIVersion = DefaultAPIVersion
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Factory{opts: opts}
}

// ForCredentials returns a Client authenticated with creds.
func (f *Factory) ForCredentials(creds model.Credentials) driven.AdsPlatform {
	return NewClient(creds, f.opts)
}

// OAuthConfig returns the OAuth client configuration for the Google Ads scope.
// redirectURL may be empty when only refreshing tokens.
func OAuthConfig(clientID, clientSecret, redirectURL, tokenURL string) *oauth2.Config {
	endpoint := google.Endpoint
	if tokenURL != "" {
		endpoint.TokenURL = tokenURL
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{AdwordsScope},
		Endpoint:     endpoint,
	}
}

// Client implements driven.AdsPlatform for one credential set. Access tokens
// are minted from the refresh token by the oauth2 transport and reused until
// they expire.
type Client struct {
	http            *http.Client
	baseURL         string
	apiVersion      string
	developerToken  string
	loginCustomerID string
	metrics         *metrics.Metrics
	logger          *slog.Logger
}

// NewClient builds a Client for creds. opts must have been defaulted by NewFactory
// or filled in by the caller.
func NewClient(creds model.Credentials, opts Options) *Client {
	base := opts.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}

	// Token refreshes use the base client but not any single request's context,
	// so a cancelled request does not poison the shared token source.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	cfg := OAuthConfig(creds.ClientID, creds.ClientSecret, "", opts.TokenURL)
	source := cfg.TokenSource(tokenCtx, &oauth2.Token{RefreshToken: creds.RefreshToken})

	httpClient := oauth2.NewClient(tokenCtx, source)
	httpClient.Timeout = base.Timeout

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		http:            httpClient,
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		apiVersion:      opts.APIVersion,
		developerToken:  creds.DeveloperToken,
		loginCustomerID: creds.Normalized().CustomerID,
		metrics:         opts.Metrics,
		logger:          logger,
	}
}

type searchRequest struct {
	Query     string `json:"query"`
	PageToken string `json:"pageToken,omitempty"`
}

type searchResponse[T any] struct {
	Results       []T    `json:"results"`
	NextPageToken string `json:"nextPageToken"`
}

// search runs query against customerID, following nextPageToken until the
// result set is exhausted.
func search[T any](ctx context.Context, c *Client, operation, customerID, query string) ([]T, error) {
	endpoint := fmt.Sprintf("%s/%s/customers/%s/googleAds:search", c.baseURL, c.apiVersion, customerID)

	var (
		rows      []T
		pageToken string
		pages     int
	)
	for {
		page, err := c.searchPage(ctx, endpoint, searchRequest{Query: query, PageToken: pageToken})
		if err != nil {
			c.metrics.RecordRemoteQuery(operation, err)
			return nil, fmt.Errorf("%s for customer %s (page %d): %w", operation, customerID, pages+1, err)
		}

		var decoded searchResponse[T]
		if err := json.Unmarshal(page, &decoded); err != nil {
			err = fmt.Errorf("%w: decode search response: %w", model.ErrRemote, err)
			c.metrics.RecordRemoteQuery(operation, err)
			return nil, err
		}

		rows = append(rows, decoded.Results...)
		pages++

		if decoded.NextPageToken == "" {
			break
		}
		pageToken = decoded.NextPageToken
	}

	c.metrics.RecordRemoteQuery(operation, nil)
	c.logger.Debug("google ads search",
		"operation", operation,
		"customer_id", customerID,
		"pages", pages,
		"rows", len(rows),
	)
	return rows, nil
}

func (c *Client) searchPage(ctx context.Context, endpoint string, body searchRequest) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", c.developerToken)
	if c.loginCustomerID != "" {
		req.Header.Set("login-customer-id", c.loginCustomerID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, parseAPIError(resp.StatusCode, resp.Header.Get("request-id"), data)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read search response: %w", model.ErrConnectionFailed, err)
	}
	return data, nil
}
