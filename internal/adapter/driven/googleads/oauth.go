package googleads

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/domain/port/driven"
)

// OutOfBandRedirectURL makes the consent screen display the code for manual
// copy instead of redirecting.
const OutOfBandRedirectURL = "urn:ietf:wg:oauth:2.0:oob"

// Compile-time interface satisfaction check.
var _ driven.OAuthProvider = (*Authorizer)(nil)

// Authorizer implements driven.OAuthProvider against Google's OAuth endpoints.
type Authorizer struct {
	tokenURL   string
	httpClient *http.Client
}

// NewAuthorizer creates an Authorizer. tokenURL overrides the Google token
// endpoint when non-empty; httpClient may be nil.
func NewAuthorizer(tokenURL string, httpClient *http.Client) *Authorizer {
	return &Authorizer{tokenURL: tokenURL, httpClient: httpClient}
}

// AuthURL returns the consent URL for the Google Ads scope with offline
// access and forced consent, so a refresh token is issued every time.
func (a *Authorizer) AuthURL(clientID string) string {
	cfg := OAuthConfig(clientID, "", OutOfBandRedirectURL, a.tokenURL)
	return cfg.AuthCodeURL("", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades code for a token and returns its refresh token.
func (a *Authorizer) Exchange(ctx context.Context, clientID, clientSecret, code string) (string, error) {
	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}

	cfg := OAuthConfig(clientID, clientSecret, OutOfBandRedirectURL, a.tokenURL)
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", fmt.Errorf("%w: exchange code: %w", model.ErrAuthentication, err)
		}
		return "", fmt.Errorf("%w: exchange code: %w", model.ErrConnectionFailed, err)
	}
	if token.RefreshToken == "" {
		return "", fmt.Errorf("%w: token response carried no refresh token", model.ErrAuthentication)
	}
	return token.RefreshToken, nil
}
