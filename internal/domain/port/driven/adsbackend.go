package driven

import (
	"context"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
)

// AdsBackend defines the driven port the client side uses to reach the
// backend endpoints. Transport failures are reported as model.ErrConnectionFailed.
type AdsBackend interface {
	// Validate posts the credential record and returns the backend's verdict.
	// A classified credential failure is a ValidationResult with IsValid=false,
	// not an error.
	Validate(ctx context.Context, creds model.Credentials) (model.ValidationResult, error)

	// Campaigns fetches normalized campaign rows for customerID.
	Campaigns(ctx context.Context, creds model.Credentials, customerID string) ([]model.CampaignRow, error)

	// OAuthURL returns the authorization URL for clientID.
	OAuthURL(ctx context.Context, clientID string) (string, error)

	// ExchangeCode trades an authorization code for a refresh token.
	ExchangeCode(ctx context.Context, clientID, clientSecret, code string) (string, error)
}
