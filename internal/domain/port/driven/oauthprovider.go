package driven

import "context"

// OAuthProvider defines the driven port for the advertising platform's OAuth
// authorization server.
type OAuthProvider interface {
	// AuthURL builds the consent URL for clientID requesting offline access.
	AuthURL(clientID string) string

	// Exchange trades an authorization code for a refresh token.
	Exchange(ctx context.Context, clientID, clientSecret, code string) (string, error)
}
