package application

import (
	"context"
	"strings"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/domain/port/driven"
)

// OAuthService validates OAuth helper requests before handing them to the provider.
type OAuthService struct {
	provider driven.OAuthProvider
}

// NewOAuthService creates an OAuthService.
func NewOAuthService(provider driven.OAuthProvider) *OAuthService {
	return &OAuthService{provider: provider}
}

// AuthURL returns the consent URL for clientID.
func (s *OAuthService) AuthURL(clientID string) (string, error) {
	if strings.TrimSpace(clientID) == "" {
		return "", &model.FieldError{Field: "clientId", Err: model.ErrMissingField}
	}
	return s.provider.AuthURL(clientID), nil
}

// Exchange trades an authorization code for a refresh token.
func (s *OAuthService) Exchange(ctx context.Context, clientID, clientSecret, code string) (string, error) {
	for _, f := range []struct{ name, value string }{
		{"clientId", clientID},
		{"clientSecret", clientSecret},
		{"code", code},
	} {
		if strings.TrimSpace(f.value) == "" {
			return "", &model.FieldError{Field: f.name, Err: model.ErrMissingField}
		}
	}
	return s.provider.Exchange(ctx, clientID, clientSecret, strings.TrimSpace(code))
}
