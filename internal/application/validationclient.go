package application

import (
	"context"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/domain/port/driven"
)

// CredentialValidator checks a credential set and returns the accounts it can
// reach.
type CredentialValidator interface {
	Validate(ctx context.Context, creds model.Credentials) (model.ValidationResult, error)
}

// ValidationClient validates credentials through the backend. It never reads
// or writes the credential store.
type ValidationClient struct {
	backend driven.AdsBackend
}

// NewValidationClient creates a ValidationClient.
func NewValidationClient(backend driven.AdsBackend) *ValidationClient {
	return &ValidationClient{backend: backend}
}

// Validate returns an error only for pre-flight failures (model.ErrMissingField,
// model.ErrInvalidField) and transport failures (model.ErrConnectionFailed).
// Credential problems reported by the backend come back as a result with
// IsValid=false.
func (v *ValidationClient) Validate(ctx context.Context, creds model.Credentials) (model.ValidationResult, error) {
	if err := creds.Validate(); err != nil {
		return model.ValidationResult{}, err
	}

	result, err := v.backend.Validate(ctx, creds.Normalized())
	if err != nil {
		return model.ValidationResult{}, err
	}

	if result.IsValid && len(result.Accounts) == 0 {
		return model.ValidationResult{
			Error:     msgCustomerMissing,
			ErrorCode: model.CodeCustomerNotFound,
		}, nil
	}
	return result, nil
}
