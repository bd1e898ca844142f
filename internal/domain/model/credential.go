package model

import (
	"fmt"
	"strings"
)

// CredentialStorageKey is the well-known key under which the single
// credential record is persisted.
const CredentialStorageKey = "google-ads-credentials"

// Credentials holds the five values needed to call the advertising API on
// behalf of one customer. All values are opaque to this layer.
type Credentials struct {
	CustomerID     string `json:"customerId"`
	DeveloperToken string `json:"developerToken"`
	ClientID       string `json:"clientId"`
	ClientSecret   string `json:"clientSecret"`
	RefreshToken   string `json:"refreshToken"`
}

// Validate checks that every field is present and that the customer id is
// numeric once dashes are stripped. It performs no network access.
func (c Credentials) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"customerId", c.CustomerID},
		{"developerToken", c.DeveloperToken},
		{"clientId", c.ClientID},
		{"clientSecret", c.ClientSecret},
		{"refreshToken", c.RefreshToken},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &FieldError{Field: f.name, Err: ErrMissingField}
		}
	}

	if _, err := NormalizeCustomerID(c.CustomerID); err != nil {
		return err
	}
	return nil
}

// Normalized returns a copy with the customer id reduced to digits.
// Callers must run Validate first.
func (c Credentials) Normalized() Credentials {
	if id, err := NormalizeCustomerID(c.CustomerID); err == nil {
		c.CustomerID = id
	}
	return c
}

// NormalizeCustomerID strips the display dashes ("123-456-7890") from a
// customer id and rejects anything that is not all digits.
func NormalizeCustomerID(id string) (string, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(id), "-", "")
	if cleaned == "" {
		return "", &FieldError{Field: "customerId", Err: ErrMissingField}
	}
	for _, ch := range cleaned {
		if ch < '0' || ch > '9' {
			return "", &FieldError{Field: "customerId", Err: ErrInvalidField}
		}
	}
	return cleaned, nil
}

// FieldError reports which credential field failed pre-flight validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error { return e.Err }
