package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
)

// ErrInvalidEncryptionKey is returned when ADSPANEL_SECRET_KEY is set but is
// not a 32-byte key.
var ErrInvalidEncryptionKey = errors.New("invalid encryption key: ADSPANEL_SECRET_KEY must be 64 hex characters")

// CredentialStore defines the driven port for durable persistence of the
// single credential record. The adapter owns serialization and optional
// encryption; this interface works with plaintext domain values.
type CredentialStore interface {
	// Load returns the stored record. found is false when nothing is stored.
	Load(ctx context.Context) (creds model.Credentials, found bool, err error)

	// Save overwrites the stored record.
	Save(ctx context.Context, creds model.Credentials) error

	// Delete removes the stored record. Deleting when nothing is stored is not an error.
	Delete(ctx context.Context) error
}

// ErrEncryptionKeyNotSet is returned by Load when the stored record was
// written encrypted but the adapter has no key to read it.
var ErrEncryptionKeyNotSet = errors.New("stored credentials are encrypted: set ADSPANEL_SECRET_KEY")
