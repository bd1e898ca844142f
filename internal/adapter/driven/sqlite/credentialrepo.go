package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of the CredentialStore port.
// The record is stored as JSON under model.CredentialStorageKey. With a key it
// is sealed with AES-256-GCM; without one it is stored as plaintext.
type CredentialRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key; nil stores plaintext.
}

// NewCredentialRepo creates a new CredentialRepo. key must be nil or 32 bytes.
func NewCredentialRepo(db *DB, key []byte) (*CredentialRepo, error) {
	if key != nil && len(key) != 32 {
		return nil, driven.ErrInvalidEncryptionKey
	}
	return &CredentialRepo{db: db, key: key}, nil
}

// Encrypted reports whether records written by this repo are encrypted.
func (r *CredentialRepo) Encrypted() bool {
	return r.key != nil
}

// Load returns the stored credential record.
func (r *CredentialRepo) Load(ctx context.Context) (model.Credentials, bool, error) {
	const query = `SELECT value, encrypted FROM credentials WHERE storage_key = ?`

	var (
		stored    string
		encrypted bool
	)
	err := r.db.Reader.QueryRowContext(ctx, query, model.CredentialStorageKey).Scan(&stored, &encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Credentials{}, false, nil
	}
	if err != nil {
		return model.Credentials{}, false, fmt.Errorf("load credentials: %w", err)
	}

	payload := stored
	if encrypted {
		payload, err = r.decrypt(stored)
		if err != nil {
			return model.Credentials{}, false, fmt.Errorf("decrypt credentials: %w", err)
		}
	}

	var creds model.Credentials
	if err := json.Unmarshal([]byte(payload), &creds); err != nil {
		return model.Credentials{}, false, fmt.Errorf("decode credentials: %w", err)
	}
	return creds, true, nil
}

// Save overwrites the stored credential record.
func (r *CredentialRepo) Save(ctx context.Context, creds model.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	value := string(data)
	encrypted := 0
	if r.key != nil {
		encrypted = 1
		value, err = r.encrypt(value)
		if err != nil {
			return err
		}
	}

	const query = `INSERT OR REPLACE INTO credentials (storage_key, value, encrypted, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`
	if _, err := r.db.Writer.ExecContext(ctx, query, model.CredentialStorageKey, value, encrypted); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Delete removes the stored credential record.
func (r *CredentialRepo) Delete(ctx context.Context) error {
	const query = `DELETE FROM credentials WHERE storage_key = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, model.CredentialStorageKey); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

// encrypt seals plaintext with AES-256-GCM and returns base64(nonce || ciphertext || tag).
func (r *CredentialRepo) encrypt(plaintext string) (string, error) {
	gcm, err := r.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (r *CredentialRepo) decrypt(encoded string) (string, error) {
	if r.key == nil {
		return "", driven.ErrEncryptionKeyNotSet
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := r.aead()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}
	return string(plaintext), nil
}

func (r *CredentialRepo) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(r.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
