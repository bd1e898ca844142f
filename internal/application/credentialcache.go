package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/domain/port/driven"
)

// CredentialCache is the process-wide holder of the single credential set.
// Reads are served from memory; writes go through to the durable store first.
type CredentialCache struct {
	store driven.CredentialStore

	mu      sync.RWMutex
	creds   model.Credentials
	present bool
}

// NewCredentialCache creates an empty CredentialCache. Call Load to read the
// durable copy.
func NewCredentialCache(store driven.CredentialStore) *CredentialCache {
	return &CredentialCache{store: store}
}

// Load reads the durable record into memory. A missing record leaves the
// cache empty and is not an error.
func (c *CredentialCache) Load(ctx context.Context) error {
	creds, found, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds, c.present = creds, found
	return nil
}

// Get returns the held credentials and whether any are held.
func (c *CredentialCache) Get() (model.Credentials, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds, c.present
}

// IsPresent reports whether credentials are held. It does not check validity.
func (c *CredentialCache) IsPresent() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.present
}

// Set persists creds, overwriting any previous record, then updates memory.
func (c *CredentialCache) Set(ctx context.Context, creds model.Credentials) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Save(ctx, creds); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	c.creds, c.present = creds, true
	return nil
}

// Clear forgets the in-memory copy and deletes the durable record. Memory is
// cleared even when the delete fails.
func (c *CredentialCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.creds, c.present = model.Credentials{}, false
	if err := c.store.Delete(ctx); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}
