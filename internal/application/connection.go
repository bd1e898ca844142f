package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/domain/port/driven"
)

// ConnectionState is a point-in-time copy of the connection fields.
type ConnectionState struct {
	IsConnected     bool                    `json:"isConnected" yaml:"isConnected"`
	IsLoading       bool                    `json:"isLoading" yaml:"isLoading"`
	Accounts        []model.Account         `json:"accounts" yaml:"accounts"`
	SelectedAccount string                  `json:"selectedAccount" yaml:"selectedAccount"`
	Status          *model.ValidationResult `json:"status,omitempty" yaml:"status,omitempty"`
}

// Connection is the single shared view of whether the held credentials are
// connected, which accounts they reach, and which account is selected.
//
// Each validation attempt takes a request token from a monotonically
// increasing counter. A result is applied only if its token is newer than the
// last applied one, so a slow response can never overwrite a newer state.
// Disconnect also advances the counter, which discards every attempt still in
// flight.
type Connection struct {
	cache     *CredentialCache
	validator CredentialValidator
	settings  driven.SettingsStore
	logger    *slog.Logger

	mu          sync.Mutex
	state       ConnectionState
	nextToken   uint64
	applied     uint64
	subscribers map[int]func(ConnectionState)
	nextSubID   int
}

// NewConnection creates a disconnected Connection. settings may be nil, in
// which case the selected account is not remembered between runs.
func NewConnection(cache *CredentialCache, validator CredentialValidator, settings driven.SettingsStore, logger *slog.Logger) *Connection {
	return &Connection{
		cache:       cache,
		validator:   validator,
		settings:    settings,
		logger:      logger,
		state:       ConnectionState{Accounts: []model.Account{}},
		subscribers: make(map[int]func(ConnectionState)),
	}
}

// Snapshot returns a copy of the current state.
func (c *Connection) Snapshot() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to be called with a snapshot after every state
// change. fn runs on the goroutine that made the change and must not block.
// The returned function removes the subscription.
func (c *Connection) Subscribe(fn func(ConnectionState)) (cancel func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// Init runs the start-up validation pass. IsLoading is true for its duration.
// Without held credentials nothing is validated.
func (c *Connection) Init(ctx context.Context) error {
	c.update(func(s *ConnectionState) { s.IsLoading = true })
	defer c.update(func(s *ConnectionState) { s.IsLoading = false })

	if !c.cache.IsPresent() {
		return nil
	}
	_, err := c.Refresh(ctx)
	return err
}

// Refresh revalidates the held credentials. Without held credentials the state
// is reset to disconnected. The returned error covers pre-flight and transport
// failures; a rejected credential set is reported in the result.
func (c *Connection) Refresh(ctx context.Context) (model.ValidationResult, error) {
	creds, ok := c.cache.Get()
	if !ok {
		token := c.beginAttempt()
		c.apply(token, func(s *ConnectionState) { resetState(s, nil) })
		return model.ValidationResult{}, model.ErrNotAuthenticated
	}
	return c.validate(ctx, creds, false)
}

// Connect validates creds and, when they are accepted, stores them and
// populates the state. Rejected credentials are not stored. An accepted result
// overtaken by a newer attempt or a disconnect is not stored either, and
// Connect reports it with model.ErrSuperseded.
func (c *Connection) Connect(ctx context.Context, creds model.Credentials) (model.ValidationResult, error) {
	return c.validate(ctx, creds, true)
}

// SetSelectedAccount selects id, which must be one of the current accounts.
func (c *Connection) SetSelectedAccount(ctx context.Context, id string) error {
	c.mu.Lock()
	known := slices.ContainsFunc(c.state.Accounts, func(a model.Account) bool { return a.ID == id })
	if !known {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", model.ErrUnknownAccount, id)
	}
	c.state.SelectedAccount = id
	c.rememberSelection(ctx, id)
	snap, subs := c.snapshotLocked(), c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, snap)
	return nil
}

// Disconnect removes the stored credentials and the remembered selection and
// resets every field. Validations still in flight are discarded.
func (c *Connection) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	c.nextToken++
	c.applied = c.nextToken
	resetState(&c.state, nil)

	err := c.cache.Clear(ctx)
	if c.settings != nil {
		if serr := c.settings.Delete(ctx, driven.SettingKeySelectedAccount); serr != nil {
			err = errors.Join(err, fmt.Errorf("forget selected account: %w", serr))
		}
	}
	snap, subs := c.snapshotLocked(), c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, snap)
	return err
}

func (c *Connection) validate(ctx context.Context, creds model.Credentials, persist bool) (model.ValidationResult, error) {
	token := c.beginAttempt()

	result, err := c.validator.Validate(ctx, creds)
	if err != nil {
		c.logger.Warn("credential validation failed", "error", err)
		failed := model.ValidationResult{Error: err.Error(), ErrorCode: model.CodeOf(err)}
		c.apply(token, func(s *ConnectionState) { resetState(s, &failed) })
		return model.ValidationResult{}, err
	}

	if !result.IsValid {
		c.apply(token, func(s *ConnectionState) { resetState(s, &result) })
		return result, nil
	}

	var persistErr error
	applied := c.apply(token, func(s *ConnectionState) {
		if persist {
			if persistErr = c.cache.Set(ctx, creds.Normalized()); persistErr != nil {
				return
			}
		}
		c.populate(ctx, s, result)
	})
	if persistErr != nil {
		return result, persistErr
	}
	if !applied {
		c.logger.Debug("discarded stale validation result", "token", token)
		if persist {
			return result, model.ErrSuperseded
		}
	}
	return result, nil
}

// populate fills s from a valid result. The previous selection is kept when it
// is still reachable, then the remembered one, then the first account.
func (c *Connection) populate(ctx context.Context, s *ConnectionState, result model.ValidationResult) {
	accounts := slices.Clone(result.Accounts)
	has := func(id string) bool {
		return id != "" && slices.ContainsFunc(accounts, func(a model.Account) bool { return a.ID == id })
	}

	selected := s.SelectedAccount
	if !has(selected) {
		selected = c.recallSelection(ctx)
	}
	if !has(selected) {
		selected = accounts[0].ID
	}

	s.IsConnected = true
	s.Accounts = accounts
	s.SelectedAccount = selected
	s.Status = &result
	c.rememberSelection(ctx, selected)
}

func (c *Connection) recallSelection(ctx context.Context) string {
	if c.settings == nil {
		return ""
	}
	id, err := c.settings.Get(ctx, driven.SettingKeySelectedAccount)
	if err != nil {
		c.logger.Warn("reading remembered account failed", "error", err)
		return ""
	}
	return id
}

func (c *Connection) rememberSelection(ctx context.Context, id string) {
	if c.settings == nil {
		return
	}
	if err := c.settings.Set(ctx, driven.SettingKeySelectedAccount, id); err != nil {
		c.logger.Warn("remembering selected account failed", "account", id, "error", err)
	}
}

func (c *Connection) beginAttempt() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextToken++
	return c.nextToken
}

// apply runs fn against the state if token is newer than the last applied
// attempt, then notifies subscribers. It reports whether fn ran.
func (c *Connection) apply(token uint64, fn func(*ConnectionState)) bool {
	c.mu.Lock()
	if token <= c.applied {
		c.mu.Unlock()
		return false
	}
	c.applied = token
	fn(&c.state)
	snap, subs := c.snapshotLocked(), c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, snap)
	return true
}

// update changes fields that are not tied to a validation attempt.
func (c *Connection) update(fn func(*ConnectionState)) {
	c.mu.Lock()
	fn(&c.state)
	snap, subs := c.snapshotLocked(), c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, snap)
}

func (c *Connection) snapshotLocked() ConnectionState {
	snap := c.state
	snap.Accounts = slices.Clone(c.state.Accounts)
	if snap.Accounts == nil {
		snap.Accounts = []model.Account{}
	}
	if c.state.Status != nil {
		status := *c.state.Status
		snap.Status = &status
	}
	return snap
}

func (c *Connection) subscribersLocked() []func(ConnectionState) {
	subs := make([]func(ConnectionState), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(ConnectionState), snap ConnectionState) {
	for _, fn := range subs {
		fn(snap)
	}
}

func resetState(s *ConnectionState, status *model.ValidationResult) {
	s.IsConnected = false
	s.Accounts = []model.Account{}
	s.SelectedAccount = ""
	s.Status = status
}
