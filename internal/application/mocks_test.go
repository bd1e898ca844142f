package application_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/domain/port/driven"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validCreds() model.Credentials {
	return model.Credentials{
		CustomerID:     "123-456-7890",
		DeveloperToken: "dev-token",
		ClientID:       "client-id",
		ClientSecret:   "client-secret",
		RefreshToken:   "refresh-token",
	}
}

// --- CredentialStore ---

type mockCredentialStore struct {
	mu        sync.Mutex
	creds     model.Credentials
	found     bool
	loadErr   error
	saveErr   error
	deleteErr error
	saves     int
	deletes   int
}

func (m *mockCredentialStore) Load(_ context.Context) (model.Credentials, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds, m.found, m.loadErr
}

func (m *mockCredentialStore) Save(_ context.Context, creds model.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.creds, m.found = creds, true
	return nil
}

func (m *mockCredentialStore) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.creds, m.found = model.Credentials{}, false
	return nil
}

func (m *mockCredentialStore) stored() (model.Credentials, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds, m.found
}

// --- SettingsStore ---

type mockSettingsStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMockSettingsStore() *mockSettingsStore {
	return &mockSettingsStore{values: make(map[string]string)}
}

func (m *mockSettingsStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *mockSettingsStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *mockSettingsStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// --- AdsBackend ---

type mockAdsBackend struct {
	mu            sync.Mutex
	result        model.ValidationResult
	validateErr   error
	rows          []model.CampaignRow
	campaignsErr  error
	validateCalls int
	campaignCalls int
	lastCustomer  string
	lastCreds     model.Credentials
}

func (m *mockAdsBackend) Validate(_ context.Context, creds model.Credentials) (model.ValidationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validateCalls++
	m.lastCreds = creds
	return m.result, m.validateErr
}

func (m *mockAdsBackend) Campaigns(_ context.Context, creds model.Credentials, customerID string) ([]model.CampaignRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.campaignCalls++
	m.lastCreds = creds
	m.lastCustomer = customerID
	return m.rows, m.campaignsErr
}

func (m *mockAdsBackend) OAuthURL(_ context.Context, clientID string) (string, error) {
	return "https://auth.example/?client_id=" + clientID, nil
}

func (m *mockAdsBackend) ExchangeCode(_ context.Context, _, _, _ string) (string, error) {
	return "refresh", nil
}

// --- AdsPlatform ---

type mockAdsPlatform struct {
	customer       *model.Customer
	customerErr    error
	clients        []model.Customer
	clientsErr     error
	rows           []model.CampaignRow
	rowsErr        error
	clientsCalls   int
	lastCustomerID string
}

func (m *mockAdsPlatform) GetCustomer(_ context.Context, customerID string) (*model.Customer, error) {
	m.lastCustomerID = customerID
	return m.customer, m.customerErr
}

func (m *mockAdsPlatform) ListCustomerClients(_ context.Context, _ string) ([]model.Customer, error) {
	m.clientsCalls++
	return m.clients, m.clientsErr
}

func (m *mockAdsPlatform) ListCampaignPerformance(_ context.Context, customerID string) ([]model.CampaignRow, error) {
	m.lastCustomerID = customerID
	return m.rows, m.rowsErr
}

type mockPlatformFactory struct {
	platform  *mockAdsPlatform
	lastCreds model.Credentials
}

func (f *mockPlatformFactory) ForCredentials(creds model.Credentials) driven.AdsPlatform {
	f.lastCreds = creds
	return f.platform
}

// --- OAuthProvider ---

type mockOAuthProvider struct {
	token    string
	err      error
	lastCode string
}

func (m *mockOAuthProvider) AuthURL(clientID string) string {
	return "https://accounts.example/auth?client_id=" + clientID
}

func (m *mockOAuthProvider) Exchange(_ context.Context, _, _, code string) (string, error) {
	m.lastCode = code
	return m.token, m.err
}
