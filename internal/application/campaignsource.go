package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/domain/port/driven"
)

// CampaignSource provides campaign performance rows for an account.
type CampaignSource interface {
	Campaigns(ctx context.Context, accountID string) ([]model.CampaignRow, error)
}

// CampaignClient fetches campaigns through the backend using the held
// credentials.
type CampaignClient struct {
	cache   *CredentialCache
	backend driven.AdsBackend
}

// NewCampaignClient creates a CampaignClient.
func NewCampaignClient(cache *CredentialCache, backend driven.AdsBackend) *CampaignClient {
	return &CampaignClient{cache: cache, backend: backend}
}

// Campaigns returns the rows for accountID, defaulting to the credential's own
// customer id when accountID is empty. Without held credentials it fails with
// model.ErrNotAuthenticated before any network call. Every other failure
// wraps model.ErrFetchCampaigns.
func (c *CampaignClient) Campaigns(ctx context.Context, accountID string) ([]model.CampaignRow, error) {
	creds, ok := c.cache.Get()
	if !ok {
		return nil, model.ErrNotAuthenticated
	}
	if accountID == "" {
		accountID = creds.CustomerID
	}

	rows, err := c.backend.Campaigns(ctx, creds, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrFetchCampaigns, err)
	}
	return rows, nil
}

// StubCampaignSource serves fixed placeholder rows. It is used for demos and
// needs no credentials.
type StubCampaignSource struct{}

// Campaigns ignores accountID and returns a fresh copy of the placeholder rows.
func (StubCampaignSource) Campaigns(_ context.Context, _ string) ([]model.CampaignRow, error) {
	rows := make([]model.CampaignRow, len(stubCampaigns))
	copy(rows, stubCampaigns)
	return rows, nil
}

var stubCampaigns = []model.CampaignRow{
	{ID: "1", Name: "Professional Consulting - Lead Gen", Status: "enabled", Type: "SEARCH",
		Impressions: 12450, Clicks: 423, Cost: 142.5, Conversions: 23, CTR: 3.4, CPC: 0.34},
	{ID: "2", Name: "E-commerce Summer Sale", Status: "paused", Type: "SHOPPING",
		Impressions: 34200, Clicks: 1240, Cost: 287.6, Conversions: 45, CTR: 3.6, CPC: 0.23},
	{ID: "3", Name: "SaaS Free Trial Campaign", Status: "enabled", Type: "SEARCH",
		Impressions: 8900, Clicks: 365, Cost: 198.4, Conversions: 12, CTR: 4.1, CPC: 0.54},
	{ID: "4", Name: "Local Service - HVAC Repair", Status: "enabled", Type: "SEARCH",
		Impressions: 5670, Clicks: 108, Cost: 94.3, Conversions: 8, CTR: 1.9, CPC: 0.87},
	{ID: "5", Name: "Brand Awareness - Display", Status: "enabled", Type: "DISPLAY",
		Impressions: 45600, Clicks: 228, Cost: 76.2, Conversions: 3, CTR: 0.5, CPC: 0.33},
}
