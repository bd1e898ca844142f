package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/domain/port/driven"
)

// CampaignReporter fetches campaign performance from the advertising platform.
// It backs the /campaigns endpoint.
type CampaignReporter struct {
	platforms driven.AdsPlatformFactory
	logger    *slog.Logger
}

// NewCampaignReporter creates a CampaignReporter.
func NewCampaignReporter(platforms driven.AdsPlatformFactory, logger *slog.Logger) *CampaignReporter {
	return &CampaignReporter{platforms: platforms, logger: logger}
}

// Campaigns returns the non-removed campaigns of customerID over the last 30
// days, ordered by name. Requests are made with the credential's own customer
// id as the login customer, so manager credentials can read child accounts.
func (r *CampaignReporter) Campaigns(ctx context.Context, creds model.Credentials, customerID string) ([]model.CampaignRow, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	id, err := model.NormalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}

	rows, err := r.platforms.ForCredentials(creds.Normalized()).ListCampaignPerformance(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("campaigns for %s: %w", id, err)
	}

	r.logger.Debug("campaigns fetched", "customer_id", id, "rows", len(rows))
	if rows == nil {
		rows = []model.CampaignRow{}
	}
	return rows, nil
}
