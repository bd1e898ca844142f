package driven

import (
	"context"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
)

// AdsPlatform defines the driven port for the remote advertising API, bound to
// one credential set. Implementations map remote failures onto the model
// sentinel errors (ErrAuthentication, ErrAuthorization, ...).
type AdsPlatform interface {
	// GetCustomer returns the customer record for customerID, or nil when the
	// query returns no rows.
	GetCustomer(ctx context.Context, customerID string) (*model.Customer, error)

	// ListCustomerClients returns all non-cancelled accounts in the hierarchy
	// of a manager account, ordered by descriptive name ascending.
	ListCustomerClients(ctx context.Context, managerID string) ([]model.Customer, error)

	// ListCampaignPerformance returns non-removed campaigns of customerID with
	// metrics over the last 30 days, ordered by campaign name ascending.
	ListCampaignPerformance(ctx context.Context, customerID string) ([]model.CampaignRow, error)
}

// AdsPlatformFactory binds an AdsPlatform to a credential set. The backend is
// stateless, so a platform is built per request.
type AdsPlatformFactory interface {
	ForCredentials(creds model.Credentials) AdsPlatform
}
