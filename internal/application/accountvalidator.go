package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/domain/port/driven"
)

// User-facing messages for each validation failure class.
const (
	msgCustomerMissing   = "Customer not found or access denied"
	msgNoClientAccounts  = "No accessible client accounts found under this manager account"
	msgAuthentication    = "Authentication failed. Please check your OAuth credentials."
	msgAuthorization     = "Authorization failed. Please verify your developer token and permissions."
	msgCustomerNotFound  = "Customer ID not found. Please verify the Customer ID is correct."
	msgTokenNotApproved  = "Developer token not approved. Please check your Google Ads API access."
	msgConnectionFailure = "Could not reach the Google Ads API. Please try again."
)

// AccountValidator checks credentials against the advertising platform and
// enumerates the accounts they can reach. It backs the /validate endpoint.
type AccountValidator struct {
	platforms driven.AdsPlatformFactory
	logger    *slog.Logger
}

// NewAccountValidator creates an AccountValidator.
func NewAccountValidator(platforms driven.AdsPlatformFactory, logger *slog.Logger) *AccountValidator {
	return &AccountValidator{platforms: platforms, logger: logger}
}

// Validate never returns an error: every failure is reported in the result
// with a user-facing message and its error code.
func (v *AccountValidator) Validate(ctx context.Context, creds model.Credentials) model.ValidationResult {
	if err := creds.Validate(); err != nil {
		return failure(err)
	}
	creds = creds.Normalized()

	platform := v.platforms.ForCredentials(creds)

	customer, err := platform.GetCustomer(ctx, creds.CustomerID)
	if err != nil {
		v.logger.Warn("credential validation failed", "customer_id", creds.CustomerID, "error", err)
		return failure(err)
	}
	if customer == nil {
		return model.ValidationResult{
			Error:     msgCustomerMissing,
			ErrorCode: model.CodeCustomerNotFound,
		}
	}

	if !customer.Manager {
		return model.ValidationResult{
			IsValid:  true,
			Accounts: []model.Account{standaloneAccount(*customer)},
		}
	}

	children, err := platform.ListCustomerClients(ctx, creds.CustomerID)
	if err != nil {
		v.logger.Warn("listing manager clients failed", "customer_id", creds.CustomerID, "error", err)
		return failure(err)
	}
	if len(children) == 0 {
		return model.ValidationResult{
			Error:     msgNoClientAccounts,
			ErrorCode: model.CodeCustomerNotFound,
		}
	}

	accounts := make([]model.Account, 0, len(children))
	for _, child := range children {
		accounts = append(accounts, clientAccount(child))
	}

	name := customer.DescriptiveName
	if name == "" {
		name = "Manager Account"
	}

	v.logger.Info("manager account validated", "customer_id", creds.CustomerID, "clients", len(accounts))
	return model.ValidationResult{
		IsValid:  true,
		Accounts: accounts,
		ManagerInfo: &model.ManagerInfo{
			ID:           customer.ID,
			Name:         name,
			TotalClients: len(accounts),
		},
	}
}

// failure maps an error onto the fixed message for its class. Unclassified
// remote errors pass their own message through.
func failure(err error) model.ValidationResult {
	code := model.CodeOf(err)

	var message string
	switch code {
	case model.CodeMissingField:
		var fieldErr *model.FieldError
		switch {
		case errors.As(err, &fieldErr) && errors.Is(err, model.ErrInvalidField):
			message = fmt.Sprintf("Invalid field: %s", fieldErr.Field)
		case fieldErr != nil:
			message = fmt.Sprintf("Missing required field: %s", fieldErr.Field)
		default:
			message = "Please fill in all required fields"
		}
	case model.CodeAuthentication:
		message = msgAuthentication
	case model.CodeAuthorization:
		message = msgAuthorization
	case model.CodeCustomerNotFound:
		message = msgCustomerNotFound
	case model.CodeDeveloperTokenNotApproved:
		message = msgTokenNotApproved
	case model.CodeConnectionFailed:
		message = msgConnectionFailure
	default:
		message = "API Error: " + err.Error()
	}

	return model.ValidationResult{Error: message, ErrorCode: code}
}

func standaloneAccount(c model.Customer) model.Account {
	name := c.DescriptiveName
	if name == "" {
		name = "Google Ads Account"
	}
	status := c.Status
	if status == "" {
		status = "ENABLED"
	}
	return model.Account{
		ID:              c.ID,
		Name:            name,
		DescriptiveName: name,
		CurrencyCode:    orDefault(c.CurrencyCode, "USD"),
		TimeZone:        orDefault(c.TimeZone, "UTC"),
		Type:            model.AccountTypeClient,
		Status:          status,
		Level:           0,
		Manager:         false,
	}
}

func clientAccount(c model.Customer) model.Account {
	name := c.DescriptiveName
	if name == "" {
		name = "Account " + c.ID
	}
	accountType := model.AccountTypeClient
	if c.Manager {
		accountType = model.AccountTypeManager
	}
	return model.Account{
		ID:              c.ID,
		Name:            name,
		DescriptiveName: name,
		CurrencyCode:    orDefault(c.CurrencyCode, "USD"),
		TimeZone:        orDefault(c.TimeZone, "UTC"),
		Type:            accountType,
		Status:          orDefault(c.Status, "UNKNOWN"),
		Level:           c.Level,
		Manager:         c.Manager,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
