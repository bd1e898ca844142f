package application_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/adspanel/internal/application"
	"github.com/ericfisherdev/adspanel/internal/domain/model"
)

func newValidator(platform *mockAdsPlatform) (*application.AccountValidator, *mockPlatformFactory) {
	factory := &mockPlatformFactory{platform: platform}
	return application.NewAccountValidator(factory, discardLogger()), factory
}

func TestAccountValidator_StandaloneAccount(t *testing.T) {
	platform := &mockAdsPlatform{
		customer: &model.Customer{ID: "1234567890", DescriptiveName: "Acme", CurrencyCode: "EUR", TimeZone: "Europe/Berlin"},
	}
	v, factory := newValidator(platform)

	result := v.Validate(context.Background(), validCreds())

	require.True(t, result.IsValid)
	require.Len(t, result.Accounts, 1)
	assert.Nil(t, result.ManagerInfo)
	assert.Zero(t, platform.clientsCalls, "standalone accounts must not list clients")
	assert.Equal(t, "1234567890", factory.lastCreds.CustomerID, "customer id is normalized before use")

	acct := result.Accounts[0]
	assert.Equal(t, "1234567890", acct.ID)
	assert.Equal(t, "Acme", acct.Name)
	assert.Equal(t, "EUR", acct.CurrencyCode)
	assert.Equal(t, "Europe/Berlin", acct.TimeZone)
	assert.Equal(t, model.AccountTypeClient, acct.Type)
	assert.Equal(t, "ENABLED", acct.Status)
	assert.False(t, acct.Manager)
	assert.Zero(t, acct.Level)
}

func TestAccountValidator_StandaloneDefaults(t *testing.T) {
	v, _ := newValidator(&mockAdsPlatform{customer: &model.Customer{ID: "42"}})

	result := v.Validate(context.Background(), validCreds())

	require.True(t, result.IsValid)
	acct := result.Accounts[0]
	assert.Equal(t, "Google Ads Account", acct.Name)
	assert.Equal(t, "USD", acct.CurrencyCode)
	assert.Equal(t, "UTC", acct.TimeZone)
}

func TestAccountValidator_ManagerAccount(t *testing.T) {
	platform := &mockAdsPlatform{
		customer: &model.Customer{ID: "1234567890", DescriptiveName: "Agency", Manager: true},
		clients: []model.Customer{
			{ID: "111", DescriptiveName: "Alpha", Status: "ENABLED", Level: 1},
			{ID: "222", Level: 1},
			{ID: "333", DescriptiveName: "Sub-manager", Manager: true, Level: 1, Status: "ENABLED"},
		},
	}
	v, _ := newValidator(platform)

	result := v.Validate(context.Background(), validCreds())

	require.True(t, result.IsValid)
	require.NotNil(t, result.ManagerInfo)
	assert.Equal(t, "1234567890", result.ManagerInfo.ID)
	assert.Equal(t, "Agency", result.ManagerInfo.Name)
	assert.Equal(t, len(result.Accounts), result.ManagerInfo.TotalClients)
	assert.Equal(t, []string{"111", "222", "333"}, result.AccountIDs())

	assert.Equal(t, "Account 222", result.Accounts[1].Name)
	assert.Equal(t, "UNKNOWN", result.Accounts[1].Status)
	assert.Equal(t, "USD", result.Accounts[1].CurrencyCode)
	assert.Equal(t, model.AccountTypeManager, result.Accounts[2].Type)
	assert.Equal(t, 1, result.Accounts[2].Level)
}

func TestAccountValidator_ManagerNameDefault(t *testing.T) {
	platform := &mockAdsPlatform{
		customer: &model.Customer{ID: "1", Manager: true},
		clients:  []model.Customer{{ID: "2"}},
	}
	v, _ := newValidator(platform)

	result := v.Validate(context.Background(), validCreds())

	require.True(t, result.IsValid)
	assert.Equal(t, "Manager Account", result.ManagerInfo.Name)
}

func TestAccountValidator_ManagerWithoutClients(t *testing.T) {
	platform := &mockAdsPlatform{customer: &model.Customer{ID: "1", Manager: true}}
	v, _ := newValidator(platform)

	result := v.Validate(context.Background(), validCreds())

	assert.False(t, result.IsValid)
	assert.Equal(t, model.CodeCustomerNotFound, result.ErrorCode)
	assert.Empty(t, result.Accounts)
}

func TestAccountValidator_NoCustomerRow(t *testing.T) {
	v, _ := newValidator(&mockAdsPlatform{})

	result := v.Validate(context.Background(), validCreds())

	assert.False(t, result.IsValid)
	assert.Equal(t, "Customer not found or access denied", result.Error)
	assert.Equal(t, model.CodeCustomerNotFound, result.ErrorCode)
}

func TestAccountValidator_MissingField(t *testing.T) {
	platform := &mockAdsPlatform{customer: &model.Customer{ID: "1"}}
	v, _ := newValidator(platform)

	creds := validCreds()
	creds.RefreshToken = ""
	result := v.Validate(context.Background(), creds)

	assert.False(t, result.IsValid)
	assert.Equal(t, model.CodeMissingField, result.ErrorCode)
	assert.Equal(t, "Missing required field: refreshToken", result.Error)
	assert.Empty(t, platform.lastCustomerID, "no remote call on pre-flight failure")
}

func TestAccountValidator_ClassifiesRemoteErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    model.ErrorCode
		message string
	}{
		{
			name:    "authentication",
			err:     fmt.Errorf("oauth: %w", model.ErrAuthentication),
			code:    model.CodeAuthentication,
			message: "Authentication failed. Please check your OAuth credentials.",
		},
		{
			name:    "authorization",
			err:     model.ErrAuthorization,
			code:    model.CodeAuthorization,
			message: "Authorization failed. Please verify your developer token and permissions.",
		},
		{
			name:    "customer not found",
			err:     model.ErrCustomerNotFound,
			code:    model.CodeCustomerNotFound,
			message: "Customer ID not found. Please verify the Customer ID is correct.",
		},
		{
			name:    "developer token not approved",
			err:     model.ErrDeveloperTokenNotApproved,
			code:    model.CodeDeveloperTokenNotApproved,
			message: "Developer token not approved. Please check your Google Ads API access.",
		},
		{
			name:    "generic remote error passes message through",
			err:     fmt.Errorf("quota exhausted"),
			code:    model.CodeRemote,
			message: "API Error: quota exhausted",
		},
		{
			name: "connection failure is distinct",
			err:  fmt.Errorf("dial: %w", model.ErrConnectionFailed),
			code: model.CodeConnectionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newValidator(&mockAdsPlatform{customerErr: tt.err})

			result := v.Validate(context.Background(), validCreds())

			assert.False(t, result.IsValid)
			assert.Equal(t, tt.code, result.ErrorCode)
			if tt.message != "" {
				assert.Equal(t, tt.message, result.Error)
			}
		})
	}
}

func TestAccountValidator_ClientListFailure(t *testing.T) {
	platform := &mockAdsPlatform{
		customer:   &model.Customer{ID: "1", Manager: true},
		clientsErr: model.ErrAuthorization,
	}
	v, _ := newValidator(platform)

	result := v.Validate(context.Background(), validCreds())

	assert.False(t, result.IsValid)
	assert.Equal(t, model.CodeAuthorization, result.ErrorCode)
}
