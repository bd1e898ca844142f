package model

import "fmt"

// AccountType distinguishes aggregator accounts from the accounts they manage.
type AccountType string

const (
	AccountTypeClient  AccountType = "CLIENT"
	AccountTypeManager AccountType = "MANAGER"
)

// Account is one advertising account reachable with a credential set.
// Accounts exist only as part of a ValidationResult and are never persisted.
type Account struct {
	ID              string      `json:"id" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	DescriptiveName string      `json:"descriptiveName" yaml:"descriptiveName"`
	CurrencyCode    string      `json:"currencyCode" yaml:"currencyCode"`
	TimeZone        string      `json:"timeZone" yaml:"timeZone"`
	Type            AccountType `json:"type" yaml:"type"`
	Status          string      `json:"status" yaml:"status"`
	Level           int         `json:"level" yaml:"level"`
	Manager         bool        `json:"manager" yaml:"manager"`
}

// Customer is the raw account record returned by the advertising platform
// before display defaults are applied. Level is only meaningful for rows read
// from a manager's client hierarchy.
type Customer struct {
	ID              string
	DescriptiveName string
	CurrencyCode    string
	TimeZone        string
	Status          string
	Level           int
	Manager         bool
}

// ManagerInfo summarizes the manager account whose children were enumerated.
type ManagerInfo struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	TotalClients int    `json:"totalClients" yaml:"totalClients"`
}

// ValidationResult is the outcome of checking a credential set against the
// advertising platform. It is held in memory only.
type ValidationResult struct {
	IsValid     bool         `json:"isValid" yaml:"isValid"`
	Error       string       `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorCode   ErrorCode    `json:"errorCode,omitempty" yaml:"errorCode,omitempty"`
	Accounts    []Account    `json:"accounts,omitempty" yaml:"accounts,omitempty"`
	ManagerInfo *ManagerInfo `json:"managerInfo,omitempty" yaml:"managerInfo,omitempty"`
}

// AccountIDs returns the ids of the result's accounts in order.
func (r ValidationResult) AccountIDs() []string {
	ids := make([]string, 0, len(r.Accounts))
	for _, a := range r.Accounts {
		ids = append(ids, a.ID)
	}
	return ids
}

// Err converts a failed result into an error wrapping the sentinel for its
// code. It returns nil for valid results.
func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	sentinel := r.ErrorCode.Err()
	if sentinel == nil {
		sentinel = ErrRemote
	}
	if r.Error == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, r.Error)
}
