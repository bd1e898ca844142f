package model

import "errors"

// Pre-flight errors. These are returned before any network call is made.
var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field value")
)

// Remote classification errors, produced from advertising platform failures.
var (
	ErrAuthentication            = errors.New("authentication failed")
	ErrAuthorization             = errors.New("authorization failed")
	ErrCustomerNotFound          = errors.New("customer not found")
	ErrDeveloperTokenNotApproved = errors.New("developer token not approved")
	ErrRemote                    = errors.New("advertising api error")
)

// Client-side errors.
var (
	// ErrConnectionFailed reports a transport-level failure (timeout, refused
	// connection). It never means the credentials are invalid.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrNotAuthenticated is returned when an operation needs stored
	// credentials and none are held.
	ErrNotAuthenticated = errors.New("not authenticated: validate credentials first")

	// ErrFetchCampaigns wraps every campaign fetch failure.
	ErrFetchCampaigns = errors.New("failed to fetch campaigns")

	// ErrUnknownAccount is returned when selecting an account id that is not
	// in the current account list.
	ErrUnknownAccount = errors.New("account not in accessible accounts")

	// ErrSuperseded is returned by a connect attempt whose accepted result
	// was overtaken by a newer attempt or a disconnect. Its credentials were
	// not stored.
	ErrSuperseded = errors.New("connection attempt superseded by a newer one")
)

// ErrorCode is the machine-readable form of a validation failure carried in
// ValidationResult.ErrorCode.
type ErrorCode string

const (
	CodeMissingField              ErrorCode = "MISSING_FIELD"
	CodeAuthentication            ErrorCode = "AUTHENTICATION_ERROR"
	CodeAuthorization             ErrorCode = "AUTHORIZATION_ERROR"
	CodeCustomerNotFound          ErrorCode = "CUSTOMER_NOT_FOUND"
	CodeDeveloperTokenNotApproved ErrorCode = "DEVELOPER_TOKEN_NOT_APPROVED"
	CodeRemote                    ErrorCode = "REMOTE_ERROR"
	CodeConnectionFailed          ErrorCode = "CONNECTION_FAILED"
)

var codeErrors = map[ErrorCode]error{
	CodeMissingField:              ErrMissingField,
	CodeAuthentication:            ErrAuthentication,
	CodeAuthorization:             ErrAuthorization,
	CodeCustomerNotFound:          ErrCustomerNotFound,
	CodeDeveloperTokenNotApproved: ErrDeveloperTokenNotApproved,
	CodeRemote:                    ErrRemote,
	CodeConnectionFailed:          ErrConnectionFailed,
}

// Err returns the sentinel for the code, or nil for an empty or unknown code.
func (c ErrorCode) Err() error {
	return codeErrors[c]
}

// CodeOf maps an error to its wire code. Unclassified errors map to CodeRemote.
func CodeOf(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrMissingField), errors.Is(err, ErrInvalidField):
		return CodeMissingField
	case errors.Is(err, ErrDeveloperTokenNotApproved):
		return CodeDeveloperTokenNotApproved
	case errors.Is(err, ErrCustomerNotFound):
		return CodeCustomerNotFound
	case errors.Is(err, ErrAuthentication):
		return CodeAuthentication
	case errors.Is(err, ErrAuthorization):
		return CodeAuthorization
	case errors.Is(err, ErrConnectionFailed):
		return CodeConnectionFailed
	default:
		return CodeRemote
	}
}
