package googleads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"golang.org/x/oauth2"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
)

// APIError is a decoded Google Ads failure response. Category is the error
// code family in upper snake case ("AUTHENTICATION_ERROR") and Reason its
// value ("OAUTH_TOKEN_INVALID").
type APIError struct {
	HTTPStatus int
	Status     string
	Message    string
	Category   string
	Reason     string
	RequestID  string
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("google ads api")
	if e.Category != "" {
		fmt.Fprintf(&b, ": %s", e.Category)
		if e.Reason != "" {
			fmt.Fprintf(&b, " (%s)", e.Reason)
		}
	} else if e.Status != "" {
		fmt.Fprintf(&b, ": %s", e.Status)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	return b.String()
}

// Unwrap maps the failure onto the model sentinels. Specific reasons are
// checked before their category so DEVELOPER_TOKEN_NOT_APPROVED is not
// reported as a generic authorization failure.
func (e *APIError) Unwrap() error {
	switch e.Reason {
	case "DEVELOPER_TOKEN_NOT_APPROVED":
		return model.ErrDeveloperTokenNotApproved
	case "CUSTOMER_NOT_FOUND", "INVALID_CUSTOMER_ID":
		return model.ErrCustomerNotFound
	}

	switch e.Category {
	case "AUTHENTICATION_ERROR":
		return model.ErrAuthentication
	case "AUTHORIZATION_ERROR":
		return model.ErrAuthorization
	case "":
	default:
		return model.ErrRemote
	}

	switch e.Status {
	case "UNAUTHENTICATED":
		return model.ErrAuthentication
	case "PERMISSION_DENIED":
		return model.ErrAuthorization
	}

	switch e.HTTPStatus {
	case http.StatusUnauthorized:
		return model.ErrAuthentication
	case http.StatusForbidden:
		return model.ErrAuthorization
	}
	return model.ErrRemote
}

type failureBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Errors []struct {
				ErrorCode map[string]string `json:"errorCode"`
				Message   string            `json:"message"`
			} `json:"errors"`
			RequestID string `json:"requestId"`
		} `json:"details"`
	} `json:"error"`
}

// parseAPIError decodes a non-200 search response. Bodies that are not the
// standard failure envelope still produce an APIError carrying the status.
func parseAPIError(httpStatus int, requestID string, body []byte) *APIError {
	apiErr := &APIError{HTTPStatus: httpStatus, RequestID: requestID}

	var decoded failureBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(httpStatus)
		}
		return apiErr
	}

	apiErr.Status = decoded.Error.Status
	apiErr.Message = decoded.Error.Message

	for _, detail := range decoded.Error.Details {
		if apiErr.RequestID == "" {
			apiErr.RequestID = detail.RequestID
		}
		for _, e := range detail.Errors {
			for family, reason := range e.ErrorCode {
				apiErr.Category = upperSnake(family)
				apiErr.Reason = reason
				if e.Message != "" {
					apiErr.Message = e.Message
				}
				return apiErr
			}
		}
	}
	return apiErr
}

// classifyTransportError maps an http.Client.Do failure. Token refresh
// failures surface here too, wrapped in *url.Error, and mean the OAuth
// client or refresh token was rejected.
func classifyTransportError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: token refresh: %w", model.ErrAuthentication, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", model.ErrConnectionFailed, err)
}

// upperSnake converts "authenticationError" to "AUTHENTICATION_ERROR".
func upperSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
