package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeCodedError is writeError with the machine-readable error code attached.
func writeCodedError(w http.ResponseWriter, status int, message string, code model.ErrorCode) {
	writeJSON(w, status, errorResponse{Error: message, ErrorCode: code})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error     string          `json:"error"`
	ErrorCode model.ErrorCode `json:"errorCode,omitempty"`
}

// CampaignsRequest is the JSON body for the campaigns endpoint. Credentials
// is a pointer so an absent object can be told apart from an empty one.
type CampaignsRequest struct {
	Credentials *model.Credentials `json:"credentials"`
	CustomerID  string             `json:"customerId"`
}

// OAuthURLRequest is the JSON body for the OAuth URL endpoint.
type OAuthURLRequest struct {
	ClientID string `json:"clientId"`
}

// OAuthURLResponse carries the consent URL.
type OAuthURLResponse struct {
	URL string `json:"url"`
}

// OAuthExchangeRequest is the JSON body for the code exchange endpoint.
type OAuthExchangeRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	Code         string `json:"code"`
}

// OAuthExchangeResponse carries the refresh token issued for the code.
type OAuthExchangeResponse struct {
	RefreshToken string `json:"refreshToken"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
