package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/adspanel/internal/application"
	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/metrics"
)

// maxRequestBody bounds request bodies; every request is a small JSON object.
const maxRequestBody = 64 << 10

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	validator *application.AccountValidator
	reporter  *application.CampaignReporter
	oauth     *application.OAuthService
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. m may be nil.
func NewHandler(
	validator *application.AccountValidator,
	reporter *application.CampaignReporter,
	oauth *application.OAuthService,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		validator: validator,
		reporter:  reporter,
		oauth:     oauth,
		metrics:   m,
		logger:    logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with request-id, logging, recovery, and metrics middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/validate", h.Validate)
	mux.HandleFunc("POST /api/v1/campaigns", h.Campaigns)
	mux.HandleFunc("POST /api/v1/oauth-url", h.OAuthURL)
	mux.HandleFunc("POST /api/v1/oauth-exchange", h.OAuthExchange)
	mux.HandleFunc("GET /api/v1/health", h.Health)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	}

	// Recovery innermost so a panic is answered with 500 before metrics and
	// logging record the status.
	var wrapped http.Handler = recoveryMiddleware(logger, mux)
	wrapped = metrics.Middleware(h.metrics, wrapped)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// Validate checks the posted credentials and enumerates reachable accounts.
// A rejected credential set is answered with 400 and the ValidationResult.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}

	result := h.validator.Validate(r.Context(), creds)
	h.metrics.RecordValidation(result)

	if !result.IsValid {
		h.logger.Info("credentials rejected",
			"request_id", requestIDFrom(r.Context()),
			"error_code", result.ErrorCode,
		)
		writeJSON(w, http.StatusBadRequest, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Campaigns returns campaign performance rows for the requested customer.
func (h *Handler) Campaigns(w http.ResponseWriter, r *http.Request) {
	var req CampaignsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Credentials == nil || strings.TrimSpace(req.CustomerID) == "" {
		writeError(w, http.StatusBadRequest, "Missing credentials or customer ID")
		return
	}

	rows, err := h.reporter.Campaigns(r.Context(), *req.Credentials, req.CustomerID)
	if err != nil {
		if errors.Is(err, model.ErrMissingField) || errors.Is(err, model.ErrInvalidField) {
			writeCodedError(w, http.StatusBadRequest, err.Error(), model.CodeMissingField)
			return
		}
		h.logger.Error("failed to fetch campaigns",
			"request_id", requestIDFrom(r.Context()),
			"customer_id", req.CustomerID,
			"error", err,
		)
		writeCodedError(w, http.StatusInternalServerError, err.Error(), model.CodeOf(err))
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// OAuthURL returns the consent URL for the posted client id.
func (h *Handler) OAuthURL(w http.ResponseWriter, r *http.Request) {
	var req OAuthURLRequest
	if !decodeBody(w, r, &req) {
		return
	}

	url, err := h.oauth.AuthURL(req.ClientID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Client ID is required")
		return
	}
	writeJSON(w, http.StatusOK, OAuthURLResponse{URL: url})
}

// OAuthExchange trades an authorization code for a refresh token.
func (h *Handler) OAuthExchange(w http.ResponseWriter, r *http.Request) {
	var req OAuthExchangeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.oauth.Exchange(r.Context(), req.ClientID, req.ClientSecret, req.Code)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, OAuthExchangeResponse{RefreshToken: token})
	case errors.Is(err, model.ErrMissingField):
		writeCodedError(w, http.StatusBadRequest, err.Error(), model.CodeMissingField)
	case errors.Is(err, model.ErrAuthentication):
		writeCodedError(w, http.StatusBadRequest, "Authorization code was rejected", model.CodeAuthentication)
	default:
		h.logger.Error("oauth code exchange failed",
			"request_id", requestIDFrom(r.Context()),
			"error", err,
		)
		writeCodedError(w, http.StatusBadGateway, "Failed to exchange authorization code", model.CodeOf(err))
	}
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeBody decodes the JSON request body into v, writing a 400 response and
// returning false when the body is not valid JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
