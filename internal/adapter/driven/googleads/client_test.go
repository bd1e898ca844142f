package googleads

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/metrics"
)

func testCreds() model.Credentials {
	return model.Credentials{
		CustomerID:     "123-456-7890",
		DeveloperToken: "dev-token",
		ClientID:       "client-id",
		ClientSecret:   "client-secret",
		RefreshToken:   "refresh-token",
	}
}

func writeTokenResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"access_token":"access-123","token_type":"Bearer","expires_in":3600}`)
}

// newTestServer serves the OAuth token endpoint and routes search calls to
// search. The returned factory points at the server.
func newTestServer(t *testing.T, search func(w http.ResponseWriter, r *http.Request, body searchRequest)) (*httptest.Server, *Factory, *metrics.Metrics) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, _ *http.Request) {
		writeTokenResponse(w)
	})
	mux.HandleFunc("POST /v17/customers/{id}/googleAds:search", func(w http.ResponseWriter, r *http.Request) {
		var body searchRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		search(w, r, body)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	m := metrics.NewMetrics("test")
	factory := NewFactory(Options{
		BaseURL:    srv.URL,
		APIVersion: "v17",
		TokenURL:   srv.URL + "/token",
		HTTPClient: srv.Client(),
		Metrics:    m,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return srv, factory, m
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestGetCustomer(t *testing.T) {
	_, factory, m := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body searchRequest) {
		assert.Equal(t, "1234567890", r.PathValue("id"))
		assert.Equal(t, "Bearer access-123", r.Header.Get("Authorization"))
		assert.Equal(t, "dev-token", r.Header.Get("developer-token"))
		assert.Equal(t, "1234567890", r.Header.Get("login-customer-id"))
		assert.Contains(t, body.Query, "WHERE customer.id = 1234567890")

		writeJSON(w, http.StatusOK, `{"results":[{"customer":{
			"id":"1234567890","descriptiveName":"Agency","currencyCode":"EUR",
			"timeZone":"Europe/Berlin","status":"ENABLED","manager":true}}]}`)
	})

	customer, err := factory.ForCredentials(testCreds()).GetCustomer(context.Background(), "1234567890")
	require.NoError(t, err)
	require.NotNil(t, customer)

	assert.Equal(t, "1234567890", customer.ID)
	assert.Equal(t, "Agency", customer.DescriptiveName)
	assert.Equal(t, "EUR", customer.CurrencyCode)
	assert.True(t, customer.Manager)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteQueriesTotal.WithLabelValues("get_customer", "ok")))
}

func TestGetCustomer_NoRows(t *testing.T) {
	_, factory, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request, _ searchRequest) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	customer, err := factory.ForCredentials(testCreds()).GetCustomer(context.Background(), "1234567890")
	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestListCustomerClients_FollowsPages(t *testing.T) {
	var calls int
	_, factory, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request, body searchRequest) {
		calls++
		assert.Contains(t, body.Query, "customer_client.status != 'CANCELLED'")
		switch body.PageToken {
		case "":
			writeJSON(w, http.StatusOK, `{"results":[{"customerClient":{"id":"111","descriptiveName":"Alpha","level":"1"}}],"nextPageToken":"page-2"}`)
		case "page-2":
			writeJSON(w, http.StatusOK, `{"results":[{"customerClient":{"id":222,"descriptiveName":"Beta","level":1,"manager":true}}]}`)
		default:
			t.Errorf("unexpected page token %q", body.PageToken)
		}
	})

	clients, err := factory.ForCredentials(testCreds()).ListCustomerClients(context.Background(), "1234567890")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	require.Len(t, clients, 2)
	assert.Equal(t, "111", clients[0].ID)
	assert.Equal(t, 1, clients[0].Level)
	assert.Equal(t, "222", clients[1].ID, "numeric ids are accepted")
	assert.True(t, clients[1].Manager)
}

func TestListCampaignPerformance_Normalizes(t *testing.T) {
	_, factory, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body searchRequest) {
		assert.Equal(t, "5555555555", r.PathValue("id"))
		assert.Equal(t, "1234567890", r.Header.Get("login-customer-id"), "login customer stays the credential's id")
		assert.Contains(t, body.Query, "DURING LAST_30_DAYS")

		writeJSON(w, http.StatusOK, `{"results":[
			{"campaign":{"id":"9","name":"Spring","status":"ENABLED","advertisingChannelType":"SEARCH",
			  "campaignBudget":"customers/5555555555/campaignBudgets/1"},
			 "metrics":{"impressions":"1000","clicks":"34","costMicros":"2500000","conversions":2.5,
			  "ctr":0.034,"averageCpc":"450000"}},
			{"campaign":{"id":"10","name":"Winter","status":"PAUSED"}}
		]}`)
	})

	rows, err := factory.ForCredentials(testCreds()).ListCampaignPerformance(context.Background(), "5555555555")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	spring := rows[0]
	assert.Equal(t, "9", spring.ID)
	assert.Equal(t, "enabled", spring.Status)
	assert.Equal(t, "SEARCH", spring.Type)
	assert.Equal(t, "customers/5555555555/campaignBudgets/1", spring.Budget)
	assert.Equal(t, int64(1000), spring.Impressions)
	assert.Equal(t, int64(34), spring.Clicks)
	assert.Equal(t, 2.5, spring.Cost)
	assert.Equal(t, 2.5, spring.Conversions)
	assert.Equal(t, 3.4, spring.CTR)
	assert.Equal(t, 0.45, spring.CPC)

	winter := rows[1]
	assert.Equal(t, "paused", winter.Status)
	assert.Zero(t, winter.Impressions)
	assert.Zero(t, winter.Cost)
	assert.Empty(t, winter.Type)
}

func TestSearch_ClassifiesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{
			name:   "invalid oauth token",
			status: http.StatusUnauthorized,
			body:   `{"error":{"code":401,"status":"UNAUTHENTICATED","message":"Request had invalid authentication credentials.","details":[{"errors":[{"errorCode":{"authenticationError":"OAUTH_TOKEN_INVALID"},"message":"OAuth token invalid"}],"requestId":"req-1"}]}}`,
			want:   model.ErrAuthentication,
		},
		{
			name:   "developer token not approved wins over authorization category",
			status: http.StatusForbidden,
			body:   `{"error":{"code":403,"status":"PERMISSION_DENIED","details":[{"errors":[{"errorCode":{"authorizationError":"DEVELOPER_TOKEN_NOT_APPROVED"}}]}]}}`,
			want:   model.ErrDeveloperTokenNotApproved,
		},
		{
			name:   "user permission denied",
			status: http.StatusForbidden,
			body:   `{"error":{"code":403,"status":"PERMISSION_DENIED","details":[{"errors":[{"errorCode":{"authorizationError":"USER_PERMISSION_DENIED"}}]}]}}`,
			want:   model.ErrAuthorization,
		},
		{
			name:   "invalid customer id",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":400,"status":"INVALID_ARGUMENT","details":[{"errors":[{"errorCode":{"requestError":"INVALID_CUSTOMER_ID"}}]}]}}`,
			want:   model.ErrCustomerNotFound,
		},
		{
			name:   "other api error",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","details":[{"errors":[{"errorCode":{"quotaError":"RESOURCE_EXHAUSTED"}}]}]}}`,
			want:   model.ErrRemote,
		},
		{
			name:   "non-json forbidden",
			status: http.StatusForbidden,
			body:   `forbidden`,
			want:   model.ErrAuthorization,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, factory, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request, _ searchRequest) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := factory.ForCredentials(testCreds()).GetCustomer(context.Background(), "1234567890")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.HTTPStatus)
		})
	}
}

func TestParseAPIError_Fields(t *testing.T) {
	body := []byte(`{"error":{"code":401,"status":"UNAUTHENTICATED","message":"outer","details":[{"errors":[{"errorCode":{"authenticationError":"OAUTH_TOKEN_INVALID"},"message":"inner"}],"requestId":"req-9"}]}}`)

	apiErr := parseAPIError(http.StatusUnauthorized, "", body)

	assert.Equal(t, "AUTHENTICATION_ERROR", apiErr.Category)
	assert.Equal(t, "OAUTH_TOKEN_INVALID", apiErr.Reason)
	assert.Equal(t, "inner", apiErr.Message)
	assert.Equal(t, "req-9", apiErr.RequestID)
	assert.Equal(t, "google ads api: AUTHENTICATION_ERROR (OAUTH_TOKEN_INVALID): inner", apiErr.Error())
}

func TestSearch_TokenRefreshRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Token has been expired or revoked."}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(testCreds(), Options{
		BaseURL:    srv.URL,
		APIVersion: "v17",
		TokenURL:   srv.URL + "/token",
		HTTPClient: srv.Client(),
	})

	_, err := client.GetCustomer(context.Background(), "1234567890")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrAuthentication)
	assert.NotErrorIs(t, err, model.ErrConnectionFailed)
}

func TestSearch_ConnectionFailure(t *testing.T) {
	srv, factory, m := newTestServer(t, func(http.ResponseWriter, *http.Request, searchRequest) {})
	srv.Close()

	_, err := factory.ForCredentials(testCreds()).ListCampaignPerformance(context.Background(), "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConnectionFailed)
	assert.NotErrorIs(t, err, model.ErrAuthentication)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteQueriesTotal.WithLabelValues("list_campaigns", "connection_failed")))
}

func TestSearch_MalformedResponse(t *testing.T) {
	_, factory, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request, _ searchRequest) {
		writeJSON(w, http.StatusOK, `{"results":`)
	})

	_, err := factory.ForCredentials(testCreds()).GetCustomer(context.Background(), "1")
	assert.ErrorIs(t, err, model.ErrRemote)
}

func TestUpperSnake(t *testing.T) {
	assert.Equal(t, "AUTHENTICATION_ERROR", upperSnake("authenticationError"))
	assert.Equal(t, "QUOTA_ERROR", upperSnake("quotaError"))
	assert.Equal(t, "REQUEST", upperSnake("request"))
}
