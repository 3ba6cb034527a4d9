package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appservice "github.com/railtix/railtix/internal/application/service"
	"github.com/railtix/railtix/internal/config"
	"github.com/railtix/railtix/internal/domain/models"
	domainService "github.com/railtix/railtix/internal/domain/service"
	"github.com/railtix/railtix/internal/infrastructure/fraud"
	"github.com/railtix/railtix/internal/infrastructure/inventory"
	"github.com/railtix/railtix/internal/infrastructure/ratelimit"
	routerhttp "github.com/railtix/railtix/internal/interfaces/http"
	"github.com/railtix/railtix/internal/interfaces/http/handlers"
	"github.com/railtix/railtix/pkg/constants"
	"github.com/railtix/railtix/pkg/logger"
	"github.com/railtix/railtix/pkg/ticketcode"
)

type jsonBody = map[string]interface{}

func newTestRouter(t *testing.T, opts ...appservice.Option) *routerhttp.Router {
	t.Helper()

	log := logger.NewNoopLogger()
	svc := appservice.NewBookingAppService(
		domainService.AllowAllValidator{},
		fraud.NewTracker(constants.DeviceIPThreshold, 0),
		ratelimit.NewSlidingWindow(constants.RequestWindow, constants.MaxRequestsPerWindow),
		inventory.NewLedger(constants.TotalTickets),
		ticketcode.NewDedupingGenerator(ticketcode.NewSeededGenerator(7)),
		log,
		opts...,
	)

	r := routerhttp.NewRouter(
		config.Default(),
		log,
		handlers.NewBookingHandler(svc, log),
		handlers.NewHealthHandler(svc),
	)
	r.SetupRoutes()
	return r
}

func doJSON(t *testing.T, r *routerhttp.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	return w
}

func TestCreateBooking_Success(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/bookings", jsonBody{
		"user_id":    "alice",
		"device_id":  "dev-1",
		"ip_address": "10.0.0.1",
		"quantity":   3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result models.BookingResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "3")
	assert.Len(t, result.TicketCodes, 3)
	assert.Equal(t, constants.TotalTickets-3, result.Remaining)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCreateBooking_QuantityAboveCap(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/bookings", jsonBody{
		"user_id":    "alice",
		"device_id":  "dev-1",
		"ip_address": "10.0.0.1",
		"quantity":   6,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, string(constants.ErrCodeInvalidInput), envelope["error"])
}

func TestCreateBooking_QuotaExceededIs409(t *testing.T) {
	r := newTestRouter(t)

	body := jsonBody{
		"user_id":    "alice",
		"device_id":  "dev-1",
		"ip_address": "10.0.0.1",
		"quantity":   5,
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/bookings", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/bookings", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateBooking_RateLimitIs429(t *testing.T) {
	r := newTestRouter(t, appservice.WithQuantityLimits(5, 1000))

	body := jsonBody{
		"user_id":    "alice",
		"device_id":  "dev-1",
		"ip_address": "10.0.0.1",
		"quantity":   1,
	}
	for i := 0; i < constants.MaxRequestsPerWindow; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/v1/bookings", body)
		require.Equal(t, http.StatusOK, w.Code, "booking %d: %s", i+1, w.Body.String())
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/bookings", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestCreateBooking_SuspiciousIs403(t *testing.T) {
	r := newTestRouter(t, appservice.WithQuantityLimits(5, 1000))

	// Walk one user through enough device/IP churn to cross the threshold.
	for i := 0; i < 4; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/v1/bookings", jsonBody{
			"user_id":    "alice",
			"device_id":  fmt.Sprintf("dev-%d", i),
			"ip_address": fmt.Sprintf("10.0.0.%d", i+1),
			"quantity":   1,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/bookings", jsonBody{
		"user_id":    "alice",
		"device_id":  "dev-9",
		"ip_address": "10.0.0.9",
		"quantity":   1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateBooking_MissingBodyFields(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/bookings", jsonBody{"quantity": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBooking_PeerAddressFallback(t *testing.T) {
	r := newTestRouter(t)

	// No device or IP in the body: the handler substitutes the peer address,
	// and the booking still goes through.
	w := doJSON(t, r, http.MethodPost, "/api/v1/bookings", jsonBody{
		"user_id":  "alice",
		"quantity": 1,
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestGetInventory(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/bookings", jsonBody{
		"user_id":    "alice",
		"device_id":  "dev-1",
		"ip_address": "10.0.0.1",
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var inv struct {
		Total     int `json:"total"`
		Available int `json:"available"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
	assert.Equal(t, constants.TotalTickets, inv.Total)
	assert.Equal(t, constants.TotalTickets-2, inv.Available)
}

func TestGetUserTotal(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/bookings", jsonBody{
		"user_id":    "alice",
		"device_id":  "dev-1",
		"ip_address": "10.0.0.1",
		"quantity":   4,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/users/alice/total", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		UserID string `json:"user_id"`
		Total  int    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.UserID)
	assert.Equal(t, 4, resp.Total)
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNoRouteEnvelope(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/not/a/route", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "not_found", envelope["error"])
}

func TestMetricsEndpointExposed(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

