package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdash/datagen"
	"bizdash/dataset"
	"bizdash/events"
	"bizdash/models"
	"bizdash/service"
)

func setupTestServer(t *testing.T, refreshed bool) *httptest.Server {
	t.Helper()
	gen, err := datagen.New(datagen.DefaultOptions())
	require.NoError(t, err)

	loader := dataset.NewSyntheticLoader(gen, 100, 6, 42, true)
	dashboard := service.NewDashboardService(loader, events.NewBus(), 0.7)
	if refreshed {
		require.NoError(t, dashboard.Refresh(context.Background(), "startup"))
	}

	router := mux.NewRouter()
	SetupRoutes(router, dashboard, 10)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestGetChart(t *testing.T) {
	server := setupTestServer(t, true)

	for _, id := range service.ChartIDs {
		var chart models.ChartSpec
		status := getJSON(t, server.URL+"/api/charts/"+id, &chart)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, id, chart.ID)
	}
}

func TestGetChartUnknownID(t *testing.T) {
	server := setupTestServer(t, true)

	var body map[string]string
	status := getJSON(t, server.URL+"/api/charts/nope", &body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["error"], "unknown chart")
}

func TestEndpointsBeforeFirstRefresh(t *testing.T) {
	server := setupTestServer(t, false)

	var body map[string]string
	status := getJSON(t, server.URL+"/api/kpis", &body)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestGetKPIs(t *testing.T) {
	server := setupTestServer(t, true)

	var kpis models.KPISummary
	status := getJSON(t, server.URL+"/api/kpis", &kpis)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 100, kpis.CustomerCount)
	assert.True(t, kpis.TotalRevenue.IsPositive())
}

func TestGetHighRiskCustomers(t *testing.T) {
	server := setupTestServer(t, true)

	var rows []*models.HighRiskCustomer
	status := getJSON(t, server.URL+"/api/customers/high-risk?limit=5", &rows)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, rows, 5)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].ChurnProbability, rows[i].ChurnProbability)
	}
}

func TestGetHighRiskCustomersBadLimit(t *testing.T) {
	server := setupTestServer(t, true)

	var body map[string]string
	status := getJSON(t, server.URL+"/api/customers/high-risk?limit=zero", &body)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestManualRefresh(t *testing.T) {
	server := setupTestServer(t, true)

	resp, err := http.Post(server.URL+"/api/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.EqualValues(t, 100, body["customers"])
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t, false)

	var body map[string]any
	status := getJSON(t, server.URL+"/api/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["dataset_loaded"])
}
