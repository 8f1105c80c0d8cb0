package api

import (
	"context"
	"delivery-scheduler/internal/adapters/ingest"
	"delivery-scheduler/internal/api/dto"
	"delivery-scheduler/internal/services"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *services.RunResult) {
	t.Helper()
	pkgs, err := ingest.LoadPackagesCSV("../../data/packages.csv")
	require.NoError(t, err)
	idx, err := ingest.LoadDistancesCSV("../../data/distances.csv")
	require.NoError(t, err)
	store, err := ingest.BuildStore(pkgs, 40)
	require.NoError(t, err)

	engine, err := services.NewEngine(services.DefaultEngineConfig(), store, idx)
	require.NoError(t, err)
	res, err := engine.Run(context.Background())
	require.NoError(t, err)

	return NewRouter(services.NewReporter(store, res), res), res
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListPackages(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := get(t, h, "/packages?at=08:00")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res dto.ListPackagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "08:00:00", res.At)
	require.Len(t, res.Packages, 40)
	for _, p := range res.Packages {
		assert.NotEqual(t, "DELIVERED", p.Status, "package %d", p.PackageID)
		assert.Nil(t, p.DeliveredAt)
	}

	rec = get(t, h, "/packages")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "23:59:00", res.At)
	for _, p := range res.Packages {
		assert.Equal(t, "DELIVERED", p.Status, "package %d", p.PackageID)
	}
}

func TestPackageStatus(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := get(t, h, "/packages/15/status?at=08:13")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.PackageStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 15, res.PackageID)
	assert.Equal(t, "DELIVERED", res.Status)
	require.NotNil(t, res.DeliveredAt)
	assert.Equal(t, "08:13:00", *res.DeliveredAt)
	assert.Equal(t, "09:00", res.Deadline)
	require.NotNil(t, res.TruckID)
	assert.Equal(t, 1, *res.TruckID)
	assert.Equal(t, "Package 15 - DELIVERED at 08:13:00 by truck 1 (deadline 09:00)", res.Report)

	rec = get(t, h, "/packages/9/status?at=12:00")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "410 S State St", res.Address)
	assert.Equal(t, "84111", res.Zip)
}

func TestPackageStatusRejectedInput(t *testing.T) {
	h, _ := newTestRouter(t)

	tests := []struct {
		target string
		want   int
	}{
		{"/packages/abc/status", http.StatusBadRequest},
		{"/packages/0/status", http.StatusBadRequest},
		{"/packages/1/status?at=25:61", http.StatusBadRequest},
		{"/packages?at=later", http.StatusBadRequest},
		{"/packages/41/status", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestMileageAndRoutes(t *testing.T) {
	h, run := newTestRouter(t)

	rec := get(t, h, "/mileage")
	require.Equal(t, http.StatusOK, rec.Code)
	var mileage dto.MileageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mileage))
	assert.Equal(t, run.RunID, mileage.RunID)
	assert.InDelta(t, run.TotalMiles, mileage.TotalMiles, 1e-9)
	assert.Less(t, mileage.TotalMiles, 140.0)
	require.Len(t, mileage.Trucks, 2)
	assert.Equal(t, 1, mileage.Trucks[0].TruckID)
	assert.Empty(t, mileage.LatePackages)
	assert.Contains(t, rec.Body.String(), `"late_packages":[]`)

	rec = get(t, h, "/routes")
	require.Equal(t, http.StatusOK, rec.Code)
	var routes dto.ListPlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &routes))
	require.Len(t, routes.Plans, 2)
	assert.Equal(t, "08:00:00", routes.Plans[0].DepartAt)
	assert.Equal(t, "09:05:00", routes.Plans[1].DepartAt)
	assert.NotEmpty(t, routes.Plans[0].Stops)
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/packages", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
