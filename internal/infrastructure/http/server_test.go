package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/adapter/repository/memory"
	"github.com/wekeepgrowing/semo-fleet/internal/config"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	"github.com/wekeepgrowing/semo-fleet/internal/infrastructure/lock"
	"github.com/wekeepgrowing/semo-fleet/internal/infrastructure/metrics"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase"
)

const (
	testSecret = "test-secret"
	testIssuer = "semo-auth"
	testOwner  = "owner-1"
)

var refNow = time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)

type testServer struct {
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	seedStore(store)

	cfg := &config.Config{
		Service:    config.ServiceConfig{Name: "fleet"},
		Server:     config.ServerConfig{HTTP: config.HTTPConfig{AllowOrigins: []string{"*"}}},
		JWT:        config.JWTConfig{Secret: testSecret, Issuer: testIssuer},
		Compliance: config.ComplianceConfig{Locale: "en"},
		Metrics:    config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	recorder := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
	uc := usecase.SetupUseCases(zap.NewNop(), cfg, store.Repositories(), usecase.Dependencies{
		Locker:   lock.NewMemoryLocker(),
		Recorder: recorder,
		Clock:    func() time.Time { return refNow },
	})

	return &testServer{
		handler: NewServer(cfg, zap.NewNop(), uc, recorder.Handler()).Handler(),
		token:   mintToken(t, testOwner),
	}
}

func mintToken(t *testing.T, owner string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  owner,
		"name": "Dispatch",
		"iss":  testIssuer,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func seedStore(store *memory.Store) {
	inspection := refNow.AddDate(0, 0, -10)
	store.AddVehicles(&entity.Vehicle{
		ID:               "v-1",
		OwnerID:          testOwner,
		LicensePlate:     "B-FL 100",
		Status:           entity.VehicleStatusAvailable,
		InspectionExpiry: &inspection,
	})
	store.AddDrivers(&entity.Driver{ID: "d-1", OwnerID: testOwner, FirstName: "Anna", LastName: "Becker", Status: entity.DriverStatusActive})

	driverID, start, end := "d-1", time.Date(2026, 3, 18, 6, 0, 0, 0, time.UTC), time.Date(2026, 3, 18, 16, 0, 0, 0, time.UTC)
	eta := time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC)
	store.AddRoutes(&entity.Route{
		ID:          "r-1",
		OwnerID:     testOwner,
		DriverID:    &driverID,
		RouteDate:   time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC),
		Status:      entity.RouteStatusCompleted,
		ActualStart: &start,
		ActualEnd:   &end,
		Stops: []entity.Stop{
			{ID: "s-1", RouteID: "r-1", Status: entity.StopStatusDelivered, EstimatedArrival: &eta, ActualArrival: &eta, HasSignature: true},
			{ID: "s-2", RouteID: "r-1", Status: entity.StopStatusFailed},
		},
	})
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	rec = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/compliance/status", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_AUTH_HEADER")
}

func TestComplianceFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/fleet/compliance/check", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var status entity.ComplianceStatus
	decode(t, rec, &status)
	assert.Equal(t, 75, status.Score)
	assert.False(t, status.IsCompliant)
	require.Len(t, status.Issues, 1)
	issueID := status.Issues[0].ID

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/compliance/issues?severity=critical", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var issues []entity.ComplianceIssue
	decode(t, rec, &issues)
	require.Len(t, issues, 1)
	assert.Equal(t, "inspection:v-1:CRITICAL", issues[0].Key)

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/compliance/issues?severity=urgent", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")

	rec = s.do(t, http.MethodPut, "/api/v1/fleet/compliance/issues/"+issueID, map[string]string{"status": "RESOLVED"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/fleet/compliance/issues/missing", map[string]string{"status": "IN_PROGRESS"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/fleet/compliance/issues/"+issueID, map[string]string{
		"status":     "RESOLVED",
		"resolution": "Inspection passed",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated entity.ComplianceIssue
	decode(t, rec, &updated)
	assert.Equal(t, entity.IssueStatusResolved, updated.Status)

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/compliance/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &status)
	assert.Equal(t, 100, status.Score)
	assert.True(t, status.IsCompliant)

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/audit/entity/compliance_issue/"+issueID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []entity.AuditLogEntry
	decode(t, rec, &history)
	require.Len(t, history, 1)
	assert.Equal(t, entity.AuditActionStatusChange, history[0].Action)
	assert.Equal(t, testOwner, history[0].PerformedBy)
	require.NotNil(t, history[0].PerformerName)
	assert.Equal(t, "Dispatch", *history[0].PerformerName)
}

func TestDriverHoursEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/fleet/compliance/driver-hours/d-1?date=2026-03-18", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var detail entity.DriverHoursCompliance
	decode(t, rec, &detail)
	assert.Equal(t, 10.0, detail.DailyDrivingHours)
	assert.Equal(t, 14.0, detail.RestHours)
	assert.False(t, detail.IsCompliant)

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/compliance/driver-hours/ghost?date=2026-03-18", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/compliance/driver-hours?date=18.03.2026", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPerformanceEndpoints(t *testing.T) {
	s := newTestServer(t)
	period := "from=2026-03-11&to=2026-03-18"

	rec := s.do(t, http.MethodGet, "/api/v1/fleet/performance/driver/d-1?"+period, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var m entity.DriverMetrics
	decode(t, rec, &m)
	assert.Equal(t, 2, m.Deliveries.Total)
	assert.Equal(t, 50.0, m.Deliveries.CompletionRate)

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/performance/driver/ghost?"+period, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/performance/rankings?"+period, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rankings []entity.DriverRanking
	decode(t, rec, &rankings)
	require.Len(t, rankings, 1)
	assert.Equal(t, 1, rankings[0].Rank)
	assert.Equal(t, "Anna Becker", rankings[0].DriverName)

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/performance/alerts?"+period, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var alerts []entity.PerformanceAlert
	decode(t, rec, &alerts)
	require.NotEmpty(t, alerts)
	assert.Equal(t, entity.AlertSeverityCritical, alerts[0].Severity)

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/performance/compare?"+period+"&driverA=d-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/performance/rankings?from=2026-03-18&to=2026-03-11", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/performance/rankings?"+period+"&limit=ten", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuditEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/fleet/audit/log", map[string]interface{}{
		"performedBy": "user-7",
		"action":      "UPDATE",
		"entityType":  "VEHICLE",
		"entityId":    "v-1",
		"changes":     []map[string]interface{}{{"field": "status", "oldValue": "AVAILABLE", "newValue": "IN_USE"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var entry entity.AuditLogEntry
	decode(t, rec, &entry)
	assert.NotEmpty(t, entry.ID)
	assert.True(t, entry.Timestamp.Equal(refNow))

	rec = s.do(t, http.MethodPost, "/api/v1/fleet/audit/log", map[string]interface{}{
		"performedBy": "user-7",
		"action":      "ARCHIVE",
		"entityType":  "VEHICLE",
		"entityId":    "v-1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/audit/logs?entity=vehicle&limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page entity.AuditPage
	decode(t, rec, &page)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 5, page.Limit)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "user-7", page.Entries[0].PerformedBy)

	rec = s.do(t, http.MethodGet, "/api/v1/fleet/audit/entity/trailer/t-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// performer defaults to the token subject
	rec = s.do(t, http.MethodPost, "/api/v1/fleet/audit/log", map[string]interface{}{
		"action":     "ASSIGN",
		"entityType": "DRIVER",
		"entityId":   "d-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var assigned entity.AuditLogEntry
	decode(t, rec, &assigned)
	assert.Equal(t, testOwner, assigned.PerformedBy)
	require.NotNil(t, assigned.PerformerName)
	assert.Equal(t, "Dispatch", *assigned.PerformerName)

	// entries are scoped to the token owner
	s.token = mintToken(t, "owner-2")
	rec = s.do(t, http.MethodGet, "/api/v1/fleet/audit/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &page)
	assert.Zero(t, page.Total)
}
