package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"napo-service/internal/infrastructure/persistence"
	gormrepo "napo-service/internal/interface/repository"
	"napo-service/internal/usecase"
	"napo-service/pkg/logger"
	"napo-service/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

type testServer struct {
	e      *echo.Echo
	checks map[string]HealthCheck
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "napo.db") + "?_pragma=foreign_keys(1)"
	db, err := persistence.Open(ctx, persistence.Options{
		Driver:      persistence.DriverSQLite,
		DSN:         dsn,
		PoolSize:    1,
		PoolRecycle: time.Minute,
		PoolTimeout: 5 * time.Second,
	}, logger.NewNopLogger())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.CreateTables(ctx, gormrepo.Models()...); err != nil {
		t.Fatalf("create tables: %v", err)
	}

	log := logger.NewNopLogger()
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics("napo", registry)
	repos := gormrepo.NewRepositories(db.DB())
	audit := gormrepo.NewNoopAuditRepository()

	checks := map[string]HealthCheck{"database": db.Ping}
	e := NewRouter(Options{
		Env:            "test",
		AllowedOrigins: []string{"https://planner.example.com"},
		Logger:         log,
		Metrics:        m,
		Gatherer:       registry,
		HealthChecks:   checks,
	}, Services{
		Zones:   usecase.NewZoneService(repos.Zones, audit, m, log),
		Network: usecase.NewNetworkService(repos.Nodes, repos.TimeWindows, repos.Distances, nil, audit, m, log),
		Fleet:   usecase.NewFleetService(repos.Zones, repos.Transporters, repos.Vehicles, repos.Routes, repos.Assignments, audit, m, log),
		Pricing: usecase.NewPricingService(repos.Pricing, repos.StartFees, audit, m, log),
		Audit:   usecase.NewAuditService(audit, log),
	})
	return &testServer{e: e, checks: checks}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, want, rec.Body.String())
	}
}

// created posts body and returns the id of the new record
func (s *testServer) created(t *testing.T, path, body string) uint {
	t.Helper()
	rec := s.do(t, http.MethodPost, path, body)
	expectStatus(t, rec, http.StatusCreated)
	return decode[struct {
		ID uint `json:"id"`
	}](t, rec).ID
}
