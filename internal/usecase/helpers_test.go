package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"napo-service/internal/domain/entity"
	"napo-service/internal/infrastructure/persistence"
	gormrepo "napo-service/internal/interface/repository"
	"napo-service/pkg/logger"
	"napo-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// memoryAudit keeps audit events in memory
type memoryAudit struct {
	mu     sync.Mutex
	events []*entity.AuditEvent
	err    error
}

func (a *memoryAudit) Record(_ context.Context, event *entity.AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, event)
	return nil
}

func (a *memoryAudit) ListByEntity(_ context.Context, name string, id uint, limit int) ([]*entity.AuditEvent, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	var out []*entity.AuditEvent
	for i := len(a.events) - 1; i >= 0 && len(out) < limit; i-- {
		if e := a.events[i]; e.Entity == name && e.EntityID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func (a *memoryAudit) Ping(context.Context) error { return a.err }

func (a *memoryAudit) actions(name string, id uint) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []string
	for _, e := range a.events {
		if e.Entity == name && e.EntityID == id {
			out = append(out, e.Action)
		}
	}
	return out
}

var errAuditDown = errors.New("audit store unavailable")

type fixture struct {
	repos   *gormrepo.Repositories
	audit   *memoryAudit
	metrics *metrics.Metrics
	log     logger.Logger
}

func newFixture(t *testing.T) *fixture {
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

	return &fixture{
		repos:   gormrepo.NewRepositories(db.DB()),
		audit:   &memoryAudit{},
		metrics: metrics.NewMetrics("test", prometheus.NewRegistry()),
		log:     logger.NewNopLogger(),
	}
}

func ptr[T any](v T) *T { return &v }

func actorCtx(actor string) context.Context {
	return WithActor(context.Background(), actor)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
