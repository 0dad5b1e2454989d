package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeFlusher struct {
	calls int
	err   error
}

func (f *fakeFlusher) Flush(ctx context.Context) error {
	f.calls++
	return f.err
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestRecordAccumulatesMetrics(t *testing.T) {
	monitor := NewMonitor(testDB(t), nil, nil)

	monitor.Record(100*time.Millisecond, false)
	monitor.Record(300*time.Millisecond, true)

	snapshot := monitor.Check(context.Background())
	if snapshot.Metrics.TotalAPICalls != 2 {
		t.Fatalf("expected 2 calls, got %d", snapshot.Metrics.TotalAPICalls)
	}
	if snapshot.Metrics.ErrorRate != 50 {
		t.Fatalf("expected 50%% error rate, got %v", snapshot.Metrics.ErrorRate)
	}
	if snapshot.Metrics.ResponseTime != 200 {
		t.Fatalf("expected 200ms average, got %v", snapshot.Metrics.ResponseTime)
	}
	if snapshot.UptimeSec < 0 {
		t.Fatalf("negative uptime: %v", snapshot.UptimeSec)
	}
}

func TestCheckAppendsHistory(t *testing.T) {
	monitor := NewMonitor(testDB(t), nil, nil)

	monitor.Check(context.Background())
	monitor.Check(context.Background())

	history := monitor.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 history points, got %d", len(history))
	}
	if !history[0].Timestamp.Before(history[1].Timestamp) && !history[0].Timestamp.Equal(history[1].Timestamp) {
		t.Fatal("history out of order")
	}
}

func TestHistoryRingBounded(t *testing.T) {
	monitor := NewMonitor(testDB(t), nil, nil)
	for i := 0; i < metricsHistorySize+10; i++ {
		monitor.appendHistory(MetricsPoint{Timestamp: time.Now()})
	}
	if got := len(monitor.History()); got != metricsHistorySize {
		t.Fatalf("ring not bounded: %d", got)
	}
}

func TestFixRequiresConfirmation(t *testing.T) {
	monitor := NewMonitor(testDB(t), nil, nil)

	_, err := monitor.Fix(context.Background(), "database_connection", false)
	if !errors.Is(err, ErrFixUnconfirmed) {
		t.Fatalf("expected ErrFixUnconfirmed, got %v", err)
	}
}

func TestFixUnknownIssue(t *testing.T) {
	monitor := NewMonitor(testDB(t), nil, nil)

	_, err := monitor.Fix(context.Background(), "nonsense", true)
	if !errors.Is(err, ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound, got %v", err)
	}
}

func TestFixDatabaseConnection(t *testing.T) {
	monitor := NewMonitor(testDB(t), nil, nil)

	outcome, err := monitor.Fix(context.Background(), "database_connection", true)
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if !outcome.Success || !outcome.FixApplied {
		t.Fatalf("ping against live sqlite should succeed: %+v", outcome)
	}
}

func TestFixCacheBacklog(t *testing.T) {
	flusher := &fakeFlusher{}
	monitor := NewMonitor(testDB(t), flusher, nil)

	outcome, err := monitor.Fix(context.Background(), "cache_backlog", true)
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if !outcome.Success || flusher.calls != 1 {
		t.Fatalf("flush not applied: %+v calls=%d", outcome, flusher.calls)
	}

	flusher.err = errors.New("redis down")
	outcome, err = monitor.Fix(context.Background(), "cache_backlog", true)
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if outcome.Success || outcome.FixApplied {
		t.Fatalf("failed flush must report failure: %+v", outcome)
	}
}
