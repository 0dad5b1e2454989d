// Package health samples host and application metrics, derives actionable
// issues from them, and applies operator-confirmed remediations.
package health

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"gorm.io/gorm"
)

var (
	ErrFixUnconfirmed = errors.New("fix confirmation required")
	ErrIssueNotFound  = errors.New("issue not found")
)

const (
	StatusHealthy  = "healthy"
	StatusWarning  = "warning"
	StatusCritical = "critical"
)

const metricsHistorySize = 60

// Thresholds that turn a metric sample into a reported issue.
const (
	cpuWarnPercent      = 80.0
	memoryWarnPercent   = 80.0
	diskWarnPercent     = 85.0
	errorRateWarn       = 10.0
	responseTimeWarnMS  = 2000.0
	criticalBandPercent = 95.0
)

type Metrics struct {
	CPUUsage       float64 `json:"cpu_usage"`
	MemoryUsage    float64 `json:"memory_usage"`
	DiskUsage      float64 `json:"disk_usage"`
	ResponseTime   float64 `json:"response_time"`
	ActiveSessions int64   `json:"active_sessions"`
	TotalAPICalls  int64   `json:"total_api_calls"`
	ErrorRate      float64 `json:"error_rate"`
}

type Issue struct {
	ID          string    `json:"id"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	AutoFixable bool      `json:"auto_fixable"`
	DetectedAt  time.Time `json:"detected_at"`
}

type Snapshot struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Metrics   Metrics   `json:"metrics"`
	Issues    []Issue   `json:"issues"`
	UptimeSec float64   `json:"uptime_seconds"`
}

type MetricsPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Metrics   Metrics   `json:"metrics"`
}

type FixOutcome struct {
	Success    bool   `json:"success"`
	IssueID    string `json:"issue_id"`
	FixApplied bool   `json:"fix_applied"`
	Result     string `json:"result"`
	Message    string `json:"message"`
}

// CacheFlusher is the cache-side remediation hook.
type CacheFlusher interface {
	Flush(ctx context.Context) error
}

// SessionCounter reports currently active sessions for the metrics panel.
type SessionCounter interface {
	CountActiveSince(cutoff time.Time) (int64, error)
}

// Monitor aggregates request counters with host metrics sampled on demand.
type Monitor struct {
	db       *gorm.DB
	cache    CacheFlusher
	sessions SessionCounter

	startedAt time.Time

	totalCalls  atomic.Int64
	totalErrors atomic.Int64
	totalTimeMS atomic.Int64

	mu      sync.Mutex
	history []MetricsPoint
}

func NewMonitor(db *gorm.DB, cache CacheFlusher, sessions SessionCounter) *Monitor {
	return &Monitor{
		db:        db,
		cache:     cache,
		sessions:  sessions,
		startedAt: time.Now(),
	}
}

// Record accounts one handled request. Called from the HTTP middleware.
func (m *Monitor) Record(duration time.Duration, isError bool) {
	m.totalCalls.Add(1)
	m.totalTimeMS.Add(duration.Milliseconds())
	if isError {
		m.totalErrors.Add(1)
	}
}

// Check samples metrics, derives issues, and appends to the history ring.
func (m *Monitor) Check(ctx context.Context) Snapshot {
	metrics := m.sample(ctx)
	issues := m.detect(ctx, metrics)

	status := StatusHealthy
	for _, issue := range issues {
		if issue.Severity == StatusCritical {
			status = StatusCritical
			break
		}
		status = StatusWarning
	}

	now := time.Now()
	m.appendHistory(MetricsPoint{Timestamp: now, Metrics: metrics})

	return Snapshot{
		Status:    status,
		Timestamp: now,
		Metrics:   metrics,
		Issues:    issues,
		UptimeSec: now.Sub(m.startedAt).Seconds(),
	}
}

// History returns the retained metric samples, oldest first.
func (m *Monitor) History() []MetricsPoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MetricsPoint, len(m.history))
	copy(out, m.history)
	return out
}

// Fix applies the remediation registered for the issue. Refused without
// explicit confirmation; unknown ids report ErrIssueNotFound.
func (m *Monitor) Fix(ctx context.Context, issueID string, confirmed bool) (*FixOutcome, error) {
	if !confirmed {
		return nil, ErrFixUnconfirmed
	}

	switch issueID {
	case "database_connection":
		if err := m.pingDatabase(ctx); err != nil {
			return &FixOutcome{
				Success:    false,
				IssueID:    issueID,
				FixApplied: false,
				Result:     err.Error(),
				Message:    "Database reconnect failed",
			}, nil
		}
		return &FixOutcome{
			Success:    true,
			IssueID:    issueID,
			FixApplied: true,
			Result:     "database connection verified",
			Message:    "Database connection re-established",
		}, nil
	case "cache_backlog":
		if m.cache == nil {
			return nil, ErrIssueNotFound
		}
		if err := m.cache.Flush(ctx); err != nil {
			return &FixOutcome{
				Success:    false,
				IssueID:    issueID,
				FixApplied: false,
				Result:     err.Error(),
				Message:    "Cache flush failed",
			}, nil
		}
		return &FixOutcome{
			Success:    true,
			IssueID:    issueID,
			FixApplied: true,
			Result:     "history cache flushed",
			Message:    "Cache cleared",
		}, nil
	default:
		return nil, ErrIssueNotFound
	}
}

func (m *Monitor) sample(ctx context.Context) Metrics {
	metrics := Metrics{
		TotalAPICalls: m.totalCalls.Load(),
	}

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		metrics.CPUUsage = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		metrics.MemoryUsage = vm.UsedPercent
	}
	if du, err := disk.UsageWithContext(ctx, "/"); err == nil {
		metrics.DiskUsage = du.UsedPercent
	}

	if calls := metrics.TotalAPICalls; calls > 0 {
		metrics.ResponseTime = float64(m.totalTimeMS.Load()) / float64(calls)
		metrics.ErrorRate = float64(m.totalErrors.Load()) / float64(calls) * 100
	}

	if m.sessions != nil {
		if active, err := m.sessions.CountActiveSince(time.Now().Add(-24 * time.Hour)); err == nil {
			metrics.ActiveSessions = active
		}
	}
	return metrics
}

func (m *Monitor) detect(ctx context.Context, metrics Metrics) []Issue {
	now := time.Now()
	issues := []Issue{}

	if metrics.CPUUsage > cpuWarnPercent {
		issues = append(issues, Issue{
			ID:          "high_cpu_usage",
			Severity:    severityFor(metrics.CPUUsage),
			Description: fmt.Sprintf("CPU usage at %.1f%%", metrics.CPUUsage),
			DetectedAt:  now,
		})
	}
	if metrics.MemoryUsage > memoryWarnPercent {
		issues = append(issues, Issue{
			ID:          "high_memory_usage",
			Severity:    severityFor(metrics.MemoryUsage),
			Description: fmt.Sprintf("Memory usage at %.1f%%", metrics.MemoryUsage),
			DetectedAt:  now,
		})
	}
	if metrics.DiskUsage > diskWarnPercent {
		issues = append(issues, Issue{
			ID:          "high_disk_usage",
			Severity:    severityFor(metrics.DiskUsage),
			Description: fmt.Sprintf("Disk usage at %.1f%%", metrics.DiskUsage),
			DetectedAt:  now,
		})
	}
	if metrics.ErrorRate > errorRateWarn {
		issues = append(issues, Issue{
			ID:          "high_error_rate",
			Severity:    StatusWarning,
			Description: fmt.Sprintf("Error rate at %.1f%% of %d calls", metrics.ErrorRate, metrics.TotalAPICalls),
			DetectedAt:  now,
		})
	}
	if metrics.ResponseTime > responseTimeWarnMS {
		issues = append(issues, Issue{
			ID:          "cache_backlog",
			Severity:    StatusWarning,
			Description: fmt.Sprintf("Average response time at %.0fms; flushing the history cache may help", metrics.ResponseTime),
			AutoFixable: true,
			DetectedAt:  now,
		})
	}
	if err := m.pingDatabase(ctx); err != nil {
		issues = append(issues, Issue{
			ID:          "database_connection",
			Severity:    StatusCritical,
			Description: "Database connection check failed: " + err.Error(),
			AutoFixable: true,
			DetectedAt:  now,
		})
	}
	return issues
}

func (m *Monitor) pingDatabase(ctx context.Context) error {
	if m.db == nil {
		return errors.New("database not configured")
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (m *Monitor) appendHistory(point MetricsPoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, point)
	if len(m.history) > metricsHistorySize {
		m.history = m.history[len(m.history)-metricsHistorySize:]
	}
}

func severityFor(percent float64) string {
	if percent > criticalBandPercent {
		return StatusCritical
	}
	return StatusWarning
}
