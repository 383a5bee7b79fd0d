package core

import (
	"context"
	"time"
)

// Logger receives structured service events as message plus key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MetricsRecorder aggregates per-operation outcome counters and timings.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// AuditStatus classifies the outcome of an audited operation.
type AuditStatus string

const (
	// AuditStatusSuccess marks a committed operation.
	AuditStatusSuccess AuditStatus = "success"
	// AuditStatusError marks an aborted operation.
	AuditStatusError AuditStatus = "error"
)

// AuditEntry captures one service operation for the audit trail.
type AuditEntry struct {
	Operation string        `json:"operation"`
	Entity    EntityType    `json:"entity,omitempty"`
	Action    Action        `json:"action,omitempty"`
	EntityID  string        `json:"entity_id,omitempty"`
	Caller    AccountID     `json:"caller,omitempty"`
	Status    AuditStatus   `json:"status"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	Timestamp time.Time     `json:"timestamp"`
}

// AuditRecorder receives audit entries for committed and aborted operations.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}
