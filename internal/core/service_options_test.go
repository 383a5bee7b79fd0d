package core

import (
	"testing"
	"time"

	ledgermem "hackledger/internal/infra/ledger/memory"
)

func TestServiceOptionsOverrideClockAndLogger(t *testing.T) {
	fixed := time.Unix(123, 0).UTC()
	log := &captureLogger{}
	rec := &captureAuditRecorder{}
	svc := NewInMemoryService(nil, ledgermem.New(),
		WithClock(stubClock{t: fixed}),
		WithLogger(log),
		WithAuditRecorder(rec),
	)

	register(t, svc, "owner.near")
	if _, _, err := svc.CreateHackathon(as("owner.near"), HackathonPayload{Name: "hack"}); err != nil {
		t.Fatalf("create hackathon: %v", err)
	}

	if len(log.calls) == 0 {
		t.Fatalf("expected logger to record calls")
	}
	if len(rec.entries) == 0 || !rec.entries[0].Timestamp.Equal(fixed) {
		t.Fatalf("expected audit timestamps from the injected clock, got %+v", rec.entries)
	}
}

func TestNilOptionsKeepDefaults(t *testing.T) {
	svc := NewInMemoryService(nil, ledgermem.New(), WithLogger(nil), WithClock(nil), WithLedger(nil))
	if svc.logger == nil || svc.clock == nil || svc.ledger == nil {
		t.Fatalf("nil option overwrote a default")
	}
}

func TestNoopLogger(t *testing.T) {
	logger := noopLogger{}
	logger.Debug("msg", "k", "v")
	logger.Info("msg", "k", "v")
	logger.Warn("msg", "k", "v")
	logger.Error("msg", "k", "v")
}
