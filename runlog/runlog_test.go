package runlog

import (
	"context"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func TestRunLifecycle(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()

	runID, err := s.BeginRun(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	if err := s.RecordOutcome(ctx, runID, Outcome{
		Gene: "TauD", GeneID: "Medtr0021s0370",
		OK: true, Duration: 1200 * time.Millisecond,
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordOutcome(ctx, runID, Outcome{
		Gene: "CYP71", GeneID: "Medtr0027s0260",
		OK: false, Error: "export control not found", Duration: 8 * time.Second,
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.FinishRun(ctx, runID, 1, 1); err != nil {
		t.Fatal(err)
	}

	outcomes, err := s.Outcomes(ctx, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if !outcomes[0].OK || outcomes[0].Gene != "TauD" || outcomes[0].GeneID != "Medtr0021s0370" {
		t.Errorf("unexpected first outcome: %+v", outcomes[0])
	}
	if outcomes[1].OK || outcomes[1].Error == "" {
		t.Errorf("unexpected second outcome: %+v", outcomes[1])
	}
	if outcomes[1].Duration != 8*time.Second {
		t.Errorf("duration round-trip failed: %v", outcomes[1].Duration)
	}
}

func TestOutcomes_EmptyRun(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()

	runID, err := s.BeginRun(ctx)
	if err != nil {
		t.Fatal(err)
	}
	outcomes, err := s.Outcomes(ctx, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 0 {
		t.Errorf("expected no outcomes, got %d", len(outcomes))
	}
}
