package harvest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/hazyhaar/msaharvest/genelist"
	"github.com/hazyhaar/msaharvest/harvest/internal/artifact"
	"github.com/hazyhaar/msaharvest/harvest/internal/browser"
	"github.com/hazyhaar/msaharvest/harvest/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	cfg.FailureLog = filepath.Join(t.TempDir(), "failed.json")
	cfg.Pace = time.Millisecond
	cfg.Retry.Attempts = 3
	cfg.Retry.Backoff = time.Millisecond
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRetryGene_SucceedsOnSecondAttempt(t *testing.T) {
	cfg := testConfig(t)
	calls := 0
	r, err := New(cfg, quietLogger(), WithProcessFunc(
		func(ctx context.Context, tab *browser.Tab, gene genelist.Gene) (bool, error) {
			calls++
			if calls < 2 {
				return false, errors.New("transient selector miss")
			}
			return true, nil
		}))
	if err != nil {
		t.Fatal(err)
	}

	gene := genelist.Gene{Name: "TauD", ID: "Medtr0021s0370"}
	ok, errText := r.retryGene(context.Background(), &browser.Tab{}, gene)
	if !ok {
		t.Fatal("expected success after retry")
	}
	if errText != "" {
		t.Errorf("expected empty error text, got %q", errText)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
	if r.flog.Len() != 0 {
		t.Errorf("failure log should stay empty on eventual success")
	}
}

func TestRetryGene_ExhaustionLogsFailure(t *testing.T) {
	cfg := testConfig(t)
	calls := 0
	r, err := New(cfg, quietLogger(), WithProcessFunc(
		func(ctx context.Context, tab *browser.Tab, gene genelist.Gene) (bool, error) {
			calls++
			return false, errors.New("export control not found")
		}))
	if err != nil {
		t.Fatal(err)
	}

	gene := genelist.Gene{Name: "CYP71", ID: "Medtr0027s0260"}
	ok, errText := r.retryGene(context.Background(), &browser.Tab{}, gene)
	if ok {
		t.Fatal("expected terminal failure")
	}
	if calls != cfg.Retry.Attempts {
		t.Errorf("expected %d attempts, got %d", cfg.Retry.Attempts, calls)
	}
	if errText == "" {
		t.Error("expected non-empty error text")
	}

	records, err := artifact.NewFailureLog(cfg.FailureLog).Read()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one failure record, got %d", len(records))
	}
	if records[0].Gene != "CYP71" || records[0].ID != "Medtr0027s0260" {
		t.Errorf("failure record identity mismatch: %+v", records[0])
	}
	if records[0].Error == "" {
		t.Error("expected non-empty error string in failure record")
	}
}

func TestRetryGene_CancelledMidRetrySkipsFailureLog(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	r, err := New(cfg, quietLogger(), WithProcessFunc(
		func(ctx context.Context, tab *browser.Tab, gene genelist.Gene) (bool, error) {
			calls++
			cancel() // run cancelled while the attempt is in flight
			return false, errors.New("transient selector miss")
		}))
	if err != nil {
		t.Fatal(err)
	}

	gene := genelist.Gene{Name: "TauD", ID: "Medtr0021s0370"}
	ok, errText := r.retryGene(ctx, &browser.Tab{}, gene)
	if ok {
		t.Fatal("expected failure on cancellation")
	}
	if errText == "" {
		t.Error("expected the last attempt error text")
	}
	if calls != 1 {
		t.Errorf("expected the retry loop to stop at the cancelled backoff, got %d attempts", calls)
	}
	if r.flog.Len() != 0 {
		t.Error("an interrupted gene must not enter the failure log")
	}
}

func TestHarvest_CountsAndSummary(t *testing.T) {
	cfg := testConfig(t)
	r, err := New(cfg, quietLogger(), WithProcessFunc(
		func(ctx context.Context, tab *browser.Tab, gene genelist.Gene) (bool, error) {
			if gene.Name == "bad" {
				return false, errors.New("no data resolvable by any channel")
			}
			return true, nil
		}))
	if err != nil {
		t.Fatal(err)
	}

	genes := []genelist.Gene{
		{Name: "a", ID: "medtr0001s0010"},
		{Name: "bad", ID: "medtr0002s0020"},
		{Name: "c", ID: "medtr0003s0030"},
	}
	sum, err := r.harvest(context.Background(), &browser.Tab{}, genes)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Total != 3 || sum.Succeeded != 2 || sum.Failed != 1 {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if sum.FailureLog == "" {
		t.Error("expected failure log path in summary when a gene failed")
	}
}

func TestHarvest_AllSucceedOmitsFailureLog(t *testing.T) {
	cfg := testConfig(t)
	r, err := New(cfg, quietLogger(), WithProcessFunc(
		func(ctx context.Context, tab *browser.Tab, gene genelist.Gene) (bool, error) {
			return true, nil
		}))
	if err != nil {
		t.Fatal(err)
	}

	sum, err := r.harvest(context.Background(), &browser.Tab{},
		[]genelist.Gene{{Name: "a", ID: "x"}, {Name: "b", ID: "y"}})
	if err != nil {
		t.Fatal(err)
	}
	if sum.FailureLog != "" {
		t.Errorf("expected no failure log path, got %q", sum.FailureLog)
	}
}

func TestHarvest_CancellationBetweenGenes(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())

	processed := 0
	r, err := New(cfg, quietLogger(), WithProcessFunc(
		func(ctx context.Context, tab *browser.Tab, gene genelist.Gene) (bool, error) {
			processed++
			cancel() // a started gene still completes
			return true, nil
		}))
	if err != nil {
		t.Fatal(err)
	}

	genes := []genelist.Gene{{Name: "a", ID: "x"}, {Name: "b", ID: "y"}}
	_, err = r.harvest(ctx, &browser.Tab{}, genes)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if processed != 1 {
		t.Errorf("expected run to stop after the in-flight gene, got %d", processed)
	}
}
