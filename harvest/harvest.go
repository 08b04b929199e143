// CLAUDE:SUMMARY Run orchestrator: browser lifecycle, sequential gene loop, pacing, stats, failure log.
// Package harvest orchestrates a full acquisition run: it owns the
// browser lifecycle, walks the gene list strictly sequentially through
// the retry controller, enforces inter-gene pacing, accumulates run
// statistics, and persists the failure log.
//
// Genes are never processed in parallel. One page, one gene at a time:
// the per-gene network observer must not straddle two genes, and
// sequential load is a politeness constraint toward the target site.
package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/msaharvest/genelist"
	"github.com/hazyhaar/msaharvest/harvest/internal/artifact"
	"github.com/hazyhaar/msaharvest/harvest/internal/browser"
	"github.com/hazyhaar/msaharvest/harvest/internal/config"
	"github.com/hazyhaar/msaharvest/harvest/internal/pipeline"
	"github.com/hazyhaar/msaharvest/report"
	"github.com/hazyhaar/msaharvest/runlog"
)

// progressEvery is the gene interval between progress reports.
const progressEvery = 10

// ProcessFunc runs one gene attempt on the harvest page. The default
// is the acquisition pipeline; tests substitute stubs.
type ProcessFunc func(ctx context.Context, tab *browser.Tab, gene genelist.Gene) (bool, error)

// Stats accumulates run counters. Owned exclusively by the Runner.
type Stats struct {
	Succeeded int
	Failed    int
	StartTime time.Time
}

// Runner is the top-level orchestrator. Create one per run.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	mgr    *browser.Manager
	writer *artifact.Writer
	flog   *artifact.FailureLog
	store  *runlog.Store
	proc   ProcessFunc
	stats  Stats
}

// Option customises a Runner.
type Option func(*Runner)

// WithStore enables run-history recording.
func WithStore(s *runlog.Store) Option {
	return func(r *Runner) { r.store = s }
}

// WithProcessFunc replaces the acquisition pipeline. Test hook.
func WithProcessFunc(f ProcessFunc) Option {
	return func(r *Runner) { r.proc = f }
}

// New creates a Runner from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.ApplyDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	writer, err := artifact.NewWriter(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("harvest: output dir: %w", err)
	}

	r := &Runner{
		cfg:    cfg,
		logger: logger,
		mgr: browser.NewManager(browser.Config{
			RemoteURL:  cfg.Browser.Remote,
			Headless:   cfg.Browser.Headless(),
			NavTimeout: cfg.Waits.Nav,
			Logger:     logger,
		}),
		writer: writer,
		flog:   artifact.NewFailureLog(cfg.FailureLog),
	}

	p := pipeline.New(cfg, writer, logger)
	r.proc = p.ProcessGene

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run processes every gene and returns the run summary. Browser launch
// failure is fatal; per-gene failures never abort the run.
func (r *Runner) Run(ctx context.Context, genes []genelist.Gene) (*report.Summary, error) {
	tab, err := r.mgr.Start(ctx, r.cfg.EntryURL)
	if err != nil {
		return nil, fmt.Errorf("harvest: start browser: %w", err)
	}
	defer r.mgr.Close()

	return r.harvest(ctx, tab, genes)
}

// harvest is the sequential gene loop, split from Run so tests can
// drive it without a browser.
func (r *Runner) harvest(ctx context.Context, tab *browser.Tab, genes []genelist.Gene) (*report.Summary, error) {
	r.stats = Stats{StartTime: time.Now()}

	var runID string
	if r.store != nil {
		id, err := r.store.BeginRun(ctx)
		if err != nil {
			// Recording is auxiliary: never abort a run over it.
			r.logger.Warn("harvest: run store unavailable", "error", err)
		} else {
			runID = id
		}
	}

	r.logger.Info("harvest: run starting", "genes", len(genes), "output", r.writer.Dir())

	for i, gene := range genes {
		// A started gene always runs to completion; cancellation only
		// takes effect between genes.
		if ctx.Err() != nil {
			r.finishStore(ctx, runID)
			return r.summary(), ctx.Err()
		}

		start := time.Now()
		ok, errText := r.retryGene(ctx, tab, gene)
		if ok {
			r.stats.Succeeded++
		} else {
			r.stats.Failed++
		}
		r.recordOutcome(ctx, runID, gene, ok, errText, time.Since(start))

		if done := i + 1; done%progressEvery == 0 && done < len(genes) {
			elapsed := time.Since(r.stats.StartTime)
			r.logger.Info("harvest: progress",
				"done", done,
				"total", len(genes),
				"succeeded", r.stats.Succeeded,
				"failed", r.stats.Failed,
				"elapsed", elapsed.Round(time.Second),
				"remaining", report.Remaining(done, len(genes), elapsed).Round(time.Second))
		}

		// Pace between genes, skipped after the final one.
		if i < len(genes)-1 {
			if err := sleepCtx(ctx, r.cfg.Pace); err != nil {
				r.finishStore(ctx, runID)
				return r.summary(), err
			}
		}
	}

	r.finishStore(ctx, runID)

	sum := r.summary()
	r.logger.Info("harvest: run complete",
		"total", sum.Total,
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
		"elapsed", sum.Elapsed.Round(time.Second))
	return sum, nil
}

func (r *Runner) summary() *report.Summary {
	sum := &report.Summary{
		Total:     r.stats.Succeeded + r.stats.Failed,
		Succeeded: r.stats.Succeeded,
		Failed:    r.stats.Failed,
		Elapsed:   time.Since(r.stats.StartTime),
		OutputDir: r.writer.Dir(),
	}
	if r.flog.Len() > 0 {
		sum.FailureLog = r.flog.Path()
	}
	return sum
}

func (r *Runner) recordOutcome(ctx context.Context, runID string, gene genelist.Gene, ok bool, errText string, dur time.Duration) {
	if r.store == nil || runID == "" {
		return
	}
	// Outcomes of completed genes are recorded even when the run was
	// cancelled while the gene was in flight.
	ctx = context.WithoutCancel(ctx)
	err := r.store.RecordOutcome(ctx, runID, runlog.Outcome{
		Gene: gene.Name, GeneID: gene.ID,
		OK: ok, Error: errText, Duration: dur,
	})
	if err != nil {
		r.logger.Warn("harvest: outcome record failed", "gene", gene.Name, "error", err)
	}
}

func (r *Runner) finishStore(ctx context.Context, runID string) {
	if r.store == nil || runID == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := r.store.FinishRun(ctx, runID, r.stats.Succeeded, r.stats.Failed); err != nil {
		r.logger.Warn("harvest: run finish record failed", "error", err)
	}
}
