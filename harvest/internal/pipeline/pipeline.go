// Package pipeline drives the per-gene search → autocomplete → export
// → capture workflow on the harvest page.
//
// One ProcessGene call owns one gene attempt end to end: it installs a
// fresh network observer, walks the UI workflow, resolves the captured
// payload through the channel priority order (network, clipboard, DOM),
// classifies it, and persists exactly one outcome file. The observer is
// torn down before the call returns so a late response can never be
// attributed to the next gene.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/msaharvest/genelist"
	"github.com/hazyhaar/msaharvest/harvest/internal/artifact"
	"github.com/hazyhaar/msaharvest/harvest/internal/browser"
	"github.com/hazyhaar/msaharvest/harvest/internal/capture"
	"github.com/hazyhaar/msaharvest/harvest/internal/config"
	"github.com/hazyhaar/msaharvest/seqdata"
)

// observed is the view of the network observer the capture decisions
// need: the longest classifier-valid body seen so far.
type observed interface {
	Best() string
}

// Pipeline processes one gene at a time against the harvest page.
// The channel reads are function fields so the capture decisions can be
// exercised without a live page.
type Pipeline struct {
	cfg    *config.Config
	writer *artifact.Writer
	logger *slog.Logger

	locate        func(ctx context.Context, tab *browser.Tab, control string) *rod.Element
	readClipboard func(ctx context.Context, tab *browser.Tab) (string, error)
	scanDOM       func(ctx context.Context, tab *browser.Tab) (string, error)
}

// New creates a Pipeline.
func New(cfg *config.Config, writer *artifact.Writer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{cfg: cfg, writer: writer, logger: logger}
	p.locate = p.locateControl
	p.readClipboard = func(ctx context.Context, tab *browser.Tab) (string, error) {
		return capture.ReadClipboard(ctx, tab.Page)
	}
	p.scanDOM = func(ctx context.Context, tab *browser.Tab) (string, error) {
		return capture.ScanDOM(ctx, tab.Page)
	}
	return p
}

// ProcessGene runs the full workflow for one gene. It returns true and
// writes the artifact on success; on failure it writes a failure marker
// and returns false with the reason. Errors never escape as panics; the
// retry controller decides whether to re-attempt.
func (p *Pipeline) ProcessGene(ctx context.Context, tab *browser.Tab, gene genelist.Gene) (bool, error) {
	obs := capture.NewObserver(tab.Page, p.cfg.Thresholds.ObserveMinChars, p.logger)
	if err := obs.Start(); err != nil {
		return p.fail(gene, fmt.Errorf("pipeline: install observer: %w", err))
	}
	defer obs.Stop()

	if err := tab.Navigate(ctx, p.cfg.EntryURL); err != nil {
		return p.fail(gene, err)
	}

	if err := p.search(ctx, tab, gene); err != nil {
		return p.fail(gene, err)
	}

	result, err := p.acquire(ctx, tab, gene, obs)
	if err != nil {
		return p.fail(gene, err)
	}
	return p.succeed(gene, result.Text, result.Source)
}

// acquire turns an already-searched page into a captured payload. It is
// the decision core of the pipeline: short-circuit on a large observed
// body, drive the export UI otherwise, then resolve the channels in
// priority order and classify what came back.
func (p *Pipeline) acquire(ctx context.Context, tab *browser.Tab, gene genelist.Gene, obs observed) (*capture.Result, error) {
	// Preferred path: the search itself often triggers the export
	// exchange. If the observer already has a large valid body there is
	// no need to touch the export UI or the clipboard at all.
	if best := obs.Best(); len(best) >= p.cfg.Thresholds.ShortCircuitMinChars {
		p.logger.Info("pipeline: network short-circuit",
			"gene", gene.Name, "size", len(best))
		return &capture.Result{Text: best, Source: capture.SourceNetwork}, nil
	}

	if err := p.export(ctx, tab, gene, obs); err != nil {
		// export signals via shortCircuit that it resolved the gene
		// from observed data instead of the UI.
		if sc, ok := err.(*shortCircuit); ok {
			return &capture.Result{Text: sc.text, Source: capture.SourceNetwork}, nil
		}
		return nil, err
	}

	// Give the export action time to write the clipboard. There is no
	// page event to wait on for a clipboard write.
	if err := sleepCtx(ctx, p.cfg.Waits.Export); err != nil {
		return nil, err
	}

	result := p.resolve(ctx, tab, obs)
	if result == nil {
		return nil, ErrNoData
	}
	if !seqdata.Classify(result.Text) {
		return nil, fmt.Errorf("%w (source %s, %d chars)",
			ErrRejected, result.Source, len(result.Text))
	}
	return result, nil
}

// search fills the search input with the lowercased id token, handles
// the autocomplete suggestion when one appears, submits, and waits for
// the page to settle.
func (p *Pipeline) search(ctx context.Context, tab *browser.Tab, gene genelist.Gene) error {
	searchEl, err := tab.Element(ctx, p.cfg.Selectors.SearchInput, p.cfg.Waits.Settle)
	if err != nil {
		return fmt.Errorf("pipeline: search input: %w", err)
	}

	token := searchToken(gene)

	if err := searchEl.SelectAllText(); err != nil {
		return fmt.Errorf("pipeline: clear search input: %w", err)
	}
	if err := searchEl.Input(token); err != nil {
		return fmt.Errorf("pipeline: type search token: %w", err)
	}

	// Autocomplete is best effort: absence within the timeout is the
	// degraded path, not a failure.
	sug, err := tab.Element(ctx, p.cfg.Selectors.SuggestionItem, p.cfg.Waits.Autocomplete)
	if err == nil {
		if err := sug.Click(proto.InputMouseButtonLeft, 1); err != nil {
			p.logger.Debug("pipeline: suggestion click failed", "gene", gene.Name, "error", err)
		}
	} else {
		p.logger.Debug("pipeline: no autocomplete suggestion", "gene", gene.Name)
	}

	// Arm the settle wait before submitting so the requests fired by
	// the submission are the ones waited on.
	settleCtx, cancel := context.WithTimeout(ctx, p.cfg.Waits.Settle)
	defer cancel()
	waitIdle := tab.Page.Context(settleCtx).WaitRequestIdle(
		500*time.Millisecond, nil, nil, nil)

	if err := searchEl.Type(input.Enter); err != nil {
		return fmt.Errorf("pipeline: submit search: %w", err)
	}

	waitIdle()
	return nil
}

// searchToken derives the submitted search string from a gene. The
// target system only matches lowercase tokens.
func searchToken(gene genelist.Gene) string {
	return strings.ToLower(gene.ID)
}

// shortCircuit signals that export resolved the gene from observed
// network data instead of the UI.
type shortCircuit struct{ text string }

func (s *shortCircuit) Error() string { return "pipeline: resolved from observed data" }

// locateControl is the production locate implementation: it maps the
// control name onto its configured candidate selectors and walks the
// ordered strategy list.
func (p *Pipeline) locateControl(ctx context.Context, tab *browser.Tab, control string) *rod.Element {
	var candidates []string
	var textSel, textRe string
	switch control {
	case "export":
		candidates, textSel, textRe = p.cfg.Selectors.ExportCandidates, p.cfg.Selectors.ExportText, "/export/i"
	case "msa":
		candidates, textSel, textRe = p.cfg.Selectors.MSACandidates, p.cfg.Selectors.MSAText, "/msa/i"
	}
	return p.findFirst(ctx, control, controlStrategies(tab, p, candidates, textSel, textRe))
}

// export locates and activates the Export control and its MSA option
// through the ordered strategy lists. A missed Export control falls
// back to any observed classifier-valid data above the fallback
// threshold; a missed MSA option is a structural failure.
func (p *Pipeline) export(ctx context.Context, tab *browser.Tab, gene genelist.Gene, obs observed) error {
	exportEl := p.locate(ctx, tab, "export")
	if exportEl == nil {
		if best := obs.Best(); len(best) >= p.cfg.Thresholds.FallbackMinChars {
			p.logger.Info("pipeline: export control missing, using observed data",
				"gene", gene.Name, "size", len(best))
			return &shortCircuit{text: best}
		}
		return ErrExportNotFound
	}
	if err := exportEl.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("pipeline: click export: %w", err)
	}

	if err := sleepCtx(ctx, p.cfg.Waits.Dropdown); err != nil {
		return err
	}

	msaEl := p.locate(ctx, tab, "msa")
	if msaEl == nil {
		return ErrMSANotFound
	}
	if err := msaEl.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("pipeline: click msa option: %w", err)
	}
	return nil
}

// resolve tries the capture channels in priority order and returns the
// first non-trivial payload, or nil.
func (p *Pipeline) resolve(ctx context.Context, tab *browser.Tab, obs observed) *capture.Result {
	if best := obs.Best(); best != "" {
		return &capture.Result{Text: best, Source: capture.SourceNetwork}
	}

	clip, err := p.readClipboard(ctx, tab)
	if err != nil {
		p.logger.Debug("pipeline: clipboard read failed", "error", err)
	} else if len(clip) >= p.cfg.Thresholds.FallbackMinChars {
		return &capture.Result{Text: clip, Source: capture.SourceClipboard}
	}

	text, err := p.scanDOM(ctx, tab)
	if err != nil {
		p.logger.Debug("pipeline: dom scan failed", "error", err)
		return nil
	}
	if len(text) >= p.cfg.Thresholds.FallbackMinChars {
		return &capture.Result{Text: text, Source: capture.SourceDOM}
	}
	return nil
}

// succeed writes the artifact byte-identical and clears any marker left
// by an earlier failed attempt, so the gene ends the run with exactly
// one outcome file.
func (p *Pipeline) succeed(gene genelist.Gene, text string, source capture.Source) (bool, error) {
	path, err := p.writer.WriteArtifact(gene, text)
	if err != nil {
		return false, err
	}
	if err := p.writer.RemoveFailureMarker(gene); err != nil {
		p.logger.Warn("pipeline: stale marker removal failed", "gene", gene.Name, "error", err)
	}
	p.logger.Info("pipeline: gene captured",
		"gene", gene.Name, "source", string(source), "size", len(text), "path", path)
	return true, nil
}

// fail writes the failure marker for this attempt and reports the
// reason to the retry controller.
func (p *Pipeline) fail(gene genelist.Gene, reason error) (bool, error) {
	if _, err := p.writer.WriteFailureMarker(gene, reason.Error()); err != nil {
		p.logger.Warn("pipeline: marker write failed", "gene", gene.Name, "error", err)
	}
	return false, reason
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
