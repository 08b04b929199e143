package harvest

import (
	"context"
	"errors"
	"time"

	"github.com/hazyhaar/msaharvest/genelist"
	"github.com/hazyhaar/msaharvest/harvest/internal/browser"
)

// errAttemptFailed stands in when an attempt reports failure without a
// reason. It should not happen with the real pipeline.
var errAttemptFailed = errors.New("harvest: attempt failed")

// retryGene wraps one gene's pipeline invocation with the bounded retry
// budget. The page is reused across attempts; each attempt re-navigates
// on its own. Exhaustion appends a FailureRecord to the failure log.
// Callers only ever see the boolean outcome plus the last error text —
// this is the sole place retry exhaustion becomes terminal.
func (r *Runner) retryGene(ctx context.Context, tab *browser.Tab, gene genelist.Gene) (bool, string) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.Retry.Attempts; attempt++ {
		ok, err := r.proc(ctx, tab, gene)
		if ok {
			return true, ""
		}
		lastErr = err
		if lastErr == nil {
			lastErr = errAttemptFailed
		}
		r.logger.Warn("harvest: gene attempt failed",
			"gene", gene.Name,
			"id", gene.ID,
			"attempt", attempt,
			"of", r.cfg.Retry.Attempts,
			"error", lastErr)

		if attempt < r.cfg.Retry.Attempts {
			if err := sleepCtx(ctx, r.cfg.Retry.Backoff); err != nil {
				break
			}
		}
	}

	// A run cancelled mid-retry is an interrupted gene, not an
	// exhausted one; only exhaustion belongs in the failure log.
	if ctx.Err() != nil {
		return false, lastErr.Error()
	}

	if err := r.flog.Append(gene, lastErr.Error()); err != nil {
		r.logger.Error("harvest: failure log append failed", "gene", gene.Name, "error", err)
	}
	return false, lastErr.Error()
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
