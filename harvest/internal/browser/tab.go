package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
)

// Tab wraps the single harvest page. Every gene re-navigates the same
// tab; there is no tab pool.
type Tab struct {
	Page       *rod.Page
	navTimeout time.Duration
	logger     *slog.Logger
}

// Navigate loads pageURL and waits for the load event, bounded by the
// configured navigation timeout. A load-wait timeout is degraded, not
// fatal: slow third-party subresources must not fail the gene.
func (t *Tab) Navigate(ctx context.Context, pageURL string) error {
	navCtx, cancel := context.WithTimeout(ctx, t.navTimeout)
	defer cancel()

	if err := t.Page.Context(navCtx).Navigate(pageURL); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := t.Page.Context(navCtx).WaitLoad(); err != nil {
		t.logger.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}
	return nil
}

// Element waits up to timeout for a visible element matching selector.
func (t *Tab) Element(ctx context.Context, selector string, timeout time.Duration) (*rod.Element, error) {
	elCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := t.Page.Context(elCtx).Element(selector)
	if err != nil {
		return nil, err
	}
	if visible, err := el.Visible(); err != nil || !visible {
		return nil, fmt.Errorf("browser: element %s not visible", selector)
	}
	return el, nil
}

// ElementByText waits up to timeout for an element matching selector
// whose text matches the jsRegex pattern.
func (t *Tab) ElementByText(ctx context.Context, selector, jsRegex string, timeout time.Duration) (*rod.Element, error) {
	elCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return t.Page.Context(elCtx).ElementR(selector, jsRegex)
}
