package capture

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
)

// ReadClipboard reads the page's clipboard via the async clipboard API.
// The browser package grants clipboard-read permission for the target
// origin once at startup; without the grant this rejects and the caller
// falls through to the DOM scan.
func ReadClipboard(ctx context.Context, page *rod.Page) (string, error) {
	res, err := page.Context(ctx).Eval(`() => navigator.clipboard.readText()`)
	if err != nil {
		return "", fmt.Errorf("capture: clipboard read: %w", err)
	}
	return res.Value.Str(), nil
}
