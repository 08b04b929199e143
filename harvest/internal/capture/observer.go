// CLAUDE:SUMMARY Per-gene CDP network observer recording classifier-valid export bodies.
package capture

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/msaharvest/seqdata"
)

// urlHints are URL substrings suggesting an exported-sequence exchange.
var urlHints = []string{"msa", "export", "fasta", "align"}

// textMIMEs are content types recorded unconditionally of the URL.
var textMIMEs = []string{"text/plain", "text/tab-separated-values"}

// binaryMIMEs are content types never recorded, whatever the URL says.
var binaryMIMEs = []string{"image/", "application/octet-stream", "application/pdf"}

// Observer passively records network responses that look like exported
// sequence data on one page, for the duration of one gene's workflow.
// All state is owned by the Observer value: a new Observer is installed
// per gene and stopped before the next gene begins, so a late response
// can never be attributed to the wrong gene.
type Observer struct {
	page     *rod.Page
	minChars int
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending map[proto.NetworkRequestID]string // request ID → URL of candidate responses
	best    string                            // longest classifier-valid body seen
}

// NewObserver creates an Observer for page. Bodies shorter than
// minChars or failing the classifier are discarded.
func NewObserver(page *rod.Page, minChars int, logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Observer{
		page:     page,
		minChars: minChars,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[proto.NetworkRequestID]string),
	}
}

// Start enables the Network domain and subscribes to response events.
// Response metadata arrives on responseReceived; the body is only
// fetchable once loadingFinished fires, so candidates are staged in
// between.
func (o *Observer) Start() error {
	if err := (proto.NetworkEnable{}).Call(o.page); err != nil {
		return err
	}

	go o.page.Context(o.ctx).EachEvent(
		func(e *proto.NetworkResponseReceived) {
			if !o.interesting(e.Response.URL, e.Response.MIMEType) {
				return
			}
			o.mu.Lock()
			o.pending[e.RequestID] = e.Response.URL
			o.mu.Unlock()
		},
		func(e *proto.NetworkLoadingFinished) {
			o.mu.Lock()
			url, ok := o.pending[e.RequestID]
			delete(o.pending, e.RequestID)
			o.mu.Unlock()
			if !ok {
				return
			}
			o.fetchBody(e.RequestID, url)
		},
	)()

	return nil
}

// Stop cancels the subscription. State already recorded stays readable.
func (o *Observer) Stop() {
	o.cancel()
}

// Best returns the longest classifier-valid body observed so far, or ""
// when nothing qualified.
func (o *Observer) Best() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.best
}

// interesting applies the URL/MIME recording rules: exclude binary
// types, then accept either a hinted URL or a plain-text export MIME.
func (o *Observer) interesting(url, mime string) bool {
	m := strings.ToLower(mime)
	for _, b := range binaryMIMEs {
		if strings.HasPrefix(m, b) {
			return false
		}
	}
	u := strings.ToLower(url)
	for _, h := range urlHints {
		if strings.Contains(u, h) {
			return true
		}
	}
	for _, t := range textMIMEs {
		if strings.HasPrefix(m, t) {
			return true
		}
	}
	return false
}

func (o *Observer) fetchBody(id proto.NetworkRequestID, url string) {
	res, err := proto.NetworkGetResponseBody{RequestID: id}.Call(o.page.Context(o.ctx))
	if err != nil {
		o.logger.Debug("capture: response body unavailable", "url", url, "error", err)
		return
	}
	body := res.Body
	if res.Base64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return
		}
		body = string(decoded)
	}

	if len(body) < o.minChars || !seqdata.Classify(body) {
		return
	}

	o.mu.Lock()
	if len(body) > len(o.best) {
		o.best = body
		o.logger.Debug("capture: recorded network body", "url", url, "size", len(body))
	}
	o.mu.Unlock()
}
