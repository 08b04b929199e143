// Package browser manages the Chrome lifecycle for a harvest run: one
// launch, one stealth page reused for every gene, clipboard permission
// granted once per target origin, and native dialogs auto-accepted.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Config configures the browser manager.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Headless controls browser visibility. Headful is the debug mode.
	Headless bool

	// NavTimeout bounds each navigation. Default: 30s.
	NavTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.NavTimeout <= 0 {
		c.NavTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Manager owns the Chrome process and the single harvest page.
type Manager struct {
	cfg     Config
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
}

// NewManager creates a Manager. Call Start to launch Chrome.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Start launches Chrome (or connects to a remote instance), opens the
// harvest page with stealth applied, grants clipboard access for the
// origin of entryURL, and installs the dialog auto-accepter.
func (m *Manager) Start(ctx context.Context, entryURL string) (*Tab, error) {
	log := m.cfg.Logger

	var wsURL string
	if m.cfg.RemoteURL != "" {
		wsURL = m.cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().Headless(m.cfg.Headless)
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		log.Info("browser: launched local chrome", "headless", m.cfg.Headless)
	}

	b := rod.New().Context(ctx).ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	m.browser = b

	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("browser: ignore cert errors failed", "error", err)
	}

	if err := m.grantClipboard(entryURL); err != nil {
		// Degraded, not fatal: the network and DOM channels still work.
		log.Warn("browser: clipboard permission grant failed", "error", err)
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	m.page = page

	autoAcceptDialogs(page, log)

	return &Tab{Page: page, navTimeout: m.cfg.NavTimeout, logger: log}, nil
}

// Close shuts down Chrome.
func (m *Manager) Close() error {
	if m.page != nil {
		m.page.Close()
		m.page = nil
	}
	if m.browser != nil {
		m.browser.Close()
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	return nil
}

// grantClipboard grants clipboard read/write for the entry origin so
// navigator.clipboard.readText resolves without a prompt.
func (m *Manager) grantClipboard(entryURL string) error {
	u, err := url.Parse(entryURL)
	if err != nil {
		return fmt.Errorf("browser: parse entry url: %w", err)
	}
	origin := u.Scheme + "://" + u.Host

	return proto.BrowserGrantPermissions{
		Origin: origin,
		Permissions: []proto.BrowserPermissionType{
			proto.BrowserPermissionTypeClipboardReadWrite,
			proto.BrowserPermissionTypeClipboardSanitizedWrite,
		},
	}.Call(m.browser)
}

// autoAcceptDialogs accepts every native dialog (alert, confirm,
// beforeunload) so a stray prompt can never wedge the workflow.
func autoAcceptDialogs(page *rod.Page, log *slog.Logger) {
	go page.EachEvent(func(e *proto.PageJavascriptDialogOpening) {
		log.Debug("browser: auto-accepting dialog", "type", string(e.Type), "message", e.Message)
		err := proto.PageHandleJavaScriptDialog{Accept: true}.Call(page)
		if err != nil {
			log.Warn("browser: dialog handle failed", "error", err)
		}
	})()
}
