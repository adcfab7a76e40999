package fill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/formfill/fill/internal/browser"
	"github.com/hazyhaar/formfill/idgen"
	"github.com/hazyhaar/formfill/profile"
)

// ErrPageUnreachable means the target page could not be opened or scripted.
// The operator-facing remedy is to refresh or re-check the URL; no retry is
// attempted here.
var ErrPageUnreachable = errors.New("fill: page unreachable, refresh and retry")

// EngineConfig configures the fill Engine.
type EngineConfig struct {
	// RemoteURL connects to an external Chrome over its WebSocket debug
	// URL instead of launching one.
	RemoteURL string

	// Headful shows the browser window during fills.
	Headful bool

	// NoStealth disables the stealth page setup.
	NoStealth bool

	// PassDelay separates the two fill passes. Default: 1s.
	PassDelay time.Duration

	Logger *slog.Logger
}

// Engine is the operator-facing fill surface: it owns the browser, the
// filler and the profile session, and implements the smart-fill, verify,
// autofill-extract and button-click operations against live URLs.
type Engine struct {
	session *profile.Session
	mgr     *browser.Manager
	filler  *Filler
	logger  *slog.Logger
}

// NewEngine creates an Engine over an open profile session. Call Start
// before the first fill and Close when done.
func NewEngine(session *profile.Session, cfg EngineConfig) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{
		session: session,
		mgr: browser.NewManager(browser.Config{
			RemoteURL: cfg.RemoteURL,
			Headful:   cfg.Headful,
			Stealth:   !cfg.NoStealth,
			Logger:    cfg.Logger,
		}),
		filler: New(Config{PassDelay: cfg.PassDelay, Logger: cfg.Logger}),
		logger: cfg.Logger,
	}
}

// Start launches or connects the browser.
func (e *Engine) Start(ctx context.Context) error {
	return e.mgr.Start(ctx)
}

// Close shuts the browser down and removes staged attachment files.
func (e *Engine) Close() error {
	e.filler.Cleanup()
	return e.mgr.Close()
}

// SmartFill runs the full pipeline against a URL: open the page, merge its
// native autofill snapshot into the session (browser source, merged last),
// fill using the resulting profile plus the stored attachment, and record
// the outcome in fill history.
func (e *Engine) SmartFill(ctx context.Context, pageURL string) (Report, error) {
	page, err := e.mgr.Open(ctx, pageURL)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrPageUnreachable, err)
	}
	defer page.Close()

	if raw, err := e.filler.ExtractAutofill(ctx, page); err != nil {
		e.logger.Warn("fill: autofill snapshot failed", "url", pageURL, "error", err)
	} else if len(raw) > 0 {
		e.session.MergeBrowser(raw)
	}

	if !e.session.HasData() {
		return Report{}, fmt.Errorf("fill: %w", profile.ErrNoData)
	}

	var att *Attachment
	if a, err := e.session.Attachment(ctx); err != nil {
		e.logger.Warn("fill: load attachment", "error", err)
	} else if a != nil {
		att = &Attachment{Filename: a.Filename, MediaType: a.MediaType, Content: a.Content}
	}

	rep, err := e.filler.Fill(ctx, page, e.session.Profile(), att)
	if err != nil {
		return rep, err
	}
	if err := e.session.RecordFill(ctx, idgen.New(), pageURL, 2, rep.Filled, rep.Total); err != nil {
		e.logger.Warn("fill: record history", "error", err)
	}
	return rep, nil
}

// Verify opens a URL and reports its current filled/total control counts.
func (e *Engine) Verify(ctx context.Context, pageURL string) (Report, error) {
	page, err := e.mgr.Open(ctx, pageURL)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrPageUnreachable, err)
	}
	defer page.Close()
	return e.filler.Verify(ctx, page)
}

// ExtractAutofill opens a URL and returns the page's raw autofill snapshot
// without merging it into the session.
func (e *Engine) ExtractAutofill(ctx context.Context, pageURL string) (map[string]any, error) {
	page, err := e.mgr.Open(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageUnreachable, err)
	}
	defer page.Close()
	return e.filler.ExtractAutofill(ctx, page)
}

// ClickButtons opens a URL and clicks its submit/apply/next buttons.
func (e *Engine) ClickButtons(ctx context.Context, pageURL string) (int, error) {
	page, err := e.mgr.Open(ctx, pageURL)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPageUnreachable, err)
	}
	defer page.Close()
	return e.filler.ClickButtons(ctx, page)
}
