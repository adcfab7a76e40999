// Command formfill fills job-application forms from a canonical profile.
//
// Usage:
//
//	formfill -update '{"first_name":"Jane","email":"j@x.com"}'  # merge manual fields
//	formfill -extract resume.pdf            # extract + parse a document, store as attachment
//	formfill -fill https://example.com/apply
//	formfill -verify https://example.com/apply
//	formfill -show                          # print the merged profile
//	formfill -history                       # recent fill reports
//	formfill -reset -yes                    # clear both storage tiers
//	formfill -serve -config formfill.yaml   # HTTP API + optional MCP surface
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/formfill/dbopen"
	"github.com/hazyhaar/formfill/docparse"
	"github.com/hazyhaar/formfill/doctext"
	"github.com/hazyhaar/formfill/fill"
	"github.com/hazyhaar/formfill/observability"
	"github.com/hazyhaar/formfill/profile"
)

func main() {
	configPath := flag.String("config", "", "path to formfill.yaml config file")
	fillURL := flag.String("fill", "", "smart-fill a page URL")
	verifyURL := flag.String("verify", "", "verify fill state of a page URL")
	autofillURL := flag.String("autofill", "", "extract the browser autofill snapshot of a page URL")
	clickURL := flag.String("click", "", "click submit/apply/next buttons on a page URL")
	extractPath := flag.String("extract", "", "extract a document file (pdf/docx/html/txt) into the profile")
	updateJSON := flag.String("update", "", "merge manual fields from a JSON object and save")
	show := flag.Bool("show", false, "print the merged profile and source flags")
	history := flag.Bool("history", false, "print recent fill reports")
	reset := flag.Bool("reset", false, "clear both storage tiers (requires -yes)")
	yes := flag.Bool("yes", false, "confirm destructive operations")
	serve := flag.Bool("serve", false, "run the HTTP API and MCP surface")
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of a password and exit")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*hashPassword), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(hash))
		return
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg, modes{
		fillURL:     *fillURL,
		verifyURL:   *verifyURL,
		autofillURL: *autofillURL,
		clickURL:    *clickURL,
		extractPath: *extractPath,
		updateJSON:  *updateJSON,
		show:        *show,
		history:     *history,
		reset:       *reset,
		yes:         *yes,
		serve:       *serve,
	}); err != nil {
		logger.Error("formfill: fatal", "error", err)
		os.Exit(1)
	}
}

type modes struct {
	fillURL, verifyURL, autofillURL, clickURL string
	extractPath, updateJSON                   string
	show, history, reset, yes, serve          bool
}

// app bundles the long-lived pieces every mode needs.
type app struct {
	cfg     Config
	logger  *slog.Logger
	session *profile.Session
	events  *observability.EventLogger
	obsDB   *sql.DB
}

func run(ctx context.Context, logger *slog.Logger, cfg Config, m modes) error {
	a, err := openApp(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	switch {
	case m.updateJSON != "":
		return a.runUpdate(ctx, m.updateJSON)
	case m.extractPath != "":
		return a.runExtract(ctx, m.extractPath)
	case m.fillURL != "":
		return a.withEngine(ctx, func(e *fill.Engine) error { return a.runFill(ctx, e, m.fillURL) })
	case m.verifyURL != "":
		return a.withEngine(ctx, func(e *fill.Engine) error { return a.runVerify(ctx, e, m.verifyURL) })
	case m.autofillURL != "":
		return a.withEngine(ctx, func(e *fill.Engine) error { return a.runAutofill(ctx, e, m.autofillURL) })
	case m.clickURL != "":
		return a.withEngine(ctx, func(e *fill.Engine) error { return a.runClick(ctx, e, m.clickURL) })
	case m.show:
		return a.runShow()
	case m.history:
		return a.runHistory(ctx)
	case m.reset:
		return a.runReset(ctx, m.yes)
	case m.serve:
		return a.runServe(ctx)
	}

	fmt.Fprintln(os.Stderr, "usage: formfill -fill <url> | -verify <url> | -extract <file> | -update <json> | -show | -history | -reset -yes | -serve")
	os.Exit(1)
	return nil
}

func openApp(ctx context.Context, logger *slog.Logger, cfg Config) (*app, error) {
	session, err := profile.Open(ctx, cfg.syncedDBPath(), cfg.localDBPath(), logger, dbopen.WithMkdirAll())
	if err != nil {
		return nil, err
	}

	obsDB, err := dbopen.Open(cfg.obsDBPath(), dbopen.WithMkdirAll(), dbopen.WithSchema(observability.Schema))
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("open observability db: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		session: session,
		events:  observability.NewEventLogger(obsDB),
		obsDB:   obsDB,
	}, nil
}

func (a *app) close() {
	a.obsDB.Close()
	a.session.Close()
}

// withEngine starts a browser for the duration of one page operation.
func (a *app) withEngine(ctx context.Context, fn func(*fill.Engine) error) error {
	e := fill.NewEngine(a.session, fill.EngineConfig{
		RemoteURL: a.cfg.Browser.RemoteURL,
		Headful:   a.cfg.Browser.Headful,
		NoStealth: a.cfg.Browser.NoStealth,
		PassDelay: a.cfg.Browser.PassDelay,
		Logger:    a.logger,
	})
	if err := e.Start(ctx); err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

func (a *app) runFill(ctx context.Context, e *fill.Engine, pageURL string) error {
	rep, err := e.SmartFill(ctx, pageURL)
	a.events.LogEvent(ctx, observability.BusinessEvent{
		EventType:   "fill.page",
		ServiceName: "formfill",
		EntityType:  "page",
		EntityID:    pageURL,
		Action:      "smart_fill",
		Details:     fmt.Sprintf(`{"filled":%d,"total":%d}`, rep.Filled, rep.Total),
		Success:     err == nil,
	})
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"report": rep, "percent": rep.Percent()})
}

func (a *app) runVerify(ctx context.Context, e *fill.Engine, pageURL string) error {
	rep, err := e.Verify(ctx, pageURL)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"report": rep, "percent": rep.Percent()})
}

func (a *app) runAutofill(ctx context.Context, e *fill.Engine, pageURL string) error {
	raw, err := e.ExtractAutofill(ctx, pageURL)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"fields": raw})
}

func (a *app) runClick(ctx context.Context, e *fill.Engine, pageURL string) error {
	n, err := e.ClickButtons(ctx, pageURL)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"clicked": n})
}

func (a *app) runUpdate(ctx context.Context, raw string) error {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return fmt.Errorf("parse -update JSON: %w", err)
	}
	a.session.MergeManual(fields)
	if err := a.session.Save(ctx); err != nil {
		return err
	}
	a.events.LogEvent(ctx, observability.BusinessEvent{
		EventType: "profile.save", ServiceName: "formfill", Action: "update", Success: true,
	})
	return printJSON(map[string]any{"profile": a.session.Profile()})
}

func (a *app) runExtract(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	pipe := doctext.New(doctext.Config{Logger: a.logger})
	doc, err := pipe.Extract(ctx, data, filepath.Base(path))
	a.events.LogEvent(ctx, observability.BusinessEvent{
		EventType: "document.extract", ServiceName: "formfill",
		EntityType: "document", EntityID: filepath.Base(path),
		Action: "extract", Success: err == nil,
	})
	if err != nil {
		return err
	}

	frag := docparse.Parse(doc.Text)
	if err := a.session.StoreAttachment(ctx, doc.Filename, doc.MediaType, data, frag); err != nil {
		return err
	}
	return printJSON(map[string]any{
		"filename": doc.Filename,
		"format":   doc.Format,
		"quality":  doc.Quality,
		"fields":   frag,
	})
}

func (a *app) runShow() error {
	return printJSON(map[string]any{
		"profile": a.session.Profile(),
		"sources": a.session.Sources(),
		"hasData": a.session.HasData(),
	})
}

func (a *app) runHistory(ctx context.Context) error {
	fills, err := a.session.RecentFills(ctx, 20)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"fills": fills})
}

func (a *app) runReset(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("reset is irreversible: pass -yes to confirm")
	}
	if err := a.session.Reset(ctx); err != nil {
		return err
	}
	a.events.LogEvent(ctx, observability.BusinessEvent{
		EventType: "profile.reset", ServiceName: "formfill", Action: "reset", Success: true,
	})
	fmt.Println("storage cleared")
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
