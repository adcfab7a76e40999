package main

import (
	"context"
	"crypto/subtle"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/crypto/bcrypt"

	"github.com/hazyhaar/formfill/docparse"
	"github.com/hazyhaar/formfill/doctext"
	"github.com/hazyhaar/formfill/fill"
	"github.com/hazyhaar/formfill/mcpquic"
	"github.com/hazyhaar/formfill/observability"
	"github.com/hazyhaar/formfill/profile"
	"github.com/hazyhaar/formfill/shield"
)

// runServe runs the daemon: a shared browser engine, the HTTP API, the
// configured MCP surface, heartbeats and retention cleanup, all until the
// signal context is cancelled.
func (a *app) runServe(ctx context.Context) error {
	engine := fill.NewEngine(a.session, fill.EngineConfig{
		RemoteURL: a.cfg.Browser.RemoteURL,
		Headful:   a.cfg.Browser.Headful,
		NoStealth: a.cfg.Browser.NoStealth,
		PassDelay: a.cfg.Browser.PassDelay,
		Logger:    a.logger,
	})
	if err := engine.Start(ctx); err != nil {
		return err
	}
	defer engine.Close()

	pipe := doctext.New(doctext.Config{Logger: a.logger})

	// MCP surface.
	switch a.cfg.MCP.Transport {
	case "stdio":
		srv := a.newMCPServer(engine, pipe)
		a.logger.Info("mcp stdio serving")
		return srv.Run(ctx, &mcp.StdioTransport{})
	case "quic":
		srv := a.newMCPServer(engine, pipe)
		var tlsCfg *tls.Config
		var err error
		if a.cfg.MCP.TLSCert != "" && a.cfg.MCP.TLSKey != "" {
			tlsCfg, err = mcpquic.ServerTLSConfig(a.cfg.MCP.TLSCert, a.cfg.MCP.TLSKey)
		} else {
			tlsCfg, err = mcpquic.SelfSignedTLSConfig()
		}
		if err != nil {
			return fmt.Errorf("mcp quic tls: %w", err)
		}
		ql, err := mcpquic.NewListener(a.cfg.MCP.QUICAddr, tlsCfg, srv, a.logger)
		if err != nil {
			return fmt.Errorf("mcp quic listener: %w", err)
		}
		defer ql.Close()
		go func() {
			a.logger.Info("mcp quic serving", "addr", a.cfg.MCP.QUICAddr)
			if err := ql.Serve(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error("mcp quic", "error", err)
			}
		}()
	case "":
	default:
		return fmt.Errorf("unknown mcp transport %q", a.cfg.MCP.Transport)
	}

	go a.heartbeatLoop(ctx)
	go a.retentionLoop(ctx)

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.httpRouter(ctx, engine, pipe),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	a.logger.Info("http serving", "addr", a.cfg.Server.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *app) newMCPServer(engine *fill.Engine, pipe *doctext.Pipeline) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "formfill",
		Version: "1.0.0",
	}, nil)
	a.session.RegisterMCP(srv)
	pipe.RegisterMCP(srv)
	engine.RegisterMCP(srv)
	return srv
}

func (a *app) heartbeatLoop(ctx context.Context) {
	hostname, _ := os.Hostname()
	pid := os.Getpid()
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		a.events.LogHeartbeat(ctx, "formfill", pid, hostname)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (a *app) retentionLoop(ctx context.Context) {
	cfg := observability.RetentionConfig{
		HTTPLogsDays:   a.cfg.Retention.HTTPLogsDays,
		EventLogsDays:  a.cfg.Retention.EventLogsDays,
		HeartbeatsDays: a.cfg.Retention.HeartbeatsDays,
	}
	t := time.NewTicker(24 * time.Hour)
	defer t.Stop()
	for {
		if err := a.events.Cleanup(ctx, cfg); err != nil {
			a.logger.Warn("retention cleanup", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (a *app) httpRouter(ctx context.Context, engine *fill.Engine, pipe *doctext.Pipeline) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	for _, mw := range shield.DefaultAPIStack() {
		r.Use(mw)
	}
	rl := shield.NewRateLimiter(120, time.Minute, "/health")
	rl.StartGC(ctx.Done())
	r.Use(rl.Middleware)
	r.Use(a.events.HTTPLog)
	if a.cfg.Server.AuthUser != "" {
		r.Use(a.basicAuth)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/profile", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"profile": a.session.Profile(),
			"sources": a.session.Sources(),
			"hasData": a.session.HasData(),
		})
	})

	r.Post("/api/profile", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Fields map[string]any `json:"fields"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		a.session.MergeManual(body.Fields)
		if err := a.session.Save(req.Context()); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, profile.ErrNoData) {
				status = http.StatusPreconditionFailed
			}
			writeError(w, status, err)
			return
		}
		a.events.LogEvent(req.Context(), observability.BusinessEvent{
			EventType: "profile.save", ServiceName: "formfill", Action: "update", Success: true,
		})
		writeJSON(w, http.StatusOK, map[string]any{"profile": a.session.Profile()})
	})

	r.Post("/api/document", func(w http.ResponseWriter, req *http.Request) {
		file, header, err := req.FormFile("document")
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		doc, err := pipe.Extract(req.Context(), data, header.Filename)
		a.events.LogEvent(req.Context(), observability.BusinessEvent{
			EventType: "document.extract", ServiceName: "formfill",
			EntityType: "document", EntityID: header.Filename,
			Action: "extract", Success: err == nil,
		})
		if err != nil {
			status := http.StatusUnprocessableEntity
			if errors.Is(err, doctext.ErrUnsupportedFormat) {
				status = http.StatusUnsupportedMediaType
			}
			writeError(w, status, err)
			return
		}

		frag := docparse.Parse(doc.Text)
		if err := a.session.StoreAttachment(req.Context(), doc.Filename, doc.MediaType, data, frag); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"filename": doc.Filename,
			"format":   doc.Format,
			"quality":  doc.Quality,
			"fields":   frag,
		})
	})

	pageOp := func(run func(context.Context, string) (any, error)) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				URL string `json:"url"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.URL == "" {
				writeError(w, http.StatusBadRequest, fmt.Errorf("url is required"))
				return
			}
			out, err := run(req.Context(), body.URL)
			if err != nil {
				status := http.StatusInternalServerError
				switch {
				case errors.Is(err, profile.ErrNoData):
					status = http.StatusPreconditionFailed
				case errors.Is(err, fill.ErrPageUnreachable):
					status = http.StatusBadGateway
				}
				writeError(w, status, err)
				return
			}
			writeJSON(w, http.StatusOK, out)
		}
	}

	r.Post("/api/fill", pageOp(func(ctx context.Context, url string) (any, error) {
		rep, err := engine.SmartFill(ctx, url)
		a.events.LogEvent(ctx, observability.BusinessEvent{
			EventType: "fill.page", ServiceName: "formfill",
			EntityType: "page", EntityID: url, Action: "smart_fill",
			Details: fmt.Sprintf(`{"filled":%d,"total":%d}`, rep.Filled, rep.Total),
			Success: err == nil,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"report": rep, "percent": rep.Percent()}, nil
	}))

	r.Post("/api/verify", pageOp(func(ctx context.Context, url string) (any, error) {
		rep, err := engine.Verify(ctx, url)
		if err != nil {
			return nil, err
		}
		return map[string]any{"report": rep, "percent": rep.Percent()}, nil
	}))

	r.Post("/api/autofill", pageOp(func(ctx context.Context, url string) (any, error) {
		raw, err := engine.ExtractAutofill(ctx, url)
		if err != nil {
			return nil, err
		}
		return map[string]any{"fields": raw}, nil
	}))

	r.Post("/api/click", pageOp(func(ctx context.Context, url string) (any, error) {
		n, err := engine.ClickButtons(ctx, url)
		if err != nil {
			return nil, err
		}
		return map[string]any{"clicked": n}, nil
	}))

	r.Get("/api/history", func(w http.ResponseWriter, req *http.Request) {
		fills, err := a.session.RecentFills(req.Context(), 50)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"fills": fills})
	})

	r.Post("/api/reset", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Confirm bool `json:"confirm"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || !body.Confirm {
			writeError(w, http.StatusBadRequest, fmt.Errorf("reset is irreversible: confirm=true required"))
			return
		}
		if err := a.session.Reset(req.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		a.events.LogEvent(req.Context(), observability.BusinessEvent{
			EventType: "profile.reset", ServiceName: "formfill", Action: "reset", Success: true,
		})
		writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	})

	return r
}

func (a *app) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		user, pass, ok := req.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(a.cfg.Server.AuthUser)) != 1 ||
			bcrypt.CompareHashAndPassword([]byte(a.cfg.Server.AuthPasswordHash), []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="formfill"`)
			writeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			return
		}
		next.ServeHTTP(w, req)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
