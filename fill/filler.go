package fill

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/formfill/profile"
	"github.com/hazyhaar/formfill/schema"
)

// Attachment is the document handed to file inputs during a fill.
type Attachment struct {
	Filename  string
	MediaType string // default "application/pdf" when empty
	Content   []byte
}

// Config configures the Filler.
type Config struct {
	// PassDelay separates the two fill passes. Forms that render controls
	// asynchronously get a second chance after this pause. Default: 1s.
	PassDelay time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.PassDelay <= 0 {
		c.PassDelay = time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Filler drives fill passes against live pages. Safe for sequential use;
// fills are synchronous over the page snapshot taken at pass start.
type Filler struct {
	cfg Config

	mu      sync.Mutex
	tmpDirs []string
}

// New creates a Filler.
func New(cfg Config) *Filler {
	cfg.defaults()
	return &Filler{cfg: cfg}
}

// Cleanup removes temp files created for file-input attachments. Call once
// after all fills are done: the browser holds path references to attached
// files until the page is gone.
func (f *Filler) Cleanup() {
	f.mu.Lock()
	dirs := f.tmpDirs
	f.tmpDirs = nil
	f.mu.Unlock()
	for _, d := range dirs {
		os.RemoveAll(d)
	}
}

// Fill runs the dual-pass fill: one pass immediately, a second after
// PassDelay to catch late-rendered controls. The second pass re-evaluates
// the whole page with no reconciliation against the first; its report is
// the one returned, with file-attachment outcomes accumulated across both.
func (f *Filler) Fill(ctx context.Context, page *rod.Page, p schema.Profile, att *Attachment) (Report, error) {
	if p[schema.FieldFirstName] == "" && p[schema.FieldEmail] == "" {
		return Report{}, fmt.Errorf("fill: %w", profile.ErrNoData)
	}

	first, err := f.pass(ctx, page, p, att)
	if err != nil {
		return first, err
	}
	f.cfg.Logger.Info("fill: first pass", "filled", first.Filled, "total", first.Total)

	select {
	case <-ctx.Done():
		return first, ctx.Err()
	case <-time.After(f.cfg.PassDelay):
	}

	second, err := f.pass(ctx, page, p, att)
	if err != nil {
		return second, err
	}
	second.FileAttached = second.FileAttached || first.FileAttached
	second.FileFallback = second.FileFallback || first.FileFallback
	f.cfg.Logger.Info("fill: second pass", "filled", second.Filled, "total", second.Total)
	return second, nil
}

// pass snapshots the page, scans its controls, resolves values and applies
// them. Per-control apply failures are logged and skipped; only losing the
// page itself is fatal.
func (f *Filler) pass(ctx context.Context, page *rod.Page, p schema.Profile, att *Attachment) (Report, error) {
	res, err := page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return Report{}, fmt.Errorf("fill: snapshot page: %w", err)
	}
	controls, err := ScanHTML(res.Value.Str())
	if err != nil {
		return Report{}, fmt.Errorf("fill: parse snapshot: %w", err)
	}

	var rep Report
	rep.Total = len(controls)

	var radios, files []Control

	for _, c := range controls {
		switch c.Kind {
		case KindText, KindTextarea:
			if v, ok := resolveText(&c, p); ok {
				if f.applyValue(ctx, page, c, v, true) {
					rep.Filled++
				}
			}
		case KindDate:
			if v, ok := resolveDate(&c, p); ok {
				if f.applyValue(ctx, page, c, v, false) {
					rep.Filled++
				}
			}
		case KindSelect:
			if i, ok := resolveSelect(&c, p); ok {
				if f.applySelect(ctx, page, c, i) {
					rep.Filled++
				}
			}
		case KindCheckbox:
			switch resolveCheckbox(&c) {
			case checkOn:
				if f.applyChecked(ctx, page, c, true) {
					rep.Filled++
				}
			case checkOff:
				f.applyChecked(ctx, page, c, false)
			}
		case KindRadio:
			radios = append(radios, c)
		case KindFile:
			files = append(files, c)
		}
	}

	for _, group := range radioGroups(radios) {
		if f.applyRadio(ctx, page, group, resolveRadio(group)) {
			rep.Filled++
		}
	}

	if att != nil && len(files) > 0 {
		f.applyFiles(ctx, page, files, att, &rep)
	}
	return rep, nil
}

// applyValue sets a text-like control's value. Input and change events are
// dispatched for text controls so reactive frameworks observe the write;
// date inputs take the bare assignment.
func (f *Filler) applyValue(ctx context.Context, page *rod.Page, c Control, value string, events bool) bool {
	js := `(tag, i, v, fire) => {
		const el = document.getElementsByTagName(tag)[i];
		if (!el) return false;
		el.value = v;
		if (fire) {
			el.dispatchEvent(new Event('input', {bubbles: true}));
			el.dispatchEvent(new Event('change', {bubbles: true}));
		}
		return true;
	}`
	return f.eval(ctx, page, c, js, c.Tag, c.TagIndex, value, events)
}

func (f *Filler) applySelect(ctx context.Context, page *rod.Page, c Control, option int) bool {
	js := `(i, opt) => {
		const el = document.getElementsByTagName('select')[i];
		if (!el || opt >= el.options.length) return false;
		el.selectedIndex = opt;
		el.dispatchEvent(new Event('change', {bubbles: true}));
		return true;
	}`
	return f.eval(ctx, page, c, js, c.TagIndex, option)
}

func (f *Filler) applyChecked(ctx context.Context, page *rod.Page, c Control, on bool) bool {
	js := `(i, on) => {
		const el = document.getElementsByTagName('input')[i];
		if (!el) return false;
		el.checked = on;
		el.dispatchEvent(new Event('change', {bubbles: true}));
		return true;
	}`
	return f.eval(ctx, page, c, js, c.TagIndex, on)
}

// applyRadio checks the chosen radio and fires change on every member of
// the group so dependent listeners re-evaluate the whole set.
func (f *Filler) applyRadio(ctx context.Context, page *rod.Page, group []Control, chosen int) bool {
	idxs := make([]int, len(group))
	for i, c := range group {
		idxs[i] = c.TagIndex
	}
	js := `(idxs, chosen) => {
		const inputs = document.getElementsByTagName('input');
		let ok = false;
		idxs.forEach((idx, i) => {
			const el = inputs[idx];
			if (!el) return;
			if (i === chosen) { el.checked = true; ok = true; }
			el.dispatchEvent(new Event('change', {bubbles: true}));
		});
		return ok;
	}`
	return f.eval(ctx, page, group[chosen], js, idxs, chosen)
}

// applyFiles routes the attachment to the first file input that looks like
// a resume slot. When none qualifies, every file input gets the attention
// marker instead; the condition is reported, never fatal.
func (f *Filler) applyFiles(ctx context.Context, page *rod.Page, files []Control, att *Attachment, rep *Report) {
	target, ok := attachmentTarget(files)

	els, err := page.Context(ctx).Elements("input[type=file]")
	if err != nil {
		f.cfg.Logger.Warn("fill: locate file inputs", "error", err)
		return
	}

	if !ok || target >= len(els) {
		for _, el := range els {
			if _, err := el.Eval(markerJS, false); err != nil {
				f.cfg.Logger.Warn("fill: attention marker", "error", err)
			}
		}
		rep.FileFallback = true
		f.cfg.Logger.Warn("fill: no resume file input matched", "file_inputs", len(files))
		return
	}

	path, err := f.stageAttachment(att)
	if err != nil {
		f.cfg.Logger.Warn("fill: stage attachment", "error", err)
		return
	}

	el := els[target]
	if err := el.SetFiles([]string{path}); err != nil {
		f.cfg.Logger.Warn("fill: set files", "error", err)
		return
	}
	if _, err := el.Eval(`() => {
		this.dispatchEvent(new Event('change', {bubbles: true}));
		this.dispatchEvent(new Event('input', {bubbles: true}));
	}`); err != nil {
		f.cfg.Logger.Warn("fill: file events", "error", err)
	}
	if _, err := el.Eval(markerJS, true); err != nil {
		f.cfg.Logger.Warn("fill: success marker", "error", err)
	}
	rep.FileAttached = true
	rep.Filled++
}

// markerJS paints the fill outcome on a file input: green for an attached
// document, red when the operator has to upload by hand.
const markerJS = `(ok) => {
	if (ok) {
		this.style.border = '2px solid #34a853';
		this.style.backgroundColor = '#e6f4ea';
	} else {
		this.style.border = '2px solid #ea4335';
		this.style.backgroundColor = '#fce8e6';
	}
}`

// stageAttachment writes the attachment under a temp dir keeping its real
// filename: sites read the uploaded file's name, so a random temp name
// would leak into the application.
func (f *Filler) stageAttachment(att *Attachment) (string, error) {
	dir, err := os.MkdirTemp("", "formfill-*")
	if err != nil {
		return "", err
	}
	name := filepath.Base(att.Filename)
	if name == "" || name == "." {
		name = "resume.pdf"
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, att.Content, 0o600); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	f.mu.Lock()
	f.tmpDirs = append(f.tmpDirs, dir)
	f.mu.Unlock()
	return path, nil
}

func (f *Filler) eval(ctx context.Context, page *rod.Page, c Control, js string, args ...any) bool {
	res, err := page.Context(ctx).Eval(js, args...)
	if err != nil {
		f.cfg.Logger.Warn("fill: apply control", "tag", c.Tag, "name", c.Name, "error", err)
		return false
	}
	return res.Value.Bool()
}
