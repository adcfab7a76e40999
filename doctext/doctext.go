// Package doctext turns an uploaded document buffer into raw recognized
// text. It stands in for the OCR collaborator: callers hand it bytes plus a
// filename and get back plain text, synchronously or as a single-shot
// asynchronous task.
//
// Supported formats:
//
//	.pdf   — content-stream text extraction via pdfcpu
//	.docx  — word/document.xml from the ZIP archive
//	.html  — sanitized with bluemonday, converted to markdown
//	.md    — passthrough with line normalization
//	.txt   — passthrough with line normalization
package doctext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat reports a file extension the pipeline cannot read.
// Distinct from an extraction failure: extraction never starts.
var ErrUnsupportedFormat = errors.New("doctext: unsupported format")

// ErrNoText reports a document that yielded no text at all.
var ErrNoText = errors.New("doctext: no text content found")

// Config configures the extraction pipeline.
type Config struct {
	// MaxSize is the maximum attachment size in bytes (default: 20 MB).
	MaxSize int64 `json:"max_size" yaml:"max_size"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxSize <= 0 {
		c.MaxSize = 20 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Pipeline is the document text-extraction engine.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{cfg: cfg, logger: cfg.Logger}
}

// Detect returns the document format based on the filename extension.
func (p *Pipeline) Detect(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDocx, nil
	case ".md", ".markdown":
		return FormatMD, nil
	case ".txt", ".text":
		return FormatTXT, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Extract parses the attachment and returns its recognized text.
func (p *Pipeline) Extract(ctx context.Context, data []byte, filename string) (*Document, error) {
	if int64(len(data)) > p.cfg.MaxSize {
		return nil, fmt.Errorf("doctext: attachment too large: %d bytes (max %d)", len(data), p.cfg.MaxSize)
	}
	format, err := p.Detect(filename)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var text string
	var quality *Quality

	switch format {
	case FormatPDF:
		text, quality, err = extractPDF(data)
	case FormatDocx:
		text, err = extractDocx(data)
	case FormatHTML:
		text, err = p.extractHTML(data)
	case FormatMD, FormatTXT:
		text = normalizeLines(string(data))
	}
	if err != nil {
		return nil, fmt.Errorf("doctext: extract %s: %w", format, err)
	}

	text = normalizeLines(text)
	if text == "" {
		return nil, ErrNoText
	}

	doc := &Document{
		Filename:  filename,
		Format:    format,
		MediaType: mediaTypeFor(format),
		Text:      text,
		Quality:   quality,
	}
	p.logger.Debug("doctext: extracted",
		"filename", filename, "format", format, "chars", len(text))
	return doc, nil
}

// ExtractAsync runs Extract in the background and delivers the outcome once
// on the returned channel. There is no cancellation path beyond ctx: a
// caller that stops listening simply never observes completion.
func (p *Pipeline) ExtractAsync(ctx context.Context, data []byte, filename string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		doc, err := p.Extract(ctx, data, filename)
		out <- Result{Doc: doc, Err: err}
		close(out)
	}()
	return out
}

func mediaTypeFor(f Format) string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatHTML:
		return "text/html"
	case FormatMD:
		return "text/markdown"
	default:
		return "text/plain"
	}
}

// normalizeLines trims trailing whitespace per line and collapses runs of
// blank lines, preserving the line structure the parser heuristics rely on.
func normalizeLines(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var out []string
	blank := true
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
