package doctext

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDetect(t *testing.T) {
	pipe := New(Config{})

	tests := []struct {
		filename string
		format   Format
	}{
		{"cv.pdf", FormatPDF},
		{"cv.docx", FormatDocx},
		{"cv.txt", FormatTXT},
		{"cv.md", FormatMD},
		{"cv.markdown", FormatMD},
		{"cv.html", FormatHTML},
		{"cv.htm", FormatHTML},
	}
	for _, tt := range tests {
		f, err := pipe.Detect(tt.filename)
		if err != nil {
			t.Errorf("Detect(%q): %v", tt.filename, err)
			continue
		}
		if f != tt.format {
			t.Errorf("Detect(%q) = %q, want %q", tt.filename, f, tt.format)
		}
	}
}

func TestDetect_Unsupported(t *testing.T) {
	// WHAT: Unknown extensions report ErrUnsupportedFormat before any
	// extraction work starts.
	pipe := New(Config{})
	_, err := pipe.Detect("photo.png")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtract_Text(t *testing.T) {
	pipe := New(Config{})
	doc, err := pipe.Extract(context.Background(), []byte("Jane Doe  \n\n\n\njane@example.com\n"), "cv.txt")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Format != FormatTXT {
		t.Errorf("format = %q", doc.Format)
	}
	if doc.Text != "Jane Doe\n\njane@example.com" {
		t.Errorf("text = %q, want trimmed lines with collapsed blanks", doc.Text)
	}
	if doc.MediaType != "text/plain" {
		t.Errorf("media type = %q", doc.MediaType)
	}
}

func TestExtract_EmptyIsError(t *testing.T) {
	pipe := New(Config{})
	_, err := pipe.Extract(context.Background(), []byte("   \n  \n"), "cv.txt")
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("err = %v, want ErrNoText", err)
	}
}

func TestExtract_TooLarge(t *testing.T) {
	pipe := New(Config{MaxSize: 10})
	_, err := pipe.Extract(context.Background(), bytes.Repeat([]byte("a"), 11), "cv.txt")
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("err = %v, want size error", err)
	}
}

func TestExtract_Docx(t *testing.T) {
	// Minimal docx: a zip with word/document.xml holding two paragraphs.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte(`<?xml version="1.0"?><w:document><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>jane@example.com</w:t></w:r></w:p>` +
		`</w:body></w:document>`))
	zw.Close()

	pipe := New(Config{})
	doc, err := pipe.Extract(context.Background(), buf.Bytes(), "cv.docx")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "Jane Doe\njane@example.com" {
		t.Errorf("text = %q", doc.Text)
	}
}

func TestExtract_HTML(t *testing.T) {
	pipe := New(Config{})
	htmlDoc := `<html><head><script>evil()</script></head><body>
		<h1>Jane Doe</h1><p>jane@example.com</p></body></html>`
	doc, err := pipe.Extract(context.Background(), []byte(htmlDoc), "cv.html")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc.Text, "Jane Doe") || !strings.Contains(doc.Text, "jane@example.com") {
		t.Errorf("text = %q", doc.Text)
	}
	if strings.Contains(doc.Text, "evil") {
		t.Errorf("script content leaked into text: %q", doc.Text)
	}
}

func TestExtractAsync_SingleShot(t *testing.T) {
	// WHAT: ExtractAsync delivers exactly one Result and closes the channel.
	pipe := New(Config{})
	ch := pipe.ExtractAsync(context.Background(), []byte("hello world"), "cv.txt")

	select {
	case res := <-ch:
		if res.Err != nil {
			t.Fatal(res.Err)
		}
		if res.Doc.Text != "hello world" {
			t.Errorf("text = %q", res.Doc.Text)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("extraction did not complete")
	}

	if _, ok := <-ch; ok {
		t.Error("channel must be closed after the single result")
	}
}

func TestNormalizeLines(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"a\r\nb", "a\nb"},
		{"a  \nb\t\n", "a\nb"},
		{"\n\n\na\n\n\n\nb\n\n", "a\n\nb"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeLines(tc.in); got != tc.want {
			t.Errorf("normalizeLines(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
