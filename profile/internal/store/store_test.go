package store

import (
	"context"
	"testing"

	"github.com/hazyhaar/formfill/dbopen"
	"github.com/hazyhaar/formfill/schema"

	_ "modernc.org/sqlite"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	return &Store{
		Synced: dbopen.OpenMemory(t, dbopen.WithSchema(SyncedSchema)),
		Local:  dbopen.OpenMemory(t, dbopen.WithSchema(LocalSchema)),
	}
}

func TestLoadProfile_FirstRunInitializesEmpty(t *testing.T) {
	// WHAT: First LoadProfile writes and returns an empty profile so the
	// fixed key always exists afterwards.
	s := openTest(t)
	ctx := context.Background()

	p, err := s.LoadProfile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 0 {
		t.Errorf("first-run profile = %v, want empty", p)
	}

	var n int
	if err := s.Synced.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("records = %d, want the fixed key row", n)
	}
}

func TestSaveLoadProfile_RoundTrip(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	in := schema.Profile{
		schema.FieldFirstName: "Jane",
		schema.FieldEmail:     "jane@example.com",
	}
	if err := s.SaveProfile(ctx, in); err != nil {
		t.Fatal(err)
	}
	out, err := s.LoadProfile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if out[schema.FieldFirstName] != "Jane" || out[schema.FieldEmail] != "jane@example.com" {
		t.Errorf("profile = %v", out)
	}
}

func TestDocument_RoundTripAndClear(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	// No document yet.
	d, err := s.LoadDocument(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if d != nil {
		t.Fatalf("unexpected document: %+v", d)
	}

	in := &Document{
		Filename: "cv.pdf",
		Content:  []byte("%PDF-1.4 fake"),
		Fragment: schema.Fragment{schema.FieldEmail: "jane@example.com"},
	}
	if err := s.SaveDocument(ctx, in); err != nil {
		t.Fatal(err)
	}

	d, err = s.LoadDocument(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if d.Filename != "cv.pdf" {
		t.Errorf("filename = %q", d.Filename)
	}
	if d.MediaType != "application/pdf" {
		t.Errorf("media type = %q, want the pdf default", d.MediaType)
	}
	if d.Fragment[schema.FieldEmail] != "jane@example.com" {
		t.Errorf("fragment = %v", d.Fragment)
	}

	// Clearing the local tier wipes the document and fill history together
	// but leaves the synced tier alone.
	if err := s.SaveProfile(ctx, schema.Profile{schema.FieldFirstName: "Jane"}); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordFill(ctx, &FillRecord{ID: "fill_1", PageURL: "https://a.example", Pass: 2, Filled: 4, Total: 5}); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearLocal(ctx); err != nil {
		t.Fatal(err)
	}
	d, err = s.LoadDocument(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if d != nil {
		t.Error("document survived ClearLocal")
	}
	fills, err := s.RecentFills(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(fills) != 0 {
		t.Errorf("fill history survived ClearLocal: %v", fills)
	}
	p, err := s.LoadProfile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if p[schema.FieldFirstName] != "Jane" {
		t.Error("synced profile must survive ClearLocal")
	}
}

func TestSaveDocument_ReplacesPrevious(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	s.SaveDocument(ctx, &Document{Filename: "old.pdf", Content: []byte("a")})
	s.SaveDocument(ctx, &Document{Filename: "new.docx", MediaType: "application/msword", Content: []byte("b")})

	d, err := s.LoadDocument(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if d.Filename != "new.docx" {
		t.Errorf("filename = %q, want the replacement", d.Filename)
	}
	var n int
	s.Local.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&n)
	if n != 1 {
		t.Errorf("documents = %d, want 1", n)
	}
}

func TestFillHistory(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	for i, r := range []FillRecord{
		{ID: "fill_1", PageURL: "https://a.example", Pass: 1, Filled: 3, Total: 5},
		{ID: "fill_2", PageURL: "https://a.example", Pass: 2, Filled: 5, Total: 5},
	} {
		r.CreatedAt = int64(1000 + i)
		if err := s.RecordFill(ctx, &r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.RecentFills(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("fills = %d, want 2", len(got))
	}
	if got[0].ID != "fill_2" {
		t.Errorf("newest first: got %q", got[0].ID)
	}
	if got[0].Filled != 5 || got[0].Total != 5 {
		t.Errorf("report = %d/%d", got[0].Filled, got[0].Total)
	}
}
