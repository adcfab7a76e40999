// Package profile maintains the working canonical profile across a formfill
// session: one owned, single-writer object that merges the manual, document
// and browser sources in fixed order and fronts the two-tier store.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hazyhaar/formfill/dbopen"
	"github.com/hazyhaar/formfill/profile/internal/store"
	"github.com/hazyhaar/formfill/schema"
)

// SourceFlags reports which sources have contributed data. Purely for
// operator reporting; flags never gate a fill attempt.
type SourceFlags struct {
	Manual   bool `json:"manual"`
	Document bool `json:"document"`
	Browser  bool `json:"browser"`
}

// Attachment is the stored document handed to a fill pass.
type Attachment struct {
	Filename  string
	MediaType string
	Content   []byte
}

// Session owns the working profile. All mutation goes through it; the merge
// order document → manual → browser is fixed and recomputed on read, so the
// last-queried source (browser) wins per key.
type Session struct {
	mu     sync.Mutex
	st     *store.Store
	logger *slog.Logger

	document schema.Fragment
	manual   schema.Fragment
	browser  schema.Fragment
}

// Open opens the two tier databases and restores the session: the last saved
// profile seeds the manual source, the cached document fragment seeds the
// document source.
func Open(ctx context.Context, syncedPath, localPath string, logger *slog.Logger, opts ...dbopen.Option) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	st, err := store.Open(syncedPath, localPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("profile: open store: %w", err)
	}

	s := &Session{st: st, logger: logger}
	saved, err := st.LoadProfile(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}
	if len(saved) > 0 {
		s.manual = schema.Fragment(saved)
	}

	doc, err := st.LoadDocument(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}
	if doc != nil && len(doc.Fragment) > 0 {
		s.document = doc.Fragment
	}

	return s, nil
}

// Close closes the underlying store.
func (s *Session) Close() error {
	return s.st.Close()
}

// MergeManual normalizes freshly entered data and replaces the manual source.
func (s *Session) MergeManual(raw map[string]any) {
	frag := schema.Normalize(raw)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(frag) > 0 {
		s.manual = mergeFrag(s.manual, frag)
	}
}

// MergeDocument replaces the document-derived source.
func (s *Session) MergeDocument(frag schema.Fragment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(frag) > 0 {
		s.document = mergeFrag(s.document, frag)
	}
}

// MergeBrowser normalizes a live browser-autofill snapshot and replaces the
// browser source. Queried last, so it overwrites earlier values per key.
func (s *Session) MergeBrowser(raw map[string]any) {
	frag := schema.Normalize(raw)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(frag) > 0 {
		s.browser = mergeFrag(s.browser, frag)
	}
}

func mergeFrag(dst, src schema.Fragment) schema.Fragment {
	if dst == nil {
		dst = make(schema.Fragment, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Profile returns the merged working profile: document, then manual, then
// browser, newer non-empty values overwriting older ones per key.
func (s *Session) Profile() schema.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := make(schema.Profile)
	for _, frag := range []schema.Fragment{s.document, s.manual, s.browser} {
		for k, v := range frag {
			p[k] = v
		}
	}
	return p
}

// Sources reports which sources currently hold any data.
func (s *Session) Sources() SourceFlags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SourceFlags{
		Manual:   len(s.manual) > 0,
		Document: len(s.document) > 0,
		Browser:  len(s.browser) > 0,
	}
}

// HasData reports whether the merged profile carries a first name or email.
func (s *Session) HasData() bool {
	p := s.Profile()
	return p[schema.FieldFirstName] != "" || p[schema.FieldEmail] != ""
}

// Save persists the merged profile to the synced tier. Refuses with
// ErrNoData when the profile has neither first name nor email.
func (s *Session) Save(ctx context.Context) error {
	if !s.HasData() {
		return ErrNoData
	}
	return s.st.SaveProfile(ctx, s.Profile())
}

// StoreAttachment persists the uploaded document and its extracted fragment
// in the local tier, and merges the fragment into the session.
func (s *Session) StoreAttachment(ctx context.Context, filename, mediaType string, content []byte, frag schema.Fragment) error {
	if err := s.st.SaveDocument(ctx, &store.Document{
		Filename:  filename,
		MediaType: mediaType,
		Content:   content,
		Fragment:  frag,
	}); err != nil {
		return err
	}
	s.MergeDocument(frag)
	return nil
}

// Attachment returns the stored document for upload into file inputs, or
// nil when none is stored.
func (s *Session) Attachment(ctx context.Context) (*Attachment, error) {
	doc, err := s.st.LoadDocument(ctx)
	if err != nil || doc == nil {
		return nil, err
	}
	return &Attachment{
		Filename:  doc.Filename,
		MediaType: doc.MediaType,
		Content:   doc.Content,
	}, nil
}

// RecordFill persists a fill-pass report in the local tier.
func (s *Session) RecordFill(ctx context.Context, id, pageURL string, pass, filled, total int) error {
	return s.st.RecordFill(ctx, &store.FillRecord{
		ID:      id,
		PageURL: pageURL,
		Pass:    pass,
		Filled:  filled,
		Total:   total,
	})
}

// RecentFills returns recent fill reports, newest first.
func (s *Session) RecentFills(ctx context.Context, limit int) ([]store.FillRecord, error) {
	return s.st.RecentFills(ctx, limit)
}

// Reset clears both storage tiers and the in-memory sources. Irreversible;
// callers are responsible for operator confirmation.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.st.ClearSynced(ctx); err != nil {
		return err
	}
	if err := s.st.ClearLocal(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.document, s.manual, s.browser = nil, nil, nil
	s.mu.Unlock()
	s.logger.Info("profile: session reset, both tiers cleared")
	return nil
}
