package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/formfill/dbopen"
	"github.com/hazyhaar/formfill/schema"
)

// Document is the stored attachment plus its cached extracted fragment.
type Document struct {
	Filename  string
	MediaType string
	Content   []byte
	Fragment  schema.Fragment
	CreatedAt int64
}

// SaveDocument stores the attachment and fragment under the fixed key,
// replacing any previous one.
func (s *Store) SaveDocument(ctx context.Context, d *Document) error {
	frag, err := json.Marshal(d.Fragment)
	if err != nil {
		return fmt.Errorf("store: marshal fragment: %w", err)
	}
	mediaType := d.MediaType
	if mediaType == "" {
		mediaType = "application/pdf"
	}
	_, err = s.Local.ExecContext(ctx, `
		INSERT INTO documents (key, filename, media_type, content, fragment, created_at)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT(key) DO UPDATE SET
			filename = excluded.filename,
			media_type = excluded.media_type,
			content = excluded.content,
			fragment = excluded.fragment,
			created_at = excluded.created_at`,
		attachmentKey, d.Filename, mediaType, d.Content, string(frag), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: save document: %w", err)
	}
	return nil
}

// LoadDocument returns the stored attachment, or nil when none exists.
func (s *Store) LoadDocument(ctx context.Context) (*Document, error) {
	d := &Document{}
	var frag string
	err := s.Local.QueryRowContext(ctx, `
		SELECT filename, media_type, content, fragment, created_at
		FROM documents WHERE key = ?`, attachmentKey).Scan(
		&d.Filename, &d.MediaType, &d.Content, &frag, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load document: %w", err)
	}
	if err := json.Unmarshal([]byte(frag), &d.Fragment); err != nil {
		return nil, fmt.Errorf("store: decode fragment: %w", err)
	}
	return d, nil
}

// ClearLocal removes the attachment, its fragment, and fill history in one
// transaction, so a reset never leaves one table wiped and the other not.
// The synced profile is untouched.
func (s *Store) ClearLocal(ctx context.Context) error {
	err := dbopen.RunTx(ctx, s.Local, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM fill_history`)
		return err
	})
	if err != nil {
		return fmt.Errorf("store: clear local: %w", err)
	}
	return nil
}
