package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/formfill/schema"
)

// SaveProfile writes the full canonical profile under the fixed key.
func (s *Store) SaveProfile(ctx context.Context, p schema.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("store: marshal profile: %w", err)
	}
	_, err = s.Synced.ExecContext(ctx, `
		INSERT INTO records (key, value, updated_at) VALUES (?,?,?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		profileKey, string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: save profile: %w", err)
	}
	return nil
}

// LoadProfile reads the stored profile. On first run (no record) it writes
// and returns an empty profile, so later reads always find the fixed key.
func (s *Store) LoadProfile(ctx context.Context) (schema.Profile, error) {
	var raw string
	err := s.Synced.QueryRowContext(ctx,
		`SELECT value FROM records WHERE key = ?`, profileKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		empty := schema.Profile{}
		if err := s.SaveProfile(ctx, empty); err != nil {
			return nil, err
		}
		return empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load profile: %w", err)
	}

	var p schema.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("store: decode profile: %w", err)
	}
	if p == nil {
		p = schema.Profile{}
	}
	return p, nil
}

// ClearSynced removes everything in the synced tier.
func (s *Store) ClearSynced(ctx context.Context) error {
	if _, err := s.Synced.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("store: clear synced: %w", err)
	}
	return nil
}
