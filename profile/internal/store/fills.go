package store

import (
	"context"
	"fmt"
	"time"
)

// FillRecord is one persisted fill-pass report.
type FillRecord struct {
	ID        string `json:"id"`
	PageURL   string `json:"page_url"`
	Pass      int    `json:"pass"`
	Filled    int    `json:"filled"`
	Total     int    `json:"total"`
	CreatedAt int64  `json:"created_at"`
}

// RecordFill inserts a fill-pass report into the local tier.
func (s *Store) RecordFill(ctx context.Context, r *FillRecord) error {
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}
	_, err := s.Local.ExecContext(ctx, `
		INSERT INTO fill_history (id, page_url, pass, filled, total, created_at)
		VALUES (?,?,?,?,?,?)`,
		r.ID, r.PageURL, r.Pass, r.Filled, r.Total, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: record fill: %w", err)
	}
	return nil
}

// RecentFills returns up to limit fill reports, newest first.
func (s *Store) RecentFills(ctx context.Context, limit int) ([]FillRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Local.QueryContext(ctx, `
		SELECT id, page_url, pass, filled, total, created_at
		FROM fill_history ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent fills: %w", err)
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var r FillRecord
		if err := rows.Scan(&r.ID, &r.PageURL, &r.Pass, &r.Filled, &r.Total, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan fill: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
