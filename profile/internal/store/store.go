// Package store is the two-tier persistence layer behind the profile
// session: a synced tier for the canonical profile and a local tier for the
// attachment and fill history. The tiers are separate SQLite databases so
// the local one can be cleared without touching the profile.
package store

import (
	"database/sql"
	"errors"

	"github.com/hazyhaar/formfill/dbopen"
)

// Fixed record keys per tier.
const (
	profileKey    = "profile"
	attachmentKey = "attachment"
)

// Store holds both tiers.
type Store struct {
	Synced *sql.DB
	Local  *sql.DB
}

// Open opens (or creates) both tier databases and applies their schemas.
func Open(syncedPath, localPath string, opts ...dbopen.Option) (*Store, error) {
	synced, err := dbopen.Open(syncedPath, append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(SyncedSchema),
	}, opts...)...)
	if err != nil {
		return nil, err
	}

	local, err := dbopen.Open(localPath, append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(LocalSchema),
	}, opts...)...)
	if err != nil {
		synced.Close()
		return nil, err
	}

	return &Store{Synced: synced, Local: local}, nil
}

// Close closes both databases.
func (s *Store) Close() error {
	return errors.Join(s.Synced.Close(), s.Local.Close())
}
