package store

// SyncedSchema is the DDL for the synced tier: the canonical profile record
// under a fixed key.
const SyncedSchema = `
CREATE TABLE IF NOT EXISTS records (
    key         TEXT PRIMARY KEY,
    value       TEXT NOT NULL,
    updated_at  INTEGER NOT NULL
);
`

// LocalSchema is the DDL for the local tier: the attachment, its cached
// extracted fragment, and fill history. Cleared independently of the synced
// tier.
const LocalSchema = `
CREATE TABLE IF NOT EXISTS documents (
    key         TEXT PRIMARY KEY,
    filename    TEXT NOT NULL,
    media_type  TEXT NOT NULL DEFAULT 'application/pdf',
    content     BLOB NOT NULL,
    fragment    TEXT NOT NULL DEFAULT '{}',
    created_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fill_history (
    id          TEXT PRIMARY KEY,
    page_url    TEXT NOT NULL,
    pass        INTEGER NOT NULL DEFAULT 1,
    filled      INTEGER NOT NULL DEFAULT 0,
    total       INTEGER NOT NULL DEFAULT 0,
    created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fill_history_time ON fill_history(created_at DESC);
`
