package dbopen

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func TestOpenMemory_AppliesSchema(t *testing.T) {
	// WHAT: WithSchema runs the DDL before the database is handed back.
	// WHY: Store packages rely on tables existing immediately after Open.
	db := OpenMemory(t, WithSchema(`CREATE TABLE things (id TEXT PRIMARY KEY)`))

	if _, err := db.Exec(`INSERT INTO things (id) VALUES ('a')`); err != nil {
		t.Fatalf("insert into schema table: %v", err)
	}
}

func TestOpen_Pragmas(t *testing.T) {
	// WHAT: foreign_keys pragma is ON by default and OFF with the option.
	db := OpenMemory(t)
	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}

	db2 := OpenMemory(t, WithoutForeignKeys())
	if err := db2.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if fk != 0 {
		t.Errorf("foreign_keys = %d, want 0 with WithoutForeignKeys", fk)
	}
}

func TestIsBusy(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("database is locked"), true},
		{errors.New("SQLITE_BUSY (5)"), true},
		{errors.New("no such table"), false},
	}
	for _, tc := range cases {
		if got := IsBusy(tc.err); got != tc.want {
			t.Errorf("IsBusy(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestRunTx_CommitsAndRollsBack(t *testing.T) {
	// WHAT: RunTx commits on nil error and rolls back when fn fails.
	db := OpenMemory(t, WithSchema(`CREATE TABLE rows (id TEXT PRIMARY KEY)`))
	ctx := context.Background()

	err := RunTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO rows (id) VALUES ('keep')`)
		return err
	})
	if err != nil {
		t.Fatalf("RunTx commit: %v", err)
	}

	wantErr := errors.New("boom")
	err = RunTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO rows (id) VALUES ('drop')`); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("RunTx error = %v, want %v", err, wantErr)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM rows`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("row count = %d, want 1 (rollback must discard 'drop')", n)
	}
}
