package shared

import (
	"database/sql"
	"testing"
)

func migratedDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func appliedVersions(t *testing.T, db *sql.DB) []int {
	t.Helper()
	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		t.Fatalf("failed to query schema_migrations: %v", err)
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("failed to scan version: %v", err)
		}
		versions = append(versions, v)
	}
	return versions
}

func hasColumn(t *testing.T, db *sql.DB, table, column string) bool {
	t.Helper()
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&n)
	if err != nil {
		t.Fatalf("failed to inspect %s: %v", table, err)
	}
	return n > 0
}

func TestMigrations(t *testing.T) {
	t.Run("Embedded Pairs", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		want := []string{"create_tables", "track_format"}
		if len(migrations) != len(want) {
			t.Fatalf("expected %d migrations, got %d", len(want), len(migrations))
		}
		for i, m := range migrations {
			if m.Version != i {
				t.Errorf("expected version %d at position %d, got %d", i, i, m.Version)
			}
			if m.Name != want[i] {
				t.Errorf("expected name %s, got %s", want[i], m.Name)
			}
			if m.Up == "" || m.Down == "" {
				t.Errorf("migration %d needs both directions", m.Version)
			}
		}
	})

	t.Run("Cache Schema", func(t *testing.T) {
		db := migratedDB(t)

		for _, column := range []string{"service_id", "title", "artists", "isrc", "format"} {
			if !hasColumn(t, db, "tracks", column) {
				t.Errorf("expected tracks.%s", column)
			}
		}
		if !hasColumn(t, db, "settings", "value") {
			t.Error("expected settings.value")
		}

		_, err := db.Exec(`INSERT INTO tracks (id, service_id, title, created_at, updated_at)
			VALUES ('a', '3135556', 'One', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
		if err != nil {
			t.Fatalf("failed to insert track: %v", err)
		}
		_, err = db.Exec(`INSERT INTO tracks (id, service_id, title, created_at, updated_at)
			VALUES ('b', '3135556', 'Again', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
		if err == nil {
			t.Error("expected service_id to be unique")
		}
	})

	t.Run("Rollback Peels One Version", func(t *testing.T) {
		db := migratedDB(t)

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to roll back: %v", err)
		}
		if got := appliedVersions(t, db); len(got) != 1 || got[0] != 0 {
			t.Errorf("expected only version 0 applied, got %v", got)
		}
		if hasColumn(t, db, "tracks", "format") {
			t.Error("expected format column to be dropped")
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to roll back base schema: %v", err)
		}
		if _, err := db.Exec("SELECT 1 FROM tracks LIMIT 1"); err == nil {
			t.Error("expected tracks table to be gone")
		}
		if err := RollbackMigration(db); err == nil {
			t.Error("expected error with nothing left to roll back")
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to migrate again: %v", err)
		}
		if got := appliedVersions(t, db); len(got) != 2 {
			t.Errorf("expected both versions reapplied, got %v", got)
		}
	})

	t.Run("Rerun Is A No-op", func(t *testing.T) {
		db := migratedDB(t)
		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations twice: %v", err)
		}
		if got := appliedVersions(t, db); len(got) != 2 {
			t.Errorf("expected 2 applied versions, got %v", got)
		}
	})

	t.Run("removeComments", func(t *testing.T) {
		got := removeComments("-- header\nCREATE TABLE x (\n  id INTEGER -- key\n);\n\n")
		if got != "CREATE TABLE x (\nid INTEGER\n);" {
			t.Errorf("unexpected output %q", got)
		}
	})
}
