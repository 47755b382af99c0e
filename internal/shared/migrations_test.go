package shared

import (
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
		}
	})

	t.Run("Run Twice", func(t *testing.T) {
		db, err := NewDatabase(MemoryDSN)
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		applied := func() int {
			t.Helper()
			var n int
			if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
				t.Fatalf("failed to query schema_migrations: %v", err)
			}
			return n
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("rerunning migrations should be a no-op: %v", err)
		}

		migrations, _ := loadMigrations()
		if got := applied(); got != len(migrations) {
			t.Fatalf("expected %d applied migrations, got %d", len(migrations), got)
		}

		var seq int
		if err := db.QueryRow("SELECT value FROM play_history_sequence WHERE id = 1").Scan(&seq); err != nil || seq != 0 {
			t.Errorf("expected a zeroed sequence counter, got %d (%v)", seq, err)
		}
	})
}

func TestNewSessionStore(t *testing.T) {
	db, err := NewSessionStore()
	if err != nil {
		t.Fatalf("failed to open session store: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("INSERT INTO play_history (id, sequence, song_id, song_name, url, started_at, created_at, updated_at) VALUES ('x', 1, 'a', 'Song A', 'http://m/a', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM play_history").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row on the same store, got %d", count)
	}

	other, err := NewSessionStore()
	if err != nil {
		t.Fatalf("failed to open second store: %v", err)
	}
	defer other.Close()

	if err := other.QueryRow("SELECT COUNT(*) FROM play_history").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected separate stores to be isolated, got %d rows", count)
	}
}
