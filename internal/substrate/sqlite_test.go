package substrate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func testSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "fms-test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSchemaCreation(t *testing.T) {
	s := testSQLite(t)
	var count int
	if err := s.conn.QueryRow(`SELECT count(*) FROM substrate`).Scan(&count); err != nil {
		t.Fatalf("substrate table missing: %v", err)
	}
}

func TestSQLiteGetSetOverwrite(t *testing.T) {
	s := testSQLite(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "fms_events"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing = %v, want ErrNotFound", err)
	}
	if err := s.Set(ctx, "fms_events", []byte(`[1]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "fms_events", []byte(`[1,2]`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err := s.Get(ctx, "fms_events")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "[1,2]" {
		t.Errorf("value = %q, want [1,2]", got)
	}

	var rows int
	_ = s.conn.QueryRow(`SELECT count(*) FROM substrate`).Scan(&rows)
	if rows != 1 {
		t.Errorf("rows = %d, want 1", rows)
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Set(ctx, "fms_policy_baseline", []byte(`{"metric":"hygiene_score"}`))
	s.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.Get(ctx, "fms_policy_baseline")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != `{"metric":"hygiene_score"}` {
		t.Errorf("value = %q", got)
	}
}
