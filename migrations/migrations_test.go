package migrations

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tables(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'goose%' AND name NOT LIKE 'sqlite%' ORDER BY name`)
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	defer func() { _ = rows.Close() }()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			t.Fatalf("scan: %v", err)
		}
		names = append(names, n)
	}
	return names
}

func columnExists(t *testing.T, db *sql.DB, table, column string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil {
		t.Fatalf("table info: %v", err)
	}
	return n > 0
}

func TestRunCreatesSchema(t *testing.T) {
	db := openMemory(t)
	if err := Run(db); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if diff := cmp.Diff([]string{"Universiteler", "YKS", "YKSEkTercih"}, tables(t, db)); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}
	if !columnExists(t, db, "YKS", "OkulBirincisiEnKucukPuan") || !columnExists(t, db, "YKS", "GenelYerlesen") {
		t.Error("YKS misses the top-of-school or placed columns")
	}
	if columnExists(t, db, "YKSEkTercih", "OkulBirincisiKontenjan") || columnExists(t, db, "YKSEkTercih", "GenelYerlesen") {
		t.Error("YKSEkTercih must not carry the top-of-school or placed columns")
	}

	// A second run has nothing to apply.
	if err := Run(db); err != nil {
		t.Errorf("second Run() error = %v", err)
	}
}

func TestApplyReset(t *testing.T) {
	db := openMemory(t)
	if err := Run(db); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := Apply(db, "reset"); err != nil {
		t.Fatalf("Apply(reset) error = %v", err)
	}
	if got := tables(t, db); len(got) != 0 {
		t.Errorf("tables after reset = %v, want none", got)
	}
}

func TestApplyUnknownCommand(t *testing.T) {
	if err := Apply(openMemory(t), "sideways"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Apply() error = %v, want %v", err, ErrUnknownCommand)
	}
}
