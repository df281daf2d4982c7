package backup

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	return mock
}

func expectDumps(mock pgxmock.PgxPoolIface, payloads map[string]string) {
	for _, table := range dumpTables {
		payload, ok := payloads[table]
		if !ok {
			payload = `[]`
		}
		mock.ExpectQuery(`FROM ` + table + ` t`).
			WillReturnRows(pgxmock.NewRows([]string{"dump"}).AddRow(payload))
	}
}

func TestCreateBackupWritesDumpFile(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectDumps(mock, map[string]string{"students": `[{"id":"s-1","full_name":"An"}]`})
	mock.ExpectQuery(`INSERT INTO backup_logs`).
		WithArgs(pgxmock.AnyArg(), TypeManual, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			StatusSuccess, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	dir := t.TempDir()
	rec, err := NewService(mock, dir).Create(context.Background(), "u-admin")
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if rec.Status != StatusSuccess || !strings.HasPrefix(rec.FileName, "backup_") {
		t.Fatalf("unexpected log record: %+v", rec)
	}
	if len(rec.Tables) != len(dumpTables) {
		t.Fatalf("expected all tables recorded, got %v", rec.Tables)
	}

	data, err := os.ReadFile(rec.Path)
	if err != nil {
		t.Fatalf("read dump file: %v", err)
	}
	var dump map[string]json.RawMessage
	if err := json.Unmarshal(data, &dump); err != nil {
		t.Fatalf("dump file is not valid json: %v", err)
	}
	if len(dump) != len(dumpTables) {
		t.Fatalf("expected %d tables in dump, got %d", len(dumpTables), len(dump))
	}
	if !strings.Contains(string(dump["students"]), "s-1") {
		t.Fatalf("students rows missing from dump: %s", dump["students"])
	}
}

func TestCreateBackupDumpErrorWritesNothing(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`FROM users t`).WillReturnError(errors.New("relation missing"))

	dir := t.TempDir()
	if _, err := NewService(mock, dir).Create(context.Background(), "u-admin"); err == nil {
		t.Fatalf("expected dump error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("failed backup must not leave a file behind: %v", entries)
	}
}

func TestDeleteBackupRemovesFile(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	path := filepath.Join(t.TempDir(), "backup_20260828_070000.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	mock.ExpectQuery(`SELECT backup_path FROM backup_logs`).
		WithArgs("b-1").
		WillReturnRows(pgxmock.NewRows([]string{"backup_path"}).AddRow(path))
	mock.ExpectExec(`DELETE FROM backup_logs`).
		WithArgs("b-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := NewService(mock, t.TempDir()).Delete(context.Background(), "b-1"); err != nil {
		t.Fatalf("delete backup: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("dump file should be gone, stat err: %v", err)
	}
}

func TestDeleteBackupNotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT backup_path FROM backup_logs`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"backup_path"}))

	err := NewService(mock, t.TempDir()).Delete(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListBackups(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM backup_logs`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "backup_type", "backup_path", "file_name", "file_size_mb", "status",
			"duration_seconds", "tables_backed_up", "performed_by", "created_at",
		}).AddRow("b-1", TypeManual, "/backups/backup_x.json", "backup_x.json", 0.42, StatusSuccess,
			3, []string{"students", "trips"}, "u-admin", now))

	logs, err := NewService(mock, t.TempDir()).List(context.Background())
	if err != nil {
		t.Fatalf("list backups: %v", err)
	}
	if len(logs) != 1 || logs[0].FileSizeMB != 0.42 || len(logs[0].Tables) != 2 {
		t.Fatalf("unexpected logs: %+v", logs)
	}
}
