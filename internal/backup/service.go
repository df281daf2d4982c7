package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"backend-schoolbus/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("backup not found")

// dumpTables lists the tables a backup captures, in dependency order so a
// restore can replay the file front to back.
var dumpTables = []string{
	"users", "students", "drivers", "vehicles",
	"routes", "route_stops", "trips", "attendance", "notifications",
}

type Service struct {
	db  db.Querier
	dir string
}

func NewService(db db.Querier, dir string) *Service {
	return &Service{db: db, dir: dir}
}

// Create dumps every tracked table to a timestamped JSON file under the
// backup directory and records the run in backup_logs.
func (s *Service) Create(ctx context.Context, performedBy string) (Log, error) {
	started := time.Now()

	dump := make(map[string]json.RawMessage, len(dumpTables))
	for _, table := range dumpTables {
		var payload string
		row := s.db.QueryRow(ctx, `SELECT COALESCE(json_agg(t), '[]'::json)::text FROM `+table+` t`)
		if err := row.Scan(&payload); err != nil {
			return Log{}, fmt.Errorf("dump %s: %w", table, err)
		}
		dump[table] = json.RawMessage(payload)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Log{}, err
	}
	fileName := "backup_" + started.Format("20060102_150405") + ".json"
	path := filepath.Join(s.dir, fileName)
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return Log{}, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Log{}, err
	}

	rec := Log{
		ID:              uuid.NewString(),
		Type:            TypeManual,
		Path:            path,
		FileName:        fileName,
		FileSizeMB:      float64(len(data)) / (1024 * 1024),
		Status:          StatusSuccess,
		DurationSeconds: int(time.Since(started).Seconds()),
		Tables:          dumpTables,
		PerformedBy:     performedBy,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO backup_logs (id, backup_type, backup_path, file_name, file_size_mb, status, duration_seconds, tables_backed_up, performed_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at
	`, rec.ID, rec.Type, rec.Path, rec.FileName, rec.FileSizeMB, rec.Status, rec.DurationSeconds, rec.Tables, nullable(rec.PerformedBy))
	if err := row.Scan(&rec.CreatedAt); err != nil {
		return Log{}, err
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context) ([]Log, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, backup_type, backup_path, file_name, file_size_mb, status, duration_seconds, tables_backed_up, COALESCE(performed_by,''), created_at
		FROM backup_logs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.Type, &l.Path, &l.FileName, &l.FileSizeMB, &l.Status,
			&l.DurationSeconds, &l.Tables, &l.PerformedBy, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// Delete removes the log row along with the dump file it points to. A missing
// file is not an error; the row is the source of truth.
func (s *Service) Delete(ctx context.Context, id string) error {
	var path string
	row := s.db.QueryRow(ctx, `SELECT backup_path FROM backup_logs WHERE id=$1`, id)
	if err := row.Scan(&path); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if path != "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("backup %s: remove file: %v", id, err)
		}
	}

	_, err := s.db.Exec(ctx, `DELETE FROM backup_logs WHERE id=$1`, id)
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
