package backup

import "time"

const (
	TypeManual = "manual"
	TypeAuto   = "auto"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Log is one recorded backup run and the dump file it produced.
type Log struct {
	ID              string    `json:"id"`
	Type            string    `json:"backup_type"`
	Path            string    `json:"backup_path"`
	FileName        string    `json:"file_name"`
	FileSizeMB      float64   `json:"file_size_mb"`
	Status          string    `json:"status"`
	DurationSeconds int       `json:"duration_seconds"`
	Tables          []string  `json:"tables_backed_up"`
	PerformedBy     string    `json:"performed_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
