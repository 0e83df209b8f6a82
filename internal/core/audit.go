package core

import (
	"context"
	"time"
)

// ExportRecord describes one committed export.
type ExportRecord struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"sessionId"`
	Format        Format    `json:"format"`
	Filename      string    `json:"filename"`
	Rows          int       `json:"rows"`
	Words         int       `json:"words"`
	ConsumedAfter int       `json:"consumedAfter"`
	Limit         int       `json:"limit"`
	ExportedAt    time.Time `json:"exportedAt"`
}

// ExportRecorder receives a record after each successful export.
// Errors are logged by the caller and never roll an export back.
type ExportRecorder interface {
	RecordExport(ctx context.Context, rec ExportRecord) error
}

// NopRecorder discards export records.
type NopRecorder struct{}

// RecordExport implements ExportRecorder.
func (NopRecorder) RecordExport(context.Context, ExportRecord) error { return nil }
