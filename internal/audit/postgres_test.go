package audit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/BearingSpec/internal/config"
	"github.com/JonMunkholm/BearingSpec/internal/core"
)

type fakeDB struct {
	sql      []string
	args     [][]any
	tag      string
	err      error
	deadline bool
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	_, f.deadline = ctx.Deadline()
	return pgconn.NewCommandTag(f.tag), f.err
}

func testRecord() core.ExportRecord {
	return core.ExportRecord{
		ID:            "0b4f7c9e-5a2d-4c1e-9f3b-7d6e8a1c2b3d",
		SessionID:     "6f1c1a52-8f5e-4d0b-9a57-3c3d1f0e2b11",
		Format:        core.FormatXLSX,
		Filename:      "BearingSpec_2024-03-15T09-30.xlsx",
		Rows:          2,
		Words:         18,
		ConsumedAfter: 26,
		Limit:         40,
		ExportedAt:    time.Date(2024, 3, 15, 10, 30, 0, 0, time.FixedZone("CET", 3600)),
	}
}

func TestRecordExport(t *testing.T) {
	db := &fakeDB{tag: "INSERT 0 1"}
	rec := NewPostgresRecorder(db, time.Second)

	if err := rec.RecordExport(context.Background(), testRecord()); err != nil {
		t.Fatalf("RecordExport() error = %v", err)
	}

	if len(db.sql) != 1 || !strings.Contains(db.sql[0], "INSERT INTO export_log") {
		t.Fatalf("statements = %v", db.sql)
	}
	args := db.args[0]
	if len(args) != 9 {
		t.Fatalf("args = %d, want 9", len(args))
	}
	if args[2] != "xlsx" || args[4] != 2 || args[5] != 18 {
		t.Errorf("args = %v", args)
	}
	if at := args[8].(time.Time); at.Location() != time.UTC || at.Hour() != 9 {
		t.Errorf("exported_at = %v, want 09:30 UTC", at)
	}
	if !db.deadline {
		t.Error("insert ran without a deadline")
	}
}

func TestRecordExport_SurvivesCancelledRequest(t *testing.T) {
	db := &fakeDB{tag: "INSERT 0 1"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewPostgresRecorder(db, time.Second).RecordExport(ctx, testRecord()); err != nil {
		t.Fatalf("RecordExport() error = %v", err)
	}
}

func TestRecordExport_Errors(t *testing.T) {
	tests := []struct {
		name string
		db   *fakeDB
		want string
	}{
		{"exec error", &fakeDB{err: errors.New("connection refused")}, "connection refused"},
		{"no row inserted", &fakeDB{tag: "INSERT 0 0"}, "0 rows affected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPostgresRecorder(tt.db, 0).RecordExport(context.Background(), testRecord())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("RecordExport() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeDB{tag: "CREATE TABLE"}
	if err := NewPostgresRecorder(db, 0).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if !strings.Contains(db.sql[0], "CREATE TABLE IF NOT EXISTS export_log") {
		t.Errorf("statement = %q", db.sql[0])
	}
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), config.AuditConfig{URL: "postgres://%zz/db", MaxConns: 1})
	if err == nil || !strings.Contains(err.Error(), "parse database URL") {
		t.Errorf("Connect() error = %v", err)
	}
}
