package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogger_RecordsStatusAndSession(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetSessionID(r.Context(), "sess-1")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("quota"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/export/csv", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	out := buf.String()
	for _, want := range []string{"status=409", "bytes=5", "path=/export/csv", "session_id=sess-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestResponseWriter_FirstHeaderWins(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := &responseWriter{ResponseWriter: rec, status: http.StatusOK}

	ww.Write([]byte("ok"))
	ww.WriteHeader(http.StatusInternalServerError)

	if ww.status != http.StatusOK || rec.Code != http.StatusOK {
		t.Errorf("status = %d / %d, want 200", ww.status, rec.Code)
	}
}

func TestSetSessionID_OutsideLogger(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	SetSessionID(req.Context(), "ignored")
}
