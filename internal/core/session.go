package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StatusKind classifies the transient message shown after an action.
type StatusKind string

const (
	StatusAdded           StatusKind = "added"
	StatusMissingField    StatusKind = "missing_field"
	StatusNothingToExport StatusKind = "nothing_to_export"
	StatusQuotaExceeded   StatusKind = "quota_exceeded"
	StatusExported        StatusKind = "exported"
	StatusQuotaReset      StatusKind = "quota_reset"
	StatusRowsCleared     StatusKind = "rows_cleared"
	StatusError           StatusKind = "error"
)

// Status is the message produced by the last action on a session.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

// maxHistory bounds the per-session list of recent exports.
const maxHistory = 20

// SessionOptions configures a Session. Zero values use defaults.
type SessionOptions struct {
	WordLimit int
	Now       func() time.Time
	Limiter   *ExportLimiter
	Recorder  ExportRecorder
	Logger    *slog.Logger
}

// Session owns one operator's selection, row ledger and word quota.
//
// Every action holds the session lock for its whole duration and
// validates before mutating, so a failed action leaves no partial state.
type Session struct {
	id  string
	tax *Taxonomy

	mu        sync.Mutex
	now       func() time.Time
	builder   *RowBuilder
	selection Selection
	ledger    *RowLedger
	quota     *QuotaLedger
	history   []ExportRecord
	status    Status
	lastSeen  time.Time

	limiter  *ExportLimiter
	recorder ExportRecorder
	logger   *slog.Logger
}

// NewSession creates a session with an empty ledger and an unused quota.
func NewSession(id string, tax *Taxonomy, opts SessionOptions) *Session {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = NopRecorder{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		id:        id,
		tax:       tax,
		now:       now,
		builder:   NewRowBuilder(now),
		selection: DefaultSelection(tax),
		ledger:    NewRowLedger(),
		quota:     NewQuotaLedger(opts.WordLimit),
		lastSeen:  now(),
		limiter:   opts.Limiter,
		recorder:  recorder,
		logger:    logger.With("session_id", id),
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Taxonomy returns the read-only taxonomy the session selects from.
func (s *Session) Taxonomy() *Taxonomy {
	return s.tax
}

// Selection returns the current field values.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Select replaces the current field values, applying the dependent-field
// rules of Reconcile, and returns the resulting selection. A selection
// naming an unknown category, type or subtype is rejected unchanged.
func (s *Session) Select(next Selection) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	sel := Reconcile(s.selection, next, s.tax)
	if err := CheckSelection(s.tax, sel); err != nil {
		s.setStatus(StatusError, "Please pick the category, type and subtype from the lists.")
		return s.selection, err
	}
	s.selection = sel
	return sel, nil
}

// PendingRow builds a row from the current selection without storing it.
func (s *Session) PendingRow() Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder.Build(s.selection)
}

// AddRow appends the current selection to the ledger.
// Returns *MissingFieldError, with nothing stored, when a required field is empty.
// On success the bearing number and application are cleared for the next entry.
func (s *Session) AddRow() (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	row := s.builder.Build(s.selection)
	if err := Validate(row); err != nil {
		s.setStatus(StatusMissingField, missingFieldMessage(err))
		return Row{}, err
	}

	s.ledger.Append(row)
	s.selection = s.selection.AfterAdd()
	s.setStatus(StatusAdded, "Row added (not yet downloaded).")
	s.logger.Debug("row added", "rows", s.ledger.Len(), "words", CostOf(row))
	return row, nil
}

// ExportResult is a successful export plus what happened to the pending row.
type ExportResult struct {
	*Export
	Pending  MergeOutcome
	Consumed int
	Limit    int
}

// Export merges the ledger with the pending row, checks the quota and
// serializes the rows. The quota is charged only after the file has been
// produced; any failure leaves both ledger and quota untouched.
func (s *Session) Export(ctx context.Context, format Format) (*ExportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	if format != FormatCSV && format != FormatXLSX {
		err := fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		s.setStatus(StatusError, "Unsupported download format.")
		return nil, err
	}

	now := s.now()
	rows, pending := MergeExportSet(s.ledger.Snapshot(), s.builder.Build(s.selection))
	if len(rows) == 0 {
		s.setStatus(StatusNothingToExport, "No rows to download. Add a row or fill the form.")
		return nil, ErrNothingToExport
	}

	cost := TotalCost(rows)
	if !s.quota.CanAfford(cost) {
		err := &QuotaExceededError{Needed: cost, Remaining: s.quota.Remaining(), Limit: s.quota.Limit()}
		s.setStatus(StatusQuotaExceeded, fmt.Sprintf(
			"Download needs %d words but only %d of %d remain. Remove rows or reset quota.",
			err.Needed, err.Remaining, err.Limit))
		s.logger.Info("export rejected", "needed", cost, "remaining", err.Remaining)
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx); err != nil {
			s.setStatus(StatusError, "The server is busy. Please try the download again.")
			return nil, err
		}
		defer s.limiter.Release()
	}

	exp, err := Serialize(rows, format, now)
	if err != nil {
		s.setStatus(StatusError, "The file could not be generated.")
		return nil, fmt.Errorf("serialize %s: %w", format, err)
	}

	if err := s.quota.Commit(cost); err != nil {
		return nil, err
	}

	rec := ExportRecord{
		ID:            uuid.NewString(),
		SessionID:     s.id,
		Format:        format,
		Filename:      exp.Filename,
		Rows:          exp.Rows,
		Words:         cost,
		ConsumedAfter: s.quota.Consumed(),
		Limit:         s.quota.Limit(),
		ExportedAt:    now,
	}
	s.history = append(s.history, rec)
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}
	if err := s.recorder.RecordExport(ctx, rec); err != nil {
		s.logger.Warn("failed to record export", "export_id", rec.ID, "error", err)
	}

	msg := fmt.Sprintf("Downloaded %d row(s). %d words used.", exp.Rows, cost)
	if pending == PendingDuplicate {
		msg += " The current form matches the last row and was not added again."
	}
	s.setStatus(StatusExported, msg)
	s.logger.Info("export completed",
		"format", format,
		"rows", exp.Rows,
		"words", cost,
		"consumed", s.quota.Consumed(),
		"limit", s.quota.Limit(),
	)

	return &ExportResult{
		Export:   exp,
		Pending:  pending,
		Consumed: s.quota.Consumed(),
		Limit:    s.quota.Limit(),
	}, nil
}

// ResetQuota sets consumed words back to zero. The ledger is not touched.
func (s *Session) ResetQuota() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	s.quota.Reset()
	s.setStatus(StatusQuotaReset, fmt.Sprintf("Quota reset to %d/%d.", s.quota.Remaining(), s.quota.Limit()))
	s.logger.Info("quota reset")
}

// ClearRows empties the ledger. The quota is not touched.
func (s *Session) ClearRows() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	s.ledger.Clear()
	s.setStatus(StatusRowsCleared, "Rows cleared.")
}

// Flash returns the last status and clears it.
func (s *Session) Flash() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.status
	s.status = Status{}
	return st
}

// SessionView is a read-only snapshot of a session for rendering.
type SessionView struct {
	ID           string         `json:"id"`
	Selection    Selection      `json:"selection"`
	Categories   []string       `json:"categories"`
	Types        []string       `json:"types"`
	Subtypes     []string       `json:"subtypes"`
	Options      Attributes     `json:"options"`
	Rows         []Row          `json:"rows"`
	PendingValid bool           `json:"pendingValid"`
	PendingWords int            `json:"pendingWords"`
	Consumed     int            `json:"consumed"`
	Limit        int            `json:"limit"`
	Remaining    int            `json:"remaining"`
	Level        QuotaLevel     `json:"level"`
	State        string         `json:"state"`
	History      []ExportRecord `json:"history"`
}

// View returns a snapshot of the session state.
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.selection
	pending := s.builder.Build(sel)
	history := make([]ExportRecord, len(s.history))
	copy(history, s.history)

	return SessionView{
		ID:           s.id,
		Selection:    sel,
		Categories:   s.tax.Categories(),
		Types:        s.tax.TypesFor(sel.Category),
		Subtypes:     s.tax.SubtypesFor(sel.Category, sel.Type),
		Options:      s.tax.AttributesFor(sel.Subtype),
		Rows:         s.ledger.Snapshot(),
		PendingValid: IsValid(pending),
		PendingWords: CostOf(pending),
		Consumed:     s.quota.Consumed(),
		Limit:        s.quota.Limit(),
		Remaining:    s.quota.Remaining(),
		Level:        s.quota.Level(),
		State:        s.quota.State().String(),
		History:      history,
	}
}

// LastSeen returns when the session last handled an action.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Touch marks the session as recently used.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
}

func (s *Session) touch() {
	s.lastSeen = s.now()
}

func (s *Session) setStatus(kind StatusKind, msg string) {
	s.status = Status{Kind: kind, Message: msg}
}

func missingFieldMessage(err error) string {
	msg := "Please fill Category, Type, Subtype and Bearing Number / Code."
	if me, ok := err.(*MissingFieldError); ok && len(me.Fields) > 0 {
		msg += " Missing: " + strings.Join(me.Fields, ", ") + "."
	}
	return msg
}
