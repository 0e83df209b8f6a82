package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNothingToExport is returned when the merged export set is empty.
var ErrNothingToExport = errors.New("nothing to export: add a row or fill the form")

// ErrUnsupportedFormat is returned for export formats other than csv and xlsx.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// ErrTooManySessions is returned when the session store is at capacity.
var ErrTooManySessions = errors.New("too many sessions, please try again later")

// ErrUnknownSelection is returned when a submitted category, type or
// subtype does not exist in the taxonomy.
var ErrUnknownSelection = errors.New("unknown selection")

// MissingFieldError reports the required row fields that were empty.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", strings.Join(e.Fields, ", "))
}

// QuotaExceededError is returned when an export costs more words than remain.
type QuotaExceededError struct {
	Needed    int // Words the export would consume
	Remaining int // Words left before the limit
	Limit     int // Session word limit
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("word quota exceeded: export needs %d words, %d of %d remaining",
		e.Needed, e.Remaining, e.Limit)
}

// IsQuotaExceeded reports whether err is or wraps a QuotaExceededError.
func IsQuotaExceeded(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}

// IsMissingField reports whether err is or wraps a MissingFieldError.
func IsMissingField(err error) bool {
	var me *MissingFieldError
	return errors.As(err, &me)
}
