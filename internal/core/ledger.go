package core

// RowLedger is the ordered list of rows added in a session.
//
// Append does not validate; callers check IsValid before inserting.
// Stored rows are values and are never modified after Append.
type RowLedger struct {
	rows []Row
}

// NewRowLedger returns an empty ledger.
func NewRowLedger() *RowLedger {
	return &RowLedger{}
}

// Append adds a row at the end.
func (l *RowLedger) Append(r Row) {
	l.rows = append(l.rows, r)
}

// Snapshot returns a copy of the rows in insertion order.
func (l *RowLedger) Snapshot() []Row {
	out := make([]Row, len(l.rows))
	copy(out, l.rows)
	return out
}

// Clear removes every row. Clearing an empty ledger is a no-op.
func (l *RowLedger) Clear() {
	l.rows = nil
}

// Len returns the number of rows.
func (l *RowLedger) Len() int {
	return len(l.rows)
}

// Last returns the most recently appended row, if any.
func (l *RowLedger) Last() (Row, bool) {
	if len(l.rows) == 0 {
		return Row{}, false
	}
	return l.rows[len(l.rows)-1], true
}
