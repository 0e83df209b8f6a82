package core

import "testing"

func TestRowLedger_AppendPreservesOrder(t *testing.T) {
	l := NewRowLedger()
	for _, bn := range []string{"6200", "6201", "6200"} {
		l.Append(Row{BearingNumber: bn})
	}

	snap := l.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("Len = %d, want 3", len(snap))
	}
	for i, want := range []string{"6200", "6201", "6200"} {
		if snap[i].BearingNumber != want {
			t.Errorf("row %d = %q, want %q", i, snap[i].BearingNumber, want)
		}
	}
}

func TestRowLedger_AppendDoesNotValidate(t *testing.T) {
	l := NewRowLedger()
	l.Append(Row{})
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestRowLedger_SnapshotIsIsolated(t *testing.T) {
	l := NewRowLedger()
	l.Append(Row{BearingNumber: "6205"})

	snap := l.Snapshot()
	snap[0].BearingNumber = "mutated"
	l.Append(Row{BearingNumber: "6206"})

	if got := l.Snapshot()[0].BearingNumber; got != "6205" {
		t.Errorf("stored row = %q, want 6205", got)
	}
	if len(snap) != 1 {
		t.Errorf("old snapshot grew to %d rows", len(snap))
	}
}

func TestRowLedger_ClearIsIdempotent(t *testing.T) {
	l := NewRowLedger()
	l.Append(Row{BearingNumber: "6205"})

	l.Clear()
	once := l.Snapshot()
	l.Clear()
	twice := l.Snapshot()

	if len(once) != 0 || len(twice) != 0 || l.Len() != 0 {
		t.Errorf("after Clear: once=%d twice=%d len=%d", len(once), len(twice), l.Len())
	}
	if _, ok := l.Last(); ok {
		t.Error("Last() on cleared ledger reported a row")
	}
}

func TestIsDuplicateOfLast(t *testing.T) {
	base := Row{Category: "A", Type: "B", Subtype: "C", BearingNumber: "D", Application: "E"}
	snapshot := []Row{{Category: "X"}, base}

	if IsDuplicateOfLast(base, nil) {
		t.Error("empty snapshot matched")
	}

	same := base
	same.Seal, same.Suffix, same.Make, same.Date = "ZZ", "C3", "SKF", "later"
	if !IsDuplicateOfLast(same, snapshot) {
		t.Error("row differing only in uncompared fields was not a duplicate")
	}

	mutations := map[string]func(*Row){
		"category":       func(r *Row) { r.Category = "A2" },
		"type":           func(r *Row) { r.Type = "B2" },
		"subtype":        func(r *Row) { r.Subtype = "C2" },
		"bearing number": func(r *Row) { r.BearingNumber = "D2" },
		"application":    func(r *Row) { r.Application = "E2" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			r := base
			mutate(&r)
			if IsDuplicateOfLast(r, snapshot) {
				t.Errorf("changed %s still classified as duplicate", name)
			}
		})
	}

	older := []Row{base, {Category: "X"}}
	if IsDuplicateOfLast(base, older) {
		t.Error("match against a non-last row counted as duplicate")
	}
}
