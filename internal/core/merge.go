package core

import "fmt"

// MergeOutcome says what happened to the pending row during an export merge.
type MergeOutcome int

const (
	// PendingIncluded means the pending row was appended to the export set.
	PendingIncluded MergeOutcome = iota
	// PendingInvalid means the pending row lacked a required field.
	PendingInvalid
	// PendingDuplicate means the pending row repeated the last ledger row.
	PendingDuplicate
)

func (o MergeOutcome) String() string {
	switch o {
	case PendingIncluded:
		return "included"
	case PendingInvalid:
		return "invalid"
	case PendingDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// MergeExportSet returns the rows an export will contain: the ledger
// snapshot followed by the pending row when it is valid and not a
// duplicate of the snapshot's last row. snapshot is not modified.
func MergeExportSet(snapshot []Row, pending Row) ([]Row, MergeOutcome) {
	rows := make([]Row, len(snapshot), len(snapshot)+1)
	copy(rows, snapshot)

	if !IsValid(pending) {
		return rows, PendingInvalid
	}
	if IsDuplicateOfLast(pending, snapshot) {
		return rows, PendingDuplicate
	}
	return append(rows, pending), PendingIncluded
}

// Reconcile applies the dependent-field rules when the operator submits a
// new selection: a changed category clears type and subtype, a changed
// type clears subtype, and a changed subtype fills empty attributes from
// the taxonomy.
func Reconcile(prev, next Selection, tax *Taxonomy) Selection {
	switch {
	case next.Category != prev.Category:
		return next.WithCategory(next.Category)
	case next.Type != prev.Type:
		return next.WithType(next.Type)
	case next.Subtype != prev.Subtype && next.Subtype != "":
		return next.WithSubtype(next.Subtype, tax.AttributesFor(next.Subtype))
	default:
		return next
	}
}

// CheckSelection verifies that every non-empty taxonomy field of sel
// exists in tax under its parent. Empty fields are allowed.
func CheckSelection(tax *Taxonomy, sel Selection) error {
	if sel.Category != "" && !contains(tax.Categories(), sel.Category) {
		return fmt.Errorf("%w: category %q", ErrUnknownSelection, sel.Category)
	}
	if sel.Type != "" && !contains(tax.TypesFor(sel.Category), sel.Type) {
		return fmt.Errorf("%w: type %q", ErrUnknownSelection, sel.Type)
	}
	if sel.Subtype != "" && !tax.Contains(sel.Category, sel.Type, sel.Subtype) {
		return fmt.Errorf("%w: subtype %q", ErrUnknownSelection, sel.Subtype)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
