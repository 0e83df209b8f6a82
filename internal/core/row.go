package core

import (
	"strings"
	"time"
)

// DateLayout is the timestamp format stamped on every built row.
const DateLayout = "2006-01-02 15:04:05"

// GeneratedByUser is the creator recorded on rows built from operator input.
const GeneratedByUser = "User"

// Row is one bearing specification record, the unit of export.
type Row struct {
	Category      string `json:"category"`
	Type          string `json:"type"`
	Subtype       string `json:"subtype"`
	BearingNumber string `json:"bearingNumber"`
	Seal          string `json:"seal"`
	Suffix        string `json:"suffix"`
	Make          string `json:"make"`
	Application   string `json:"application"`
	Date          string `json:"date"`
	GeneratedBy   string `json:"generatedBy"`
}

// Selection holds the operator's current field values.
// Methods return modified copies; a Selection is never changed in place.
type Selection struct {
	Category      string `json:"category"`
	Type          string `json:"type"`
	Subtype       string `json:"subtype"`
	BearingNumber string `json:"bearingNumber"`
	Seal          string `json:"seal"`
	Suffix        string `json:"suffix"`
	Make          string `json:"make"`
	Application   string `json:"application"`
}

// DefaultSelection returns the form's initial state. When the preset
// taxonomy exists in tax its subtype attributes are filled in as well,
// so the first pending row is already complete.
func DefaultSelection(tax *Taxonomy) Selection {
	sel := Selection{Seal: "OPEN"}
	if !tax.Contains(presetCategory, presetType, presetSubtype) {
		return sel
	}
	sel.Category = presetCategory
	sel.Type = presetType
	return sel.WithSubtype(presetSubtype, tax.AttributesFor(presetSubtype))
}

const (
	presetCategory = "Bearing"
	presetType     = "Deep Groove Ball Bearing"
	presetSubtype  = "6200 Series"
)

// WithCategory changes the category and clears the dependent type and subtype.
func (s Selection) WithCategory(category string) Selection {
	s.Category = category
	s.Type = ""
	s.Subtype = ""
	return s
}

// WithType changes the type and clears the dependent subtype.
func (s Selection) WithType(typ string) Selection {
	s.Type = typ
	s.Subtype = ""
	return s
}

// WithSubtype changes the subtype and fills any empty attribute field with
// the first option offered for it. Values already entered are kept.
func (s Selection) WithSubtype(subtype string, attrs Attributes) Selection {
	s.Subtype = subtype
	if s.BearingNumber == "" {
		s.BearingNumber = first(attrs.BearingNumbers)
	}
	if s.Seal == "" {
		s.Seal = first(attrs.Seals)
	}
	if s.Suffix == "" {
		s.Suffix = first(attrs.Suffixes)
	}
	if s.Make == "" {
		s.Make = first(attrs.Makes)
	}
	return s
}

// AfterAdd clears the per-row fields so the next bearing can be entered
// under the same taxonomy.
func (s Selection) AfterAdd() Selection {
	s.BearingNumber = ""
	s.Application = ""
	return s
}

func first(opts []string) string {
	if len(opts) == 0 {
		return ""
	}
	return opts[0]
}

// RowBuilder projects a Selection into a Row.
type RowBuilder struct {
	now func() time.Time
}

// NewRowBuilder creates a builder stamping rows with now().
// A nil now uses time.Now.
func NewRowBuilder(now func() time.Time) *RowBuilder {
	if now == nil {
		now = time.Now
	}
	return &RowBuilder{now: now}
}

// Build always succeeds. Validity is checked separately with Validate.
func (b *RowBuilder) Build(sel Selection) Row {
	return Row{
		Category:      strings.TrimSpace(sel.Category),
		Type:          strings.TrimSpace(sel.Type),
		Subtype:       strings.TrimSpace(sel.Subtype),
		BearingNumber: strings.TrimSpace(sel.BearingNumber),
		Seal:          strings.TrimSpace(sel.Seal),
		Suffix:        strings.TrimSpace(sel.Suffix),
		Make:          strings.TrimSpace(sel.Make),
		Application:   strings.TrimSpace(sel.Application),
		Date:          b.now().Format(DateLayout),
		GeneratedBy:   GeneratedByUser,
	}
}

// IsValid reports whether the row may be added to a ledger or export set.
func IsValid(r Row) bool {
	return Validate(r) == nil
}

// Validate returns a *MissingFieldError naming each empty required field.
func Validate(r Row) error {
	var missing []string
	if r.Category == "" {
		missing = append(missing, "Category")
	}
	if r.Type == "" {
		missing = append(missing, "Type")
	}
	if r.Subtype == "" {
		missing = append(missing, "Subtype")
	}
	if r.BearingNumber == "" {
		missing = append(missing, "Bearing Number")
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}
	return nil
}
