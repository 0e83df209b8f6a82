// Package templates renders the HTML pages of the bearing form.
//
// Components are written in .templ files; run `templ generate` after
// editing them.
package templates

import "github.com/JonMunkholm/BearingSpec/internal/core"

// PageParams is everything the form page shows.
type PageParams struct {
	View  core.SessionView
	Flash core.Status
}

var previewColumns = []string{
	"Category", "Type", "Subtype", "BearingNumber/Code",
	"Seal", "Suffix", "Make", "Application",
}

func rowCells(r core.Row) []string {
	return []string{
		r.Category, r.Type, r.Subtype, r.BearingNumber,
		r.Seal, r.Suffix, r.Make, r.Application,
	}
}

// customBearing is the value of the custom code input: the current bearing
// number when the list does not offer it.
func customBearing(v core.SessionView) string {
	if listed(v.Options.BearingNumbers, v.Selection.BearingNumber) {
		return ""
	}
	return v.Selection.BearingNumber
}

func listed(options []string, v string) bool {
	for _, opt := range options {
		if opt == v {
			return true
		}
	}
	return false
}

// newestFirst returns recs in reverse order without modifying them.
func newestFirst(recs []core.ExportRecord) []core.ExportRecord {
	out := make([]core.ExportRecord, len(recs))
	for i, rec := range recs {
		out[len(recs)-1-i] = rec
	}
	return out
}
