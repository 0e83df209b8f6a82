package core

import "strings"

// CostOf returns the quota-chargeable word count of a row.
//
// The visible fields (category, type, subtype, bearing number, application)
// are joined with single spaces, skipping empty ones, and the result is
// split on whitespace. Seal, suffix and make never count.
func CostOf(r Row) int {
	visible := make([]string, 0, 5)
	for _, v := range []string{r.Category, r.Type, r.Subtype, r.BearingNumber, r.Application} {
		if v != "" {
			visible = append(visible, v)
		}
	}
	joined := strings.TrimSpace(strings.Join(visible, " "))
	if joined == "" {
		return 0
	}
	return len(strings.Fields(joined))
}

// TotalCost sums CostOf over rows.
func TotalCost(rows []Row) int {
	total := 0
	for _, r := range rows {
		total += CostOf(r)
	}
	return total
}
