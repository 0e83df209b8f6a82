package core

import (
	"strings"
	"time"
)

var testTime = time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC)

func fixedClock() time.Time { return testTime }

func testTaxonomy() *Taxonomy {
	return NewTaxonomy([]CategoryDefinition{
		{Name: "Bearing", Types: []TypeDefinition{
			{Name: "Deep Groove Ball Bearing", Subtypes: []string{"6000 Series", "6200 Series"}},
			{Name: "Thrust Ball Bearings", Subtypes: []string{"5100 Series"}},
		}},
		{Name: "Bearing Accessory", Types: []TypeDefinition{
			{Name: "Lubricant", Subtypes: []string{"Grease A"}},
		}},
	}, map[string]Attributes{
		"6200 Series": {
			BearingNumbers: []string{"6200", "6201", "6205"},
			Seals:          []string{"ZZ", "2RS"},
			Suffixes:       []string{"C3"},
			Makes:          []string{"SKF", "KOYO"},
		},
	})
}

// validSelection costs 8 words: Bearing Deep Groove Ball Bearing 6200 Series 6205.
func validSelection() Selection {
	return Selection{
		Category:      "Bearing",
		Type:          "Deep Groove Ball Bearing",
		Subtype:       "6200 Series",
		BearingNumber: "6205",
		Seal:          "ZZ",
	}
}

// words returns an application string of n single-word tokens.
func words(n int) string {
	return strings.TrimSpace(strings.Repeat("w ", n))
}
