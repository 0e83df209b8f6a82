package catalog

import "github.com/JonMunkholm/BearingSpec/internal/core"

func registerHousings() {
	core.RegisterCategory(core.CategoryDefinition{
		Name: "Bearing Unit Housing",
		Types: []core.TypeDefinition{
			{Name: "Pillow Block", Subtypes: sizes("PB")},
			{Name: "Plummer Block", Subtypes: sizes("PL")},
			{Name: "Take-Up Unit", Subtypes: sizes("TU")},
			{Name: "Flanged Bearing Unit", Subtypes: sizes("FB")},
			{Name: "Tapered Roller", Subtypes: sizes("TR")},
			{Name: "Sealed Bearing Unit", Subtypes: sizes("SB")},
			{Name: "Cast Iron", Subtypes: sizes("CI")},
			{Name: "Split Plummer", Subtypes: sizes("SP")},
			{Name: "Stainless Steel", Subtypes: sizes("SS")},
		},
	})

	// A housing subtype is its own part number.
	for _, code := range []string{"PB205", "PB206"} {
		core.RegisterAttributes(code, core.Attributes{
			BearingNumbers: []string{code},
			Seals:          []string{"OPEN"},
			Suffixes:       []string{},
			Makes:          []string{"SKF"},
		})
	}
}

// sizes returns the housing codes for the 205-208 bore range.
func sizes(prefix string) []string {
	return []string{prefix + "205", prefix + "206", prefix + "207", prefix + "208"}
}
