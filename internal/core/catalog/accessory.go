package catalog

import "github.com/JonMunkholm/BearingSpec/internal/core"

func registerAccessories() {
	core.RegisterCategory(core.CategoryDefinition{
		Name: "Bearing Accessory",
		Types: []core.TypeDefinition{
			{Name: "Seal", Subtypes: []string{"ZZ Shield", "2RS Rubber Seal", "DDU Contact Seal", "VV Non-Contact Seal"}},
			{Name: "Lubricant", Subtypes: []string{"Grease A", "Grease B"}},
			{Name: "Mounting Tool", Subtypes: []string{"Puller Type A", "Puller Type B"}},
		},
	})
}
