package catalog

import "github.com/JonMunkholm/BearingSpec/internal/core"

func registerBearings() {
	core.RegisterCategory(core.CategoryDefinition{
		Name: "Bearing",
		Types: []core.TypeDefinition{
			{Name: "Deep Groove Ball Bearing", Subtypes: []string{
				"6000 Series", "6200 Series", "6300 Series", "6400 Series",
				"6700 Series", "6800 Series", "Double Row", "Inch Dimension",
				"One Way Bearing", "Flange Bearings", "8800 Series", "Miniature Bearings",
				"R Series", "B Series",
			}},
			{Name: "Angular Contact Ball Bearings", Subtypes: []string{
				"7001AC", "7002AC", "7003AC", "7004AC", "7005AC", "7006AC",
				"7007AC", "7008AC", "7009AC", "7010AC", "7011AC", "7012AC",
			}},
			{Name: "Self Aligning Ball Bearing", Subtypes: []string{
				"1200 Series", "1300 Series", "2200 Series", "2300 Series", "2400 Series",
			}},
			{Name: "Tapered Roller Bearings", Subtypes: []string{
				"3200 Series", "3300 Series", "5300E Series", "QJ Series",
			}},
			{Name: "Thrust Ball Bearings", Subtypes: []string{
				"5100 Series", "52000 Series", "53000 Series", "54000 Series",
			}},
			{Name: "Thrust Cylindrical Roller Bearings", Subtypes: []string{
				"8000 Series", "MBYL AXK", "A5000 Series",
			}},
			{Name: "Thrust Spherical Roller Bearings", Subtypes: []string{
				"23000 B / BM Series", "240XXCA Series", "222XXCA Series",
			}},
			{Name: "Needle Roller Bearings", Subtypes: []string{
				"RNA, NK Type", "NA, NKI Type", "Drawn Cup HK, BK Type", "F Series",
			}},
			{Name: "Spherical Roller Bearings", Subtypes: []string{
				"222X Series", "213XX Series", "222 Series",
			}},
			{Name: "Insert Ball Bearings", Subtypes: []string{
				"UC Series", "UCX Series", "UCFL Series", "UCFX Series",
			}},
			{Name: "Flanged Bearings", Subtypes: []string{
				"UCF Series", "UCFL Series", "UCX Series", "UCFX Series",
			}},
			{Name: "One Way Bearings", Subtypes: []string{
				"Friction Clutch", "Sprag Type", "Roller One-Way", "Needle Clutch",
			}},
			{Name: "Crossed Roller Bearings", Subtypes: []string{
				"RA Series", "RB Series", "RE Series", "RU Series", "SX Series",
			}},
			{Name: "Four Point Contact Ball Bearings", Subtypes: []string{
				"QJ Series", "AC/BA Series",
			}},
		},
	})

	core.RegisterAttributes("6000 Series", core.Attributes{
		BearingNumbers: []string{"6000", "6001", "6002", "6003", "6004", "6005"},
		Seals:          []string{"OPEN", "Z", "ZZ", "RS", "2RS"},
		Suffixes:       []string{"C2", "C3", "C4", "P5", "TN9"},
		Makes:          []string{"SKF", "NSK", "NTN", "FAG"},
	})
	core.RegisterAttributes("6200 Series", core.Attributes{
		BearingNumbers: []string{"6200", "6201", "6202", "6203", "6204", "6205"},
		Seals:          []string{"OPEN", "Z", "ZZ", "RS", "2RS"},
		Suffixes:       []string{"C2", "C3", "TN9", "MA"},
		Makes:          []string{"SKF", "KOYO", "NACHI"},
	})
}
