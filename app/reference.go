package app

import (
	"goqmra/internal/distribution"
	"goqmra/internal/treatment"
)

// ReferenceScenarios is a small set of worked examples covering every route
// and both treatment stages. They are used as a smoke run by the command line
// tool and as fixtures in tests.
func ReferenceScenarios() []Scenario {
	return []Scenario{
		{
			Name:     "norovirus bathing beach",
			Pathogen: "norovirus",
			Route:    "primary_contact",
			Concentration: distribution.Spec{
				Kind:   distribution.KindHockeyStick,
				Min:    distribution.Float(0),
				Median: 50,
				Max:    distribution.Float(2000),
			},
			Treatment: treatment.Train{
				{Name: "secondary", LRV: 1.5, Variability: 0.3},
				{Name: "uv", LRV: 2, Variability: 0.5},
			},
			Dilution:  &treatment.Dilution{DischargeFlow: 1, ReceivingFlow: 99},
			Frequency: 20,
		},
		{
			Name:     "norovirus shellfish harvest",
			Pathogen: "norovirus",
			Route:    "shellfish",
			Concentration: distribution.Spec{
				Kind: distribution.KindLognormal,
				Mean: 10,
				SD:   20,
				Max:  distribution.Float(1000),
			},
			Treatment: treatment.Train{{Name: "secondary", LRV: 1}},
			Dilution:  &treatment.Dilution{DischargeFlow: 1, ReceivingFlow: 999, DecayRate: 0.1, TravelTime: 12},
			Frequency: 12,
		},
		{
			Name:     "cryptosporidium drinking water",
			Pathogen: "cryptosporidium",
			Route:    "drinking_water",
			Concentration: distribution.Spec{
				Kind: distribution.KindUniform,
				Min:  distribution.Float(0.1),
				Max:  distribution.Float(10),
			},
			Treatment: treatment.Train{
				{Name: "coagulation", LRV: 2, Variability: 0.5},
				{Name: "filtration", LRV: 2.5, Variability: 0.5},
				{Name: "uv", LRV: 3},
			},
			Frequency:  365,
			Population: 50000,
		},
		{
			Name:     "adenovirus spray irrigation",
			Pathogen: "adenovirus",
			Route:    "aerosol",
			Concentration: distribution.Spec{
				Kind: distribution.KindTriangular,
				Min:  distribution.Float(10),
				Mode: 100,
				Max:  distribution.Float(1000),
			},
			Treatment: treatment.Train{{Name: "secondary", LRV: 1, Variability: 0.2}},
			Frequency: 50,
		},
	}
}
