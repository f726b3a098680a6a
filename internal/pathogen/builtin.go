package pathogen

import (
	dr "goqmra/internal/doseresponse"
	"goqmra/internal/exposure"
)

var allRoutes = []exposure.Route{
	exposure.RoutePrimaryContact,
	exposure.RouteShellfish,
	exposure.RouteDrinkingWater,
	exposure.RouteAerosol,
}

var waterborne = []exposure.Route{
	exposure.RoutePrimaryContact,
	exposure.RouteShellfish,
	exposure.RouteDrinkingWater,
}

func betaPoisson(alpha, beta float64) dr.Parameters {
	return dr.Parameters{Kind: dr.KindBetaPoisson, Alpha: alpha, Beta: beta}
}

func betaBinomial(alpha, beta float64) dr.Parameters {
	return dr.Parameters{Kind: dr.KindBetaBinomial, Alpha: alpha, Beta: beta}
}

func hypergeometric(alpha, beta float64) dr.Parameters {
	return dr.Parameters{Kind: dr.KindHypergeometric, Alpha: alpha, Beta: beta}
}

func exponential(r float64) dr.Parameters {
	return dr.Parameters{Kind: dr.KindExponential, R: r}
}

func models(params ...dr.Parameters) map[dr.Kind]dr.Parameters {
	m := make(map[dr.Kind]dr.Parameters, len(params))
	for _, p := range params {
		m[p.Kind] = p
	}
	return m
}

// builtinRecords is the reference table. Norovirus defaults to the exact
// model because its beta is far below 1.
func builtinRecords() []Record {
	return []Record{
		{
			Name:        "norovirus",
			DisplayName: "Norovirus",
			Group:       "virus",
			Aliases:     []string{"noro", "norwalk", "NoV"},
			Models: models(
				betaBinomial(0.04, 0.055),
				betaPoisson(0.04, 0.055),
				hypergeometric(0.04, 0.055),
			),
			DefaultModel: dr.KindBetaBinomial,
			IllnessRatio: 0.6,
			DALYsPerCase: 9e-4,
			Routes:       allRoutes,
			Reference:    "Teunis et al. 2008",
		},
		{
			Name:        "rotavirus",
			DisplayName: "Rotavirus",
			Group:       "virus",
			Aliases:     []string{"rota"},
			Models: models(
				betaPoisson(0.253, 0.422),
				betaBinomial(0.167, 0.191),
			),
			DefaultModel: dr.KindBetaBinomial,
			IllnessRatio: 0.5,
			DALYsPerCase: 1.4e-2,
			Routes:       waterborne,
			Reference:    "Haas et al. 1999; Teunis and Havelaar 2000",
		},
		{
			Name:        "campylobacter",
			DisplayName: "Campylobacter jejuni",
			Group:       "bacteria",
			Aliases:     []string{"campy", "campylobacter jejuni"},
			Models: models(
				betaPoisson(0.145, 7.59),
				betaBinomial(0.024, 0.011),
			),
			DefaultModel: dr.KindBetaPoisson,
			IllnessRatio: 0.3,
			DALYsPerCase: 4.6e-3,
			Routes:       waterborne,
			Reference:    "Medema et al. 1996; Teunis et al. 2005",
		},
		{
			Name:         "cryptosporidium",
			DisplayName:  "Cryptosporidium parvum",
			Group:        "protozoa",
			Aliases:      []string{"crypto", "cryptosporidium parvum"},
			Models:       models(exponential(0.0042)),
			DefaultModel: dr.KindExponential,
			IllnessRatio: 0.7,
			DALYsPerCase: 1.5e-3,
			Routes:       waterborne,
			Reference:    "Haas et al. 1996",
		},
		{
			Name:         "e_coli_o157",
			DisplayName:  "E. coli O157:H7",
			Group:        "bacteria",
			Aliases:      []string{"E. coli O157:H7", "ecoli", "e_coli", "EHEC", "STEC"},
			Models:       models(betaPoisson(0.248, 48.80)),
			DefaultModel: dr.KindBetaPoisson,
			IllnessRatio: 0.3,
			DALYsPerCase: 5.5e-2,
			Routes:       waterborne,
			Reference:    "Strachan et al. 2005",
		},
		{
			Name:         "salmonella",
			DisplayName:  "Salmonella (non-typhoid)",
			Group:        "bacteria",
			Aliases:      []string{"salmonella spp", "non-typhoid salmonella"},
			Models:       models(betaPoisson(0.3126, 2884)),
			DefaultModel: dr.KindBetaPoisson,
			IllnessRatio: 0.3,
			DALYsPerCase: 5.6e-3,
			Routes:       waterborne,
			Reference:    "Haas et al. 1999",
		},
		{
			Name:         "adenovirus",
			DisplayName:  "Adenovirus",
			Group:        "virus",
			Aliases:      []string{"adeno"},
			Models:       models(exponential(0.4172)),
			DefaultModel: dr.KindExponential,
			IllnessRatio: 0.5,
			DALYsPerCase: 2.6e-3,
			Routes:       []exposure.Route{exposure.RoutePrimaryContact, exposure.RouteAerosol},
			Reference:    "Haas et al. 1993",
		},
	}
}
