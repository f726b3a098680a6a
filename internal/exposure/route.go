// Package exposure derives per-person exposure volumes for each exposure
// route and combines them with a pathogen concentration into doses.
package exposure

import (
	"sort"
	"strings"

	"goqmra/domain/core"
)

// Route tags an exposure pathway.
type Route string

const (
	RoutePrimaryContact Route = "primary_contact"
	RouteShellfish      Route = "shellfish"
	RouteDrinkingWater  Route = "drinking_water"
	RouteAerosol        Route = "aerosol"
)

var routeSynonyms = map[string]Route{
	"primary_contact":       RoutePrimaryContact,
	"swim":                  RoutePrimaryContact,
	"swimming":              RoutePrimaryContact,
	"bathing":               RoutePrimaryContact,
	"recreational":          RoutePrimaryContact,
	"shellfish":             RouteShellfish,
	"shellfish_consumption": RouteShellfish,
	"oyster":                RouteShellfish,
	"oysters":               RouteShellfish,
	"drinking_water":        RouteDrinkingWater,
	"drinking":              RouteDrinkingWater,
	"potable":               RouteDrinkingWater,
	"fixed_volume":          RouteDrinkingWater,
	"aerosol":               RouteAerosol,
	"inhalation":            RouteAerosol,
	"spray":                 RouteAerosol,
}

// ParseRoute maps a route name onto a Route. Matching is case-insensitive and
// accepts synonyms ("swim", "swimming", "primary_contact", ...). Unknown names
// fail with the list of accepted names.
func ParseRoute(name string) (Route, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if r, ok := routeSynonyms[key]; ok {
		return r, nil
	}
	return "", core.NewConfigurationError("exposure.route",
		"unknown route \""+name+"\" (accepted: "+strings.Join(AcceptedRouteNames(), ", ")+")")
}

// AcceptedRouteNames lists every name ParseRoute understands.
func AcceptedRouteNames() []string {
	names := make([]string, 0, len(routeSynonyms))
	for name := range routeSynonyms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Routes lists the canonical routes.
func Routes() []Route {
	return []Route{RoutePrimaryContact, RouteShellfish, RouteDrinkingWater, RouteAerosol}
}
