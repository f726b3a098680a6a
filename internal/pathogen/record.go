// Package pathogen holds the pathogen parameter database: dose-response
// parameters, illness ratio, burden and route applicability per pathogen.
package pathogen

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"goqmra/domain/core"
	"goqmra/internal/doseresponse"
	"goqmra/internal/exposure"
)

// Record is everything the core needs to know about one pathogen.
type Record struct {
	Name         string                                        `json:"name" db:"name"`
	DisplayName  string                                        `json:"display_name" db:"display_name"`
	Group        string                                        `json:"group,omitempty" db:"pathogen_group"`
	Aliases      []string                                      `json:"aliases,omitempty"`
	Models       map[doseresponse.Kind]doseresponse.Parameters `json:"models"`
	DefaultModel doseresponse.Kind                             `json:"default_model" db:"default_model"`
	IllnessRatio float64                                       `json:"illness_given_infection" db:"illness_ratio"`
	DALYsPerCase float64                                       `json:"dalys_per_case" db:"dalys_per_case"`
	Routes       []exposure.Route                              `json:"routes,omitempty"`
	Reference    string                                        `json:"reference,omitempty" db:"reference"`
}

// Validate reports every invalid field of the record at once.
func (r Record) Validate() error {
	var report core.ValidationReport
	report.Check(key(r.Name) != "", "name", "is required")
	report.Check(len(r.Models) > 0, "models", "at least one dose-response model is required")
	if _, ok := r.Models[r.DefaultModel]; !ok {
		report.Add("default_model", fmt.Sprintf("%q has no parameters", r.DefaultModel))
	}
	for kind, params := range r.Models {
		if params.Kind != kind {
			report.Add("models."+string(kind), fmt.Sprintf("parameters are tagged %q", params.Kind))
			continue
		}
		if _, err := doseresponse.New(params, nil); err != nil {
			report.Add("models."+string(kind), err.Error())
		}
	}
	report.Check(r.IllnessRatio >= 0 && r.IllnessRatio <= 1, "illness_given_infection", "must be in [0,1]")
	report.Check(r.DALYsPerCase >= 0, "dalys_per_case", "must be >= 0")
	for _, route := range r.Routes {
		if _, err := exposure.ParseRoute(string(route)); err != nil {
			report.Add("routes", err.Error())
		}
	}
	if err := report.Err(); err != nil {
		return fmt.Errorf("pathogen %q: %w", r.Name, err)
	}
	return nil
}

// ModelKinds lists the models the record carries parameters for.
func (r Record) ModelKinds() []string {
	names := make([]string, 0, len(r.Models))
	for kind := range r.Models {
		names = append(names, string(kind))
	}
	sort.Strings(names)
	return names
}

// Parameters returns the parameters of one model. An empty model name selects
// the default model.
func (r Record) Parameters(model string) (doseresponse.Parameters, error) {
	kind := r.DefaultModel
	if model != "" {
		var err error
		if kind, err = doseresponse.ParseKind(model); err != nil {
			return doseresponse.Parameters{}, err
		}
	}
	params, ok := r.Models[kind]
	if !ok {
		return doseresponse.Parameters{}, core.NewModelNotFoundError(r.Name, string(kind), r.ModelKinds())
	}
	return params, nil
}

// Model builds the dose-response model selected by model.
func (r Record) Model(model string, diag *core.Diagnostics) (doseresponse.Model, error) {
	params, err := r.Parameters(model)
	if err != nil {
		return nil, err
	}
	return doseresponse.New(params, diag)
}

// SupportsRoute reports whether the pathogen is relevant for route. A record
// without routes applies everywhere.
func (r Record) SupportsRoute(route exposure.Route) bool {
	if len(r.Routes) == 0 {
		return true
	}
	for _, rt := range r.Routes {
		if rt == route {
			return true
		}
	}
	return false
}

// key normalises a pathogen name for lookup: lower case letters and digits
// only, so "E. coli O157:H7" and "e_coli_o157_h7" match.
func key(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
