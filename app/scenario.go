package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"goqmra/domain/core"
	"goqmra/internal/distribution"
	"goqmra/internal/exposure"
	"goqmra/internal/treatment"
)

// Scenario is one assessment request: which pathogen reaches whom, by which
// route, how often and through which barriers.
type Scenario struct {
	Name     string `json:"name,omitempty" validate:"max=200"`
	Pathogen string `json:"pathogen" validate:"required"`
	Model    string `json:"model,omitempty"`
	Route    string `json:"route" validate:"required"`

	// Concentration is the source concentration in organisms/L, before
	// treatment and dilution.
	Concentration distribution.Spec   `json:"concentration"`
	Exposure      exposure.Params     `json:"exposure,omitempty"`
	Treatment     treatment.Train     `json:"treatment,omitempty"`
	Dilution      *treatment.Dilution `json:"dilution,omitempty"`

	Frequency      float64  `json:"frequency" validate:"gte=0"`
	Population     int      `json:"population,omitempty" validate:"gte=0"`
	Susceptibility *float64 `json:"susceptibility,omitempty" validate:"omitempty,gte=0,lte=1"`
	IllnessRatio   *float64 `json:"illness_ratio,omitempty" validate:"omitempty,gte=0,lte=1"`

	Iterations     int    `json:"iterations,omitempty" validate:"gte=0,lte=10000000"`
	Seed           *int64 `json:"seed,omitempty"`
	Discretize     bool   `json:"discretize,omitempty"`
	IncludeSamples bool   `json:"include_samples,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks every field range of the scenario and reports all failures
// together. Name resolution (pathogen, model, route) happens when the
// scenario is assessed.
func (s Scenario) Validate() error {
	var report core.ValidationReport
	if err := validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return core.NewValidationError("scenario", err.Error())
		}
		for _, fe := range fieldErrs {
			report.Add(fieldPath(fe), describe(fe))
		}
	}
	report.MergeErr("", s.Treatment.Validate())
	if s.Dilution != nil {
		report.MergeErr("", s.Dilution.Validate())
	}
	return report.Err()
}

// fieldPath strips the root struct name from a validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " long"
	}
	return fmt.Sprintf("failed %s %s", fe.Tag(), fe.Param())
}
