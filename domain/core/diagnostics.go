package core

import "fmt"

// WarningCode represents structured warning types
type WarningCode string

const (
	WarningNegativeDoseClamped  WarningCode = "NEGATIVE_DOSE_CLAMPED" // dose < 0 replaced by 0
	WarningProbabilityClamped   WarningCode = "PROBABILITY_CLAMPED"   // result drifted outside [0,1]
	WarningNonFiniteFiltered    WarningCode = "NON_FINITE_FILTERED"   // NaN/Inf removed before statistics
	WarningApproximationInvalid WarningCode = "APPROXIMATION_INVALID" // Beta-Poisson requested with beta < 1
	WarningConcentrationFloored WarningCode = "CONCENTRATION_FLOORED" // negative concentration replaced by 0
	WarningRouteNotApplicable   WarningCode = "ROUTE_NOT_APPLICABLE"  // pathogen record does not list the route
)

// Warning is a non-fatal numeric event. Repeated events with the same code
// collapse into one entry with a count.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Count   int         `json:"count"`
}

// Diagnostics collects warnings raised while a computation recovers locally.
// A nil *Diagnostics discards everything. Not safe for concurrent use; each
// assessment owns its own instance.
type Diagnostics struct {
	warnings []Warning
	index    map[WarningCode]int
}

// NewDiagnostics creates an empty diagnostics log
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{index: make(map[WarningCode]int)}
}

// Warn records one occurrence of code.
func (d *Diagnostics) Warn(code WarningCode, format string, args ...interface{}) {
	d.WarnN(code, 1, format, args...)
}

// WarnN records n occurrences of code. The first message is kept.
func (d *Diagnostics) WarnN(code WarningCode, n int, format string, args ...interface{}) {
	if d == nil || n <= 0 {
		return
	}
	if d.index == nil {
		d.index = make(map[WarningCode]int)
	}
	if i, ok := d.index[code]; ok {
		d.warnings[i].Count += n
		return
	}
	d.index[code] = len(d.warnings)
	d.warnings = append(d.warnings, Warning{Code: code, Message: fmt.Sprintf(format, args...), Count: n})
}

// Count returns how many times code was recorded.
func (d *Diagnostics) Count(code WarningCode) int {
	if d == nil {
		return 0
	}
	if i, ok := d.index[code]; ok {
		return d.warnings[i].Count
	}
	return 0
}

// Warnings returns a copy of the recorded warnings in first-seen order.
func (d *Diagnostics) Warnings() []Warning {
	if d == nil {
		return nil
	}
	return append([]Warning(nil), d.warnings...)
}

// Empty reports whether nothing was recorded.
func (d *Diagnostics) Empty() bool {
	return d == nil || len(d.warnings) == 0
}
