package treatment

import (
	"math"
	"math/rand/v2"

	"goqmra/domain/core"
)

// Dilution describes the receiving environment between the discharge point and
// the exposure site. Flows share any unit. A zero receiving flow means no
// dilution; a zero decay rate means no die-off.
type Dilution struct {
	DischargeFlow float64 `json:"discharge_flow"`
	ReceivingFlow float64 `json:"receiving_flow"`
	DecayRate     float64 `json:"decay_rate_per_day,omitempty"`
	TravelTime    float64 `json:"travel_time_days,omitempty"`
}

// Validate checks flows and die-off parameters.
func (d Dilution) Validate() error {
	var report core.ValidationReport
	report.Check(finiteNonNegative(d.ReceivingFlow), "dilution.receiving_flow", "must be a finite value >= 0")
	report.Check(finiteNonNegative(d.DecayRate), "dilution.decay_rate_per_day", "must be a finite value >= 0")
	report.Check(finiteNonNegative(d.TravelTime), "dilution.travel_time_days", "must be a finite value >= 0")
	if d.ReceivingFlow > 0 {
		report.Check(d.DischargeFlow > 0 && !math.IsInf(d.DischargeFlow, 1), "dilution.discharge_flow", "must be a finite value > 0")
	} else {
		report.Check(finiteNonNegative(d.DischargeFlow), "dilution.discharge_flow", "must be a finite value >= 0")
	}
	return report.Err()
}

// Factor returns Q_discharge/(Q_discharge+Q_receiving).
func (d Dilution) Factor() float64 {
	if d.ReceivingFlow == 0 {
		return 1
	}
	return d.DischargeFlow / (d.DischargeFlow + d.ReceivingFlow)
}

// Survival returns exp(-decay_rate * travel_time).
func (d Dilution) Survival() float64 {
	return math.Exp(-d.DecayRate * d.TravelTime)
}

// Model is the full treatment, dilution and die-off composition.
type Model struct {
	Barriers Train     `json:"barriers,omitempty"`
	Dilution *Dilution `json:"dilution,omitempty"`
}

// NewModel validates barriers and dilution together.
func NewModel(barriers Train, dilution *Dilution) (*Model, error) {
	m := &Model{Barriers: append(Train(nil), barriers...), Dilution: dilution}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate reports every barrier and dilution issue at once.
func (m *Model) Validate() error {
	var report core.ValidationReport
	report.MergeErr("", m.Barriers.Validate())
	if m.Dilution != nil {
		report.MergeErr("", m.Dilution.Validate())
	}
	return report.Err()
}

// Apply transforms a concentration using mean LRVs.
func (m *Model) Apply(concentration float64) float64 {
	lrv, _ := m.Barriers.CumulativeLRV()
	return m.after(Reduce(concentration, lrv))
}

// ApplySamples transforms one concentration per Monte Carlo draw, drawing a
// fresh cumulative LRV per draw when any barrier is variable. rng may be nil
// when no barrier is variable.
func (m *Model) ApplySamples(concentrations []float64, rng *rand.Rand) ([]float64, error) {
	variable := m.Barriers.HasVariability()
	if variable && rng == nil {
		return nil, core.NewPreconditionError("treatment.apply", "a random generator is required for variable barriers")
	}
	meanLRV, _ := m.Barriers.CumulativeLRV()
	out := make([]float64, len(concentrations))
	for i, c := range concentrations {
		lrv := meanLRV
		if variable {
			lrv = m.Barriers.SampleLRV(rng)
		}
		out[i] = m.after(Reduce(c, lrv))
	}
	return out, nil
}

// LogReduction returns the total mean log10 reduction across all stages.
func (m *Model) LogReduction() float64 {
	lrv, _ := m.Barriers.CumulativeLRV()
	if m.Dilution != nil {
		lrv -= math.Log10(m.Dilution.Factor() * m.Dilution.Survival())
	}
	return lrv
}

func (m *Model) after(c float64) float64 {
	if m.Dilution == nil {
		return c
	}
	return c * m.Dilution.Factor() * m.Dilution.Survival()
}
