// Package scoring combines the per-posting signals into one weighted
// ghost-job risk score with a tier and human-readable recommendations.
//
// The scale is inverted relative to risk: a LOW score means HIGH ghost-job
// risk. Signals measure quality; the tier names translate back to risk.
package scoring

// Signal is an optional score in [0,1]. The zero value is absent; absent
// and zero-valued are never conflated.
type Signal struct {
	value   float64
	present bool
}

// Present wraps a value as a present signal.
func Present(value float64) Signal {
	return Signal{value: value, present: true}
}

// Absent returns the missing signal.
func Absent() Signal {
	return Signal{}
}

// Value returns the signal's value and whether it is present.
func (s Signal) Value() (float64, bool) {
	return s.value, s.present
}

// IsPresent reports whether the signal carries a value.
func (s Signal) IsPresent() bool {
	return s.present
}

// Signal names as they appear in breakdown maps and recommendations.
const (
	SignalFreshness         = "freshness"
	SignalLinkIntegrity     = "link_integrity"
	SignalSalaryDisclosure  = "salary_disclosure"
	SignalSourceCredibility = "source_credibility"
	SignalSkillDensity      = "skill_density"
	SignalBuzzwordPenalty   = "buzzword_penalty"
	SignalCompPeriodClarity = "comp_period_clarity"
	SignalCadence           = "cadence"
	SignalChangeQuality     = "change_quality"
)

// Breakdown holds every signal, present or not.
type Breakdown struct {
	Freshness         Signal
	LinkIntegrity     Signal
	SalaryDisclosure  Signal
	SourceCredibility Signal
	SkillDensity      Signal
	BuzzwordPenalty   Signal
	CompPeriodClarity Signal
	Cadence           Signal
	ChangeQuality     Signal
}

// entries returns name/signal pairs in a stable order.
func (b *Breakdown) entries() []struct {
	name   string
	signal Signal
} {
	return []struct {
		name   string
		signal Signal
	}{
		{SignalFreshness, b.Freshness},
		{SignalLinkIntegrity, b.LinkIntegrity},
		{SignalSalaryDisclosure, b.SalaryDisclosure},
		{SignalSourceCredibility, b.SourceCredibility},
		{SignalSkillDensity, b.SkillDensity},
		{SignalBuzzwordPenalty, b.BuzzwordPenalty},
		{SignalCompPeriodClarity, b.CompPeriodClarity},
		{SignalCadence, b.Cadence},
		{SignalChangeQuality, b.ChangeQuality},
	}
}

// Map projects the present signals into a name-to-value map for display.
func (b *Breakdown) Map() map[string]float64 {
	out := make(map[string]float64)
	for _, e := range b.entries() {
		if v, ok := e.signal.Value(); ok {
			out[e.name] = v
		}
	}
	return out
}
