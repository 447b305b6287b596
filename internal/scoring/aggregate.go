package scoring

import (
	"time"

	"github.com/jonathan/ghostwatch/internal/db"
)

// Tier is the risk classification derived from the final score.
type Tier string

// Risk tiers. The score scale is inverted: low quality scores mean high
// ghost-job risk.
const (
	TierHigh   Tier = "High"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"
)

// Tier thresholds on the final score.
const (
	highRiskBelow   = 0.4
	mediumRiskBelow = 0.7
)

// weights is the fixed per-signal weight table. It sums to 1.0 when every
// optional signal is present; only the weights of present signals divide
// the weighted sum.
var weights = map[string]float64{
	SignalFreshness:         0.15,
	SignalLinkIntegrity:     0.10,
	SignalSalaryDisclosure:  0.10,
	SignalSourceCredibility: 0.10,
	SignalSkillDensity:      0.15,
	SignalBuzzwordPenalty:   0.10,
	SignalCompPeriodClarity: 0.05,
	SignalCadence:           0.125,
	SignalChangeQuality:     0.125,
}

// Input carries everything the aggregator consumes. Pointer fields are
// optional; nil means the collaborator that produces them did not run.
type Input struct {
	FirstPublished *time.Time
	LinkResolved   bool
	RedirectLoop   bool

	Provider         string
	SalaryMin        *float64
	SalaryMax        *float64
	SalaryProvenance string

	// NLP-derived; nil when analysis was unavailable.
	SkillCount         *int
	BuzzwordCount      *int
	CompPeriodDetected *bool

	// Cadence score from update history; nil for untracked jobs.
	Cadence *float64

	// Snapshot chain in capture order; empty for untracked jobs.
	Snapshots             []db.JobSnapshot
	SignificanceThreshold int

	Now time.Time
}

// Result is the aggregator's output.
type Result struct {
	Score           float64            `json:"score"`
	Tier            Tier               `json:"tier"`
	Breakdown       map[string]float64 `json:"breakdown"`
	Recommendations []string           `json:"recommendations,omitempty"`

	// Signals keeps the typed view for callers that need to distinguish
	// absent from zero.
	Signals Breakdown `json:"-"`
}

// Compute evaluates every signal, aggregates the present ones, and derives
// the tier and recommendations. Missing optional data degrades to absence
// or a neutral value; Compute never fails.
func Compute(input Input) *Result {
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	breakdown := Breakdown{
		Freshness:         FreshnessSignal(input.FirstPublished, now),
		LinkIntegrity:     LinkIntegritySignal(input.LinkResolved, input.RedirectLoop),
		SalaryDisclosure:  SalaryDisclosureSignal(input.SalaryMin, input.SalaryMax),
		SourceCredibility: SourceCredibilitySignal(input.Provider, input.SalaryProvenance),
	}

	if input.SkillCount != nil {
		breakdown.SkillDensity = SkillDensitySignal(*input.SkillCount)
	}
	if input.BuzzwordCount != nil {
		breakdown.BuzzwordPenalty = BuzzwordPenaltySignal(*input.BuzzwordCount)
	}
	if input.CompPeriodDetected != nil {
		breakdown.CompPeriodClarity = CompPeriodClaritySignal(*input.CompPeriodDetected)
	}
	if input.Cadence != nil {
		breakdown.Cadence = Present(clamp01(*input.Cadence))
	}

	threshold := input.SignificanceThreshold
	if threshold <= 0 {
		threshold = 10
	}
	breakdown.ChangeQuality = ChangeQualitySignal(input.Snapshots, threshold, breakdown.Cadence)

	score := Aggregate(&breakdown)
	return &Result{
		Score:           score,
		Tier:            TierFor(score),
		Breakdown:       breakdown.Map(),
		Recommendations: Recommend(&breakdown),
		Signals:         breakdown,
	}
}

// Aggregate computes the weighted score over the present signals. The
// weighted sum is divided by the weight actually used, so the result is
// defined whenever at least one signal is present; if no applicable weight
// remains it falls back to the unweighted mean of present signals.
func Aggregate(breakdown *Breakdown) float64 {
	var weightedSum, weightUsed float64
	var plainSum float64
	var presentCount int

	for _, e := range breakdown.entries() {
		value, ok := e.signal.Value()
		if !ok {
			continue
		}
		presentCount++
		plainSum += value
		if w := weights[e.name]; w > 0 {
			weightedSum += value * w
			weightUsed += w
		}
	}

	if presentCount == 0 {
		return 0
	}
	if weightUsed == 0 {
		return clamp01(plainSum / float64(presentCount))
	}
	return clamp01(weightedSum / weightUsed)
}

// TierFor maps a final score to its risk tier.
func TierFor(score float64) Tier {
	switch {
	case score < highRiskBelow:
		return TierHigh
	case score < mediumRiskBelow:
		return TierMedium
	default:
		return TierLow
	}
}
