package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/jonathan/ghostwatch/internal/db"
	"github.com/jonathan/ghostwatch/internal/hashing"
	"github.com/jonathan/ghostwatch/internal/source"
)

const (
	// freshnessDecayDays is the window over which a posting's freshness
	// decays linearly from 1 to 0.
	freshnessDecayDays = 90

	// ghostIndication is the level under which cadence and change quality
	// each independently look ghost-like; when both do, they corroborate.
	ghostIndication = 0.3

	neutral = 0.5
)

// FreshnessSignal decays linearly to 0 over 90 days from first publication.
// An unknown publish date is neutral, not damning.
func FreshnessSignal(firstPublished *time.Time, now time.Time) Signal {
	if firstPublished == nil {
		return Present(neutral)
	}
	ageDays := now.Sub(*firstPublished).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return Present(clamp01(1 - ageDays/freshnessDecayDays))
}

// LinkIntegritySignal is the boolean AND of "link resolved" and "not a
// redirect loop".
func LinkIntegritySignal(resolved, redirectLoop bool) Signal {
	if resolved && !redirectLoop {
		return Present(1)
	}
	return Present(0)
}

// SalaryDisclosureSignal tiers by how much of the range is stated.
func SalaryDisclosureSignal(salaryMin, salaryMax *float64) Signal {
	switch {
	case salaryMin != nil && salaryMax != nil:
		return Present(1)
	case salaryMin != nil || salaryMax != nil:
		return Present(0.5)
	default:
		return Present(0)
	}
}

// SourceCredibilitySignal blends the known-ATS-host allowlist with the
// salary provenance field. A company-run ATS board carries the most
// provenance; explicitly stated salary data adds to it.
func SourceCredibilitySignal(provider, salaryProvenance string) Signal {
	var host float64
	switch {
	case source.CredibleHost(provider):
		host = 0.8
	case source.Platform(strings.ToLower(provider)) == source.PlatformLinkedIn:
		host = 0.6
	default:
		host = 0.4
	}

	var provenance float64
	switch strings.ToLower(strings.TrimSpace(salaryProvenance)) {
	case "stated", "employer":
		provenance = 1.0
	case "estimated", "derived":
		provenance = 0.5
	default:
		provenance = 0.25
	}

	return Present(clamp01(0.7*host + 0.3*provenance))
}

// SkillDensitySignal saturates at ten concrete skills.
func SkillDensitySignal(skillCount int) Signal {
	return Present(clamp01(float64(skillCount) / 10))
}

// BuzzwordPenaltySignal degrades from 1 toward 0 as hype phrasing piles up,
// saturating at eight hits.
func BuzzwordPenaltySignal(buzzwordCount int) Signal {
	return Present(clamp01(1 - float64(buzzwordCount)/8))
}

// CompPeriodClaritySignal is binary on whether a pay period was stated.
func CompPeriodClaritySignal(detected bool) Signal {
	if detected {
		return Present(1)
	}
	return Present(0)
}

// ChangeQualitySignal classifies the snapshot history. The base score is
// the fraction of snapshot-to-snapshot transitions that are significant
// content edits. Runs of duplicate fingerprints cut the score by up to 50%
// once more than half of the observed fingerprints repeat, and when both
// cadence and change quality independently look ghost-like the two weak
// signals corroborate into a stronger one.
func ChangeQualitySignal(snapshots []db.JobSnapshot, significanceThreshold int, cadence Signal) Signal {
	if len(snapshots) == 0 {
		return Absent()
	}
	if len(snapshots) == 1 {
		// A single observation has no change history to judge.
		return Present(neutral)
	}

	var significant int
	for i := 1; i < len(snapshots); i++ {
		distance := hashing.HammingDistance(snapshots[i-1].ContentSimhash, snapshots[i].ContentSimhash)
		if distance > significanceThreshold {
			significant++
		}
	}
	score := float64(significant) / float64(len(snapshots)-1)

	score *= duplicatePenalty(snapshots)

	if cadenceValue, ok := cadence.Value(); ok {
		if cadenceValue < ghostIndication && score < ghostIndication {
			score *= 0.5
		}
	}

	return Present(clamp01(score))
}

// duplicatePenalty returns the multiplier applied when fingerprints repeat.
// With up to half the fingerprints unique duplicates are tolerated; past
// that the multiplier falls linearly to 0.5.
func duplicatePenalty(snapshots []db.JobSnapshot) float64 {
	seen := make(map[string]struct{}, len(snapshots))
	for _, s := range snapshots {
		seen[s.ContentHash] = struct{}{}
	}
	duplicateRatio := 1 - float64(len(seen))/float64(len(snapshots))
	if duplicateRatio <= 0.5 {
		return 1
	}
	return 1 - (duplicateRatio - 0.5)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
