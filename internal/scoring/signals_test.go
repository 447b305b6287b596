package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/jonathan/ghostwatch/internal/db"
)

func floatPtr(v float64) *float64 { return &v }

func mustValue(t *testing.T, s Signal) float64 {
	t.Helper()
	v, ok := s.Value()
	if !ok {
		t.Fatal("signal unexpectedly absent")
	}
	return v
}

func TestFreshnessSignal(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		ageDays  int
		expected float64
	}{
		{"published today", 0, 1.0},
		{"45 days old", 45, 0.5},
		{"90 days old", 90, 0.0},
		{"180 days old", 180, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			published := now.AddDate(0, 0, -tt.ageDays)
			got := mustValue(t, FreshnessSignal(&published, now))
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("FreshnessSignal(%d days) = %v, want %v", tt.ageDays, got, tt.expected)
			}
		})
	}
}

func TestFreshnessSignal_UnknownDate(t *testing.T) {
	got := mustValue(t, FreshnessSignal(nil, time.Now()))
	if got != 0.5 {
		t.Errorf("FreshnessSignal(nil) = %v, want neutral 0.5", got)
	}
}

func TestLinkIntegritySignal(t *testing.T) {
	tests := []struct {
		name         string
		resolved     bool
		redirectLoop bool
		expected     float64
	}{
		{"healthy", true, false, 1},
		{"unresolved", false, false, 0},
		{"redirect loop", true, true, 0},
		{"both bad", false, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustValue(t, LinkIntegritySignal(tt.resolved, tt.redirectLoop))
			if got != tt.expected {
				t.Errorf("LinkIntegritySignal(%v, %v) = %v, want %v",
					tt.resolved, tt.redirectLoop, got, tt.expected)
			}
		})
	}
}

func TestSalaryDisclosureSignal(t *testing.T) {
	tests := []struct {
		name     string
		min, max *float64
		expected float64
	}{
		{"full range", floatPtr(50000), floatPtr(70000), 1},
		{"min only", floatPtr(50000), nil, 0.5},
		{"max only", nil, floatPtr(70000), 0.5},
		{"nothing", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustValue(t, SalaryDisclosureSignal(tt.min, tt.max))
			if got != tt.expected {
				t.Errorf("SalaryDisclosureSignal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSourceCredibilitySignal(t *testing.T) {
	tests := []struct {
		name       string
		provider   string
		provenance string
		expected   float64
	}{
		{"ATS with stated salary", "greenhouse", "stated", 0.7*0.8 + 0.3*1.0},
		{"ATS without provenance", "lever", "", 0.7*0.8 + 0.3*0.25},
		{"linkedin estimated", "linkedin", "estimated", 0.7*0.6 + 0.3*0.5},
		{"unknown source", "random-board", "", 0.7*0.4 + 0.3*0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustValue(t, SourceCredibilitySignal(tt.provider, tt.provenance))
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("SourceCredibilitySignal(%q, %q) = %v, want %v",
					tt.provider, tt.provenance, got, tt.expected)
			}
		})
	}
}

func TestSkillDensitySignal(t *testing.T) {
	tests := []struct {
		count    int
		expected float64
	}{
		{0, 0}, {5, 0.5}, {10, 1}, {25, 1},
	}

	for _, tt := range tests {
		got := mustValue(t, SkillDensitySignal(tt.count))
		if got != tt.expected {
			t.Errorf("SkillDensitySignal(%d) = %v, want %v", tt.count, got, tt.expected)
		}
	}
}

func TestBuzzwordPenaltySignal(t *testing.T) {
	tests := []struct {
		count    int
		expected float64
	}{
		{0, 1}, {4, 0.5}, {8, 0}, {20, 0},
	}

	for _, tt := range tests {
		got := mustValue(t, BuzzwordPenaltySignal(tt.count))
		if got != tt.expected {
			t.Errorf("BuzzwordPenaltySignal(%d) = %v, want %v", tt.count, got, tt.expected)
		}
	}
}

func snapshotChain(hashes []string, simhashes []uint64) []db.JobSnapshot {
	out := make([]db.JobSnapshot, len(hashes))
	for i := range hashes {
		out[i] = db.JobSnapshot{ContentHash: hashes[i], ContentSimhash: simhashes[i]}
	}
	return out
}

func TestChangeQualitySignal_NoHistory(t *testing.T) {
	if ChangeQualitySignal(nil, 10, Absent()).IsPresent() {
		t.Error("no snapshots should yield an absent signal")
	}

	single := snapshotChain([]string{"a"}, []uint64{1})
	if got := mustValue(t, ChangeQualitySignal(single, 10, Absent())); got != 0.5 {
		t.Errorf("single snapshot = %v, want neutral 0.5", got)
	}
}

func TestChangeQualitySignal_GenuineEdits(t *testing.T) {
	// Each transition flips far more than 10 bits.
	chain := snapshotChain(
		[]string{"a", "b", "c"},
		[]uint64{0, 0xFFFF, 0xFFFF0000},
	)
	got := mustValue(t, ChangeQualitySignal(chain, 10, Present(0.8)))
	if got != 1.0 {
		t.Errorf("all-significant history = %v, want 1.0", got)
	}
}

func TestChangeQualitySignal_DuplicateRun(t *testing.T) {
	// Four observations, one unique fingerprint: 75% duplicates and no
	// significant transitions.
	chain := snapshotChain(
		[]string{"a", "a", "a", "a"},
		[]uint64{7, 7, 7, 7},
	)
	got := mustValue(t, ChangeQualitySignal(chain, 10, Present(0.9)))
	if got != 0 {
		t.Errorf("pure duplicate history = %v, want 0", got)
	}
}

func TestChangeQualitySignal_CorroborationDampening(t *testing.T) {
	// One of four transitions is significant (0.25, already ghost-like).
	chain := snapshotChain(
		[]string{"a", "b", "c", "d", "e"},
		[]uint64{0, 1, 2, 3, 0xFFFFFF},
	)

	organic := mustValue(t, ChangeQualitySignal(chain, 10, Present(0.9)))
	ghostly := mustValue(t, ChangeQualitySignal(chain, 10, Present(0.1)))

	if math.Abs(organic-0.25) > 1e-9 {
		t.Fatalf("undampened score = %v, want 0.25", organic)
	}
	if math.Abs(ghostly-0.125) > 1e-9 {
		t.Errorf("corroborated score = %v, want 0.125 (halved)", ghostly)
	}
}
