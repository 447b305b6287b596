package cadence

import (
	"testing"
	"time"
)

func ts(days ...int) []time.Time {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	out := make([]time.Time, len(days))
	for i, d := range days {
		out[i] = base.AddDate(0, 0, d)
	}
	return out
}

func TestAnalyze_InsufficientData(t *testing.T) {
	tests := []struct {
		name       string
		timestamps []time.Time
	}{
		{"nil", nil},
		{"one", ts(0)},
		{"two", ts(0, 7)},
		{"three", ts(0, 7, 14)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Analyze(tt.timestamps); got != NeutralScore {
				t.Errorf("Analyze() = %v, want %v", got, NeutralScore)
			}
		})
	}
}

func TestAnalyze_PerfectlyRegular(t *testing.T) {
	// Exactly 7 days apart: CV is 0, the strongest ghost-job cadence signal.
	if got := Analyze(ts(0, 7, 14, 21)); got != 0.0 {
		t.Errorf("Analyze(weekly) = %v, want 0.0", got)
	}
}

func TestAnalyze_HighlyIrregular(t *testing.T) {
	// Gaps of 1, 40, 3, and 60 days look organic.
	if got := Analyze(ts(0, 1, 41, 44, 104)); got != 1.0 {
		t.Errorf("Analyze(irregular) = %v, want 1.0", got)
	}
}

func TestAnalyze_Interpolation(t *testing.T) {
	// Intervals of 7, 7, 14 days: mean 9.333, stddev 3.3, CV ~0.354,
	// mapped to (0.354-0.2)/0.3 ~ 0.512.
	got := Analyze(ts(0, 7, 14, 28))
	if got <= 0.0 || got >= 1.0 {
		t.Fatalf("Analyze(mixed) = %v, want strictly between 0 and 1", got)
	}
	if got < 0.45 || got > 0.58 {
		t.Errorf("Analyze(mixed) = %v, want ~0.512", got)
	}
}

func TestAnalyze_UnsortedInput(t *testing.T) {
	sorted := Analyze(ts(0, 7, 14, 21))
	shuffled := Analyze(ts(14, 0, 21, 7))
	if sorted != shuffled {
		t.Errorf("Analyze() order-sensitive: %v != %v", sorted, shuffled)
	}
}

func TestAnalyze_SameInstant(t *testing.T) {
	same := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := Analyze([]time.Time{same, same, same, same}); got != 0.0 {
		t.Errorf("Analyze(same instant) = %v, want 0.0", got)
	}
}
