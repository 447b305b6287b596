// Package nlp defines the contract with the text-analysis collaborator and
// a Gemini-backed implementation. The core treats the analyzer as a black
// box: one blocking call, no internal retries.
package nlp

import "context"

// MaxInputChars is the hard cap the core applies to posting text before an
// analysis call.
const MaxInputChars = 20000

// Skill is one extracted skill mention.
type Skill struct {
	Name string `json:"name"`
}

// Buzzwords summarizes vague hype phrasing found in the posting.
type Buzzwords struct {
	Hits  []string `json:"hits,omitempty"`
	Count int      `json:"count"`
}

// Metadata gives the analyzer light context about the posting.
type Metadata struct {
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
}

// Analysis is the collaborator's output.
type Analysis struct {
	Skills             []Skill   `json:"skills,omitempty"`
	Buzzwords          Buzzwords `json:"buzzwords"`
	CompPeriodDetected bool      `json:"comp_period_detected"`
}

// Analyzer extracts scoring signals from posting text.
type Analyzer interface {
	Analyze(ctx context.Context, plainText string, meta Metadata) (*Analysis, error)
	Close() error
}

// Truncate caps text at MaxInputChars.
func Truncate(text string) string {
	if len(text) <= MaxInputChars {
		return text
	}
	return text[:MaxInputChars]
}
