// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ghostwatch/internal/pipeline"
	"github.com/jonathan/ghostwatch/internal/scoring"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
)

// signalLabels maps signal names to display labels, in breakdown order.
var signalLabels = []struct {
	name  string
	label string
}{
	{scoring.SignalFreshness, "Freshness"},
	{scoring.SignalLinkIntegrity, "Link integrity"},
	{scoring.SignalSalaryDisclosure, "Salary disclosure"},
	{scoring.SignalSourceCredibility, "Source credibility"},
	{scoring.SignalSkillDensity, "Skill density"},
	{scoring.SignalBuzzwordPenalty, "Buzzword penalty"},
	{scoring.SignalCompPeriodClarity, "Comp period clarity"},
	{scoring.SignalCadence, "Update cadence"},
	{scoring.SignalChangeQuality, "Change quality"},
}

// Printer handles formatted output for the analysis report
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintReport outputs the full analysis report: verdict, posting summary,
// signal breakdown, and recommendations.
func (p *Printer) PrintReport(report *pipeline.Report) {
	if report == nil || report.Result == nil {
		return
	}
	p.printVerdict(report)
	p.PrintBreakdown(report.Result)
	p.PrintRecommendations(report.Result)
}

func (p *Printer) printVerdict(report *pipeline.Report) {
	result := report.Result

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Ghost risk:  %s\n", strings.ToUpper(string(result.Tier))))
	sb.WriteString(fmt.Sprintf("Score:       %.2f / 1.00\n", result.Score))
	sb.WriteString("\n")

	if record := report.Record; record != nil {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", record.Title))
		if record.Company != "" {
			sb.WriteString(fmt.Sprintf("Company:  %s\n", record.Company))
		}
		sb.WriteString(fmt.Sprintf("Source:   %s\n", record.Provider))
		if report.CacheHit {
			sb.WriteString("Served from cache\n")
		}
	} else {
		sb.WriteString("Source:   untracked (scored without history)\n")
	}
	sb.WriteString(fmt.Sprintf("\nRequests remaining: %d", report.TokensRemaining))

	p.printBox("ANALYSIS VERDICT", sb.String())
}

// PrintBreakdown outputs each signal's value, or a dash for signals that
// did not apply to this posting.
func (p *Printer) PrintBreakdown(result *scoring.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	for i, s := range signalLabels {
		if value, ok := result.Breakdown[s.name]; ok {
			sb.WriteString(fmt.Sprintf("%-20s %.2f  %s", s.label, value, bar(value)))
		} else {
			sb.WriteString(fmt.Sprintf("%-20s   -", s.label))
		}
		if i < len(signalLabels)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SIGNAL BREAKDOWN", sb.String())
}

// PrintRecommendations outputs the actionable findings, if any.
func (p *Printer) PrintRecommendations(result *scoring.Result) {
	if result == nil || len(result.Recommendations) == 0 {
		return
	}

	var sb strings.Builder
	for i, rec := range result.Recommendations {
		sb.WriteString(fmt.Sprintf("⚠ %s", rec))
		if i < len(result.Recommendations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RECOMMENDATIONS", sb.String())
}

// bar renders a ten-step gauge for a value in [0,1].
func bar(value float64) string {
	filled := int(value*10 + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", 10-filled) + "]"
}
