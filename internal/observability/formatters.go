// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/newsletter-agent/internal/digest"
	"github.com/jonathan/newsletter-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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

// PrintDigestTopics outputs the topics extracted from a digest email.
func (p *Printer) PrintDigestTopics(articles []digest.Article) {
	if len(articles) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d topics:\n\n", len(articles)))

	count := min(len(articles), maxItemsToShow)
	for i := 0; i < count; i++ {
		title := articles[i].Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, title))
	}

	if len(articles) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more topics", len(articles)-maxItemsToShow))
	}

	p.printBox("DIGEST TOPICS", sb.String())
}

// PrintSynthesisReport outputs a summary of the generated report.
func (p *Printer) PrintSynthesisReport(report *types.SynthesisReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	title := report.Title
	if len(title) > 48 {
		title = title[:45] + "..."
	}
	sb.WriteString(fmt.Sprintf("Title:   %s\n", title))
	sb.WriteString(fmt.Sprintf("Length:  %d chars\n", len(report.Summary)))
	sb.WriteString(fmt.Sprintf("Sources: %d referenced\n", len(report.References)))

	count := min(len(report.References), 3)
	for i := 0; i < count; i++ {
		ref := report.References[i].Title
		if len(ref) > 48 {
			ref = ref[:45] + "..."
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", ref))
	}
	if len(report.References) > 3 {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.References)-3))
	}

	p.printBox("SYNTHESIS REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFactCheckReport outputs per-claim verification results and the
// overall confidence for a topic.
func (p *Printer) PrintFactCheckReport(report *types.FactCheckReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall confidence: %.0f%%\n", report.OverallConfidence*100))

	if len(report.VerificationResults) > 0 {
		sb.WriteString("\n")
		count := min(len(report.VerificationResults), maxItemsToShow)
		for i := 0; i < count; i++ {
			result := report.VerificationResults[i]
			claim := result.Claim
			if len(claim) > 44 {
				claim = claim[:41] + "..."
			}
			sb.WriteString(fmt.Sprintf("%s %s\n", statusMark(result.Status), claim))
			sb.WriteString(fmt.Sprintf("  %.0f%% via %d source(s)\n", result.Confidence*100, len(result.Sources)))
			if i < count-1 {
				sb.WriteString("\n")
			}
		}
		if len(report.VerificationResults) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("\n... and %d more claims", len(report.VerificationResults)-maxItemsToShow))
		}
	}

	if len(report.Warnings) > 0 {
		sb.WriteString("\n\n")
		for i, warning := range report.Warnings {
			if len(warning) > 48 {
				warning = warning[:45] + "..."
			}
			sb.WriteString(fmt.Sprintf("⚠ %s", warning))
			if i < len(report.Warnings)-1 {
				sb.WriteString("\n")
			}
		}
	}

	p.printBox("FACT-CHECK REPORT", sb.String())
}

// statusMark maps a verification status to a single-character indicator.
func statusMark(status types.VerificationStatus) string {
	switch status {
	case types.StatusVerified:
		return "✓"
	case types.StatusPartiallyVerified:
		return "⚠"
	default:
		return "✗"
	}
}
