package factcheck

import (
	"fmt"
	"html"
	"strings"

	"github.com/jonathan/newsletter-agent/internal/types"
)

// Three-tier confidence colors: green >= 70%, amber >= 40%, red below
const (
	colorGood = "#27ae60"
	colorWarn = "#f39c12"
	colorBad  = "#e74c3c"
	colorLink = "#3498db"
)

const (
	maxDisplayedResults = 3
	maxDisplayedSources = 3
	claimPreviewLen     = 80
	claimPreviewTextLen = 60
	titlePreviewLen     = 50
)

// FormatReportHTML renders a fact-check report as an HTML fragment suitable
// for inline embedding in the newsletter. All source-derived text (claims,
// titles, URLs) is escaped before interpolation, since search results are
// untrusted third-party content. Empty sub-lists are skipped while the
// surrounding container is still rendered.
func FormatReportHTML(report types.FactCheckReport) string {
	var b strings.Builder
	b.WriteString(`<div class="fact-check">` + "\n")
	b.WriteString("<h4>🔍 Fact-Check Report</h4>\n")

	pct := int(report.OverallConfidence * 100)
	color := confidenceColor(pct)
	fmt.Fprintf(&b, `<div class="confidence-meter" style="margin-bottom: 10px;">
<span style="font-weight: bold;">Confidence: </span>
<span style="color: %s; font-weight: bold;">%d%%</span>
<div style="background: #eee; height: 8px; border-radius: 4px; margin-top: 4px;">
<div style="background: %s; width: %d%%; height: 100%%; border-radius: 4px;"></div>
</div>
</div>
`, color, pct, color, pct)

	if len(report.VerificationResults) > 0 {
		b.WriteString(`<div class="verifications" style="font-size: 0.9em; margin-bottom: 10px;">` + "\n")
		for i, result := range report.VerificationResults {
			if i >= maxDisplayedResults {
				break
			}
			fmt.Fprintf(&b, `<div style="margin: 4px 0;"><span style="color: %s;">%s</span> %s</div>`+"\n",
				statusColor(result.Status), statusIcon(result.Status),
				html.EscapeString(preview(result.Claim, claimPreviewLen)))
		}
		b.WriteString("</div>\n")
	}

	if len(report.ReliableSources) > 0 {
		b.WriteString(`<div class="sources" style="font-size: 0.85em; color: #666;">` + "\n")
		b.WriteString(`<p style="margin-bottom: 5px; font-weight: bold;">📚 Verified Sources:</p>` + "\n")
		for i, source := range report.ReliableSources {
			if i >= maxDisplayedSources {
				break
			}
			fmt.Fprintf(&b, `<div style="margin: 2px 0;"><a href="%s" target="_blank" style="color: %s;">• %s</a></div>`+"\n",
				html.EscapeString(source.URL), colorLink,
				html.EscapeString(preview(source.Title, titlePreviewLen)))
		}
		b.WriteString("</div>\n")
	}

	if len(report.Warnings) > 0 {
		b.WriteString(`<div class="warnings" style="font-size: 0.85em; color: ` + colorBad + `; margin-top: 8px;">` + "\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(&b, "<div>⚠ %s</div>\n", html.EscapeString(warning))
		}
		b.WriteString("</div>\n")
	}

	b.WriteString("</div>")
	return b.String()
}

// FormatReportText renders the same report data as plain text for console
// and log output.
func FormatReportText(report types.FactCheckReport) string {
	rule := strings.Repeat("━", 40)

	var lines []string
	lines = append(lines, rule, "🔍 FACT-CHECK REPORT", rule)
	lines = append(lines, fmt.Sprintf("Overall Confidence: %d%%", int(report.OverallConfidence*100)), "")

	if len(report.VerificationResults) > 0 {
		lines = append(lines, "Verification Results:")
		for _, result := range report.VerificationResults {
			icon := "✗"
			if result.Verified {
				icon = "✓"
			}
			lines = append(lines, fmt.Sprintf("  %s [%s] %s", icon, result.Status, preview(result.Claim, claimPreviewTextLen)))
		}
	}

	if len(report.ReliableSources) > 0 {
		lines = append(lines, "", "Verified Sources:")
		for i, source := range report.ReliableSources {
			if i >= maxDisplayedSources {
				break
			}
			lines = append(lines, fmt.Sprintf("  • %s", preview(source.Title, titlePreviewLen)))
			lines = append(lines, fmt.Sprintf("    %s", source.URL))
		}
	}

	if len(report.Warnings) > 0 {
		lines = append(lines, "", "Warnings:")
		for _, warning := range report.Warnings {
			lines = append(lines, fmt.Sprintf("  ⚠ %s", warning))
		}
	}

	lines = append(lines, rule)
	return strings.Join(lines, "\n")
}

// preview truncates to n runes with an ellipsis marker
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func confidenceColor(pct int) string {
	switch {
	case pct >= 70:
		return colorGood
	case pct >= 40:
		return colorWarn
	default:
		return colorBad
	}
}

func statusIcon(status types.VerificationStatus) string {
	switch status {
	case types.StatusVerified:
		return "✓"
	case types.StatusPartiallyVerified:
		return "⚠"
	default:
		return "✗"
	}
}

func statusColor(status types.VerificationStatus) string {
	switch status {
	case types.StatusVerified:
		return colorGood
	case types.StatusPartiallyVerified:
		return colorWarn
	default:
		return colorBad
	}
}
