package render

import (
	_ "embed"
	"html/template"
	"strings"
	"time"

	"github.com/jonathan/newsletter-agent/internal/types"
)

//go:embed newsletter.html.tmpl
var newsletterTemplate string

// TopicSection is one rendered topic in the newsletter.
type TopicSection struct {
	Title      string
	Paragraphs []string
	References []types.Reference
	// FactCheckHTML is a pre-escaped fragment produced by the fact-check
	// formatter. It is the only trusted-HTML input to the template.
	FactCheckHTML template.HTML
}

// NewsletterData is the root template context.
type NewsletterData struct {
	Date   string
	Topics []TopicSection
}

// NewTopicSection builds a section from a synthesis report and an
// optional fact-check fragment. The summary is split into paragraphs on
// blank lines so the template can space them properly.
func NewTopicSection(report *types.SynthesisReport, factCheckHTML string) TopicSection {
	return TopicSection{
		Title:         report.Title,
		Paragraphs:    splitParagraphs(report.Summary),
		References:    report.References,
		FactCheckHTML: template.HTML(factCheckHTML),
	}
}

// RenderNewsletter renders the full newsletter HTML for a given date.
// All topic text passes through html/template's contextual escaping;
// only FactCheckHTML bypasses it.
func RenderNewsletter(date time.Time, topics []TopicSection) (string, error) {
	tmpl, err := template.New("newsletter").Parse(newsletterTemplate)
	if err != nil {
		return "", &TemplateError{Message: "failed to parse newsletter template", Cause: err}
	}

	data := NewsletterData{
		Date:   date.Format("January 2, 2006"),
		Topics: topics,
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", &TemplateError{Message: "failed to execute newsletter template", Cause: err}
	}
	return sb.String(), nil
}

// splitParagraphs splits summary text on blank lines, dropping empties.
func splitParagraphs(summary string) []string {
	var paragraphs []string
	for _, block := range strings.Split(summary, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return paragraphs
}
