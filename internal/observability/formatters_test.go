package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/newsletter-agent/internal/digest"
	"github.com/jonathan/newsletter-agent/internal/types"
)

func TestPrintDigestTopics(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	articles := []digest.Article{
		{Title: "Understanding Go Channels", URL: "https://medium.com/a"},
		{Title: "Scaling Postgres to a Billion Rows", URL: "https://medium.com/b"},
	}

	p.PrintDigestTopics(articles)
	output := buf.String()

	assert.Contains(t, output, "DIGEST TOPICS")
	assert.Contains(t, output, "Found 2 topics")
	assert.Contains(t, output, "Understanding Go Channels")
	assert.Contains(t, output, "Scaling Postgres to a Billion")
}

func TestPrintDigestTopics_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDigestTopics(nil)

	assert.Empty(t, buf.String())
}

func TestPrintDigestTopics_TruncatesOverflow(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var articles []digest.Article
	for i := 0; i < 8; i++ {
		articles = append(articles, digest.Article{Title: "A Sufficiently Long Topic Title"})
	}

	p.PrintDigestTopics(articles)
	assert.Contains(t, buf.String(), "and 3 more topics")
}

func TestPrintSynthesisReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &types.SynthesisReport{
		Title:   "Inside Go Channels",
		Summary: "Channels are typed conduits.",
		References: []types.Reference{
			{Title: "Effective Go", URL: "https://go.dev/doc/effective_go"},
		},
	}

	p.PrintSynthesisReport(report)
	output := buf.String()

	assert.Contains(t, output, "SYNTHESIS REPORT")
	assert.Contains(t, output, "Inside Go Channels")
	assert.Contains(t, output, "1 referenced")
	assert.Contains(t, output, "Effective Go")
}

func TestPrintSynthesisReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSynthesisReport(nil)

	assert.Empty(t, buf.String())
}

func TestPrintFactCheckReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &types.FactCheckReport{
		Topic:             "Kubernetes",
		OverallConfidence: 0.85,
		VerificationResults: []types.VerificationResult{
			types.NewVerificationResult("Pods restart automatically", 0.9, nil),
			types.NewVerificationResult("etcd never loses data", 0.1, nil),
		},
		Warnings: []string{"1 claim(s) could not be verified."},
	}

	p.PrintFactCheckReport(report)
	output := buf.String()

	assert.Contains(t, output, "FACT-CHECK REPORT")
	assert.Contains(t, output, "Overall confidence: 85%")
	assert.Contains(t, output, "✓ Pods restart automatically")
	assert.Contains(t, output, "✗ etcd never loses data")
	assert.Contains(t, output, "⚠ 1 claim(s) could not be verified.")
}

func TestPrintFactCheckReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFactCheckReport(nil)

	assert.Empty(t, buf.String())
}
