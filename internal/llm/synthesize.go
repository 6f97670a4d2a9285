// Package llm - synthesize.go turns scraped research articles into a
// structured topic report.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/newsletter-agent/internal/prompts"
	"github.com/jonathan/newsletter-agent/internal/schemas"
	"github.com/jonathan/newsletter-agent/internal/types"
)

// maxArticleChars caps per-article context to stay within token limits
const maxArticleChars = 2000

// Synthesize generates a report for a topic from scraped source documents.
// The LLM response is schema-validated before being trusted; a response
// that fails validation is an error the caller may retry.
func Synthesize(ctx context.Context, client Client, topic string, docs []types.ScrapedDocument) (*types.SynthesisReport, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("no source documents to synthesize for %q", topic)
	}

	prompt := buildSynthesisPrompt(topic, docs)

	jsonResp, err := client.GenerateJSON(ctx, prompt, TierStandard)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}
	jsonResp = CleanJSONBlock(jsonResp)

	if err := schemas.ValidateSynthesisReport(jsonResp); err != nil {
		return nil, fmt.Errorf("synthesis response failed schema validation: %w", err)
	}

	var report types.SynthesisReport
	if err := json.Unmarshal([]byte(jsonResp), &report); err != nil {
		return nil, fmt.Errorf("failed to parse synthesis response: %w", err)
	}

	return &report, nil
}

// buildSynthesisPrompt assembles the editor prompt with the per-article
// context block, each article truncated to maxArticleChars.
func buildSynthesisPrompt(topic string, docs []types.ScrapedDocument) string {
	var articles strings.Builder
	for i, doc := range docs {
		content := doc.Content
		if len(content) > maxArticleChars {
			content = content[:maxArticleChars]
		}
		fmt.Fprintf(&articles, "\n[Article %d]: %s\nSource: %s\nContent:\n%s\n%s\n",
			i+1, doc.Title, doc.URL, content, strings.Repeat("-", 20))
	}

	template := prompts.MustGet("synthesis.json", "synthesize-report")
	return prompts.Format(template, map[string]string{
		"Topic":    topic,
		"Articles": articles.String(),
	})
}
