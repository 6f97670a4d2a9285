package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/newsletter-agent/internal/digest"
	"github.com/jonathan/newsletter-agent/internal/factcheck"
	"github.com/jonathan/newsletter-agent/internal/fetch"
	"github.com/jonathan/newsletter-agent/internal/llm"
	"github.com/jonathan/newsletter-agent/internal/observability"
	"github.com/jonathan/newsletter-agent/internal/render"
	"github.com/jonathan/newsletter-agent/internal/search"
	"github.com/jonathan/newsletter-agent/internal/types"
)

const (
	// sourcesPerTopic is how many web sources are researched per topic
	sourcesPerTopic = 3
	// scrapeConcurrency bounds parallel source fetches
	scrapeConcurrency = 3
	// minDocChars discards scraped pages too thin to cite
	minDocChars = 200
	// simplifiedKeywordCount is used for the fallback search query
	simplifiedKeywordCount = 2
)

// processTopic runs the research, synthesis, and verification stages
// for a single digest topic and returns its rendered section.
func processTopic(ctx context.Context, llmClient llm.Client, searchClient *search.Client, checker *factcheck.Checker, topic string, article digest.Article, opts RunOptions, printer *observability.Printer) (TopicResult, error) {
	sources := researchSources(ctx, searchClient, topic, article)
	if len(sources) == 0 {
		return TopicResult{}, fmt.Errorf("no sources found")
	}

	docs := scrapeDocuments(ctx, sources, opts.UseBrowser, opts.Verbose)
	if len(docs) == 0 {
		return TopicResult{}, fmt.Errorf("all %d sources failed to scrape", len(sources))
	}

	report, err := synthesizeWithRetry(ctx, llmClient, topic, docs)
	if err != nil {
		return TopicResult{}, err
	}
	if report.Title == "" {
		report.Title = topic
	}
	if opts.Verbose {
		printer.PrintSynthesisReport(report)
	}

	factCheck := checker.VerifyContent(ctx, topic, report.Summary)
	if opts.Verbose {
		printer.PrintFactCheckReport(&factCheck)
	}

	return TopicResult{
		Topic:     topic,
		Section:   render.NewTopicSection(report, factcheck.FormatReportHTML(factCheck)),
		FactCheck: &factCheck,
	}, nil
}

// researchSources finds web sources for a topic. The primary query is
// the topic's keywords plus "tutorial"; a zero-result query is retried
// with only the leading keywords. Without a configured search client
// the digest's own article link is the sole source.
func researchSources(ctx context.Context, client *search.Client, topic string, article digest.Article) []types.SourceCandidate {
	if !client.IsConfigured() {
		if article.URL == "" {
			return nil
		}
		return []types.SourceCandidate{{
			Title:  article.Title,
			URL:    article.URL,
			Domain: factcheck.ExtractDomain(article.URL),
		}}
	}

	keywords := digest.SearchKeywords(topic)
	if keywords == "" {
		keywords = topic
	}

	results := client.Search(ctx, keywords+" tutorial", sourcesPerTopic)

	if len(results) == 0 {
		words := strings.Fields(keywords)
		if len(words) > simplifiedKeywordCount {
			simplified := strings.Join(words[:simplifiedKeywordCount], " ")
			results = client.Search(ctx, simplified, sourcesPerTopic)
		}
	}
	return results
}

// scrapeDocuments fetches source pages concurrently, preserving source
// order. Failed or near-empty pages are dropped rather than failing the
// topic.
func scrapeDocuments(ctx context.Context, sources []types.SourceCandidate, useBrowser, verbose bool) []types.ScrapedDocument {
	scraped := make([]*types.ScrapedDocument, len(sources))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(scrapeConcurrency)

	for i, source := range sources {
		g.Go(func() error {
			content, err := fetch.Scrape(gCtx, source.URL, useBrowser, verbose)
			if err != nil {
				if verbose {
					fmt.Printf("  [VERBOSE] scrape failed for %s: %v\n", source.URL, err)
				}
				return nil
			}
			if len(content) < minDocChars {
				return nil
			}
			scraped[i] = &types.ScrapedDocument{
				Title:   source.Title,
				URL:     source.URL,
				Content: content,
			}
			return nil
		})
	}
	_ = g.Wait()

	docs := make([]types.ScrapedDocument, 0, len(sources))
	for _, doc := range scraped {
		if doc != nil {
			docs = append(docs, *doc)
		}
	}
	return docs
}

// synthesizeWithRetry retries transient LLM failures with linear backoff.
func synthesizeWithRetry(ctx context.Context, client llm.Client, topic string, docs []types.ScrapedDocument) (*types.SynthesisReport, error) {
	var lastErr error
	for attempt := 1; attempt <= synthesisAttempts; attempt++ {
		report, err := llm.Synthesize(ctx, client, topic, docs)
		if err == nil {
			return report, nil
		}
		lastErr = err

		if attempt < synthesisAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * synthesisBackoff):
			}
		}
	}
	return nil, fmt.Errorf("synthesis failed after %d attempts: %w", synthesisAttempts, lastErr)
}
