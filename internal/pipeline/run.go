// Package pipeline provides the high-level orchestration for the daily
// newsletter generation process.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/newsletter-agent/internal/config"
	"github.com/jonathan/newsletter-agent/internal/digest"
	"github.com/jonathan/newsletter-agent/internal/factcheck"
	"github.com/jonathan/newsletter-agent/internal/llm"
	"github.com/jonathan/newsletter-agent/internal/mail"
	"github.com/jonathan/newsletter-agent/internal/observability"
	"github.com/jonathan/newsletter-agent/internal/render"
	"github.com/jonathan/newsletter-agent/internal/search"
	"github.com/jonathan/newsletter-agent/internal/types"
)

// Pipeline step identifiers used in progress events.
const (
	StepFetchDigest = "fetch_digest"
	StepParseDigest = "parse_digest"
	StepResearch    = "research"
	StepSynthesize  = "synthesize"
	StepFactCheck   = "fact_check"
	StepRender      = "render"
	StepDeliver     = "deliver"
)

const (
	// totalSteps is the display count for Step N/M progress lines
	totalSteps = 7
	// minTopicLen filters out digest links whose title is too short to
	// be a researchable topic
	minTopicLen = 10
	// synthesisAttempts bounds LLM retries per topic
	synthesisAttempts = 3
)

// synthesisBackoff is the base delay between synthesis retries; a
// variable so tests can shrink it
var synthesisBackoff = 2 * time.Second

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	GeminiAPIKey    string
	SearchAPIKey    string
	SearchEngineID  string
	CredentialsFile string
	TokenFile       string
	Recipient       string
	DigestQuery     string
	MaxTopics       int
	UseBrowser      bool
	Verbose         bool
	OutputPath      string // when set, write the newsletter HTML here instead of sending
	OnProgress      ProgressCallback
}

// TopicResult pairs a rendered section with its fact-check report.
type TopicResult struct {
	Topic     string
	Section   render.TopicSection
	FactCheck *types.FactCheckReport
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			RunID:   runID,
			Content: content,
		})
	}
}

// RunPipeline orchestrates the full digest-to-newsletter pipeline.
func RunPipeline(ctx context.Context, opts RunOptions) error {
	runID := uuid.New().String()
	printer := observability.NewPrinter(os.Stdout)

	if opts.DigestQuery == "" {
		opts.DigestQuery = config.DefaultDigestQuery
	}
	if opts.MaxTopics <= 0 {
		opts.MaxTopics = config.DefaultMaxTopics
	}

	// Step 1: Gmail authentication
	fmt.Printf("Step 1/%d: Authenticating with Gmail...\n", totalSteps)
	mailClient, err := mail.NewClient(ctx, opts.CredentialsFile, opts.TokenFile)
	if err != nil {
		return fmt.Errorf("gmail authentication failed: %w", err)
	}

	// Step 2: Locate today's digest email
	fmt.Printf("Step 2/%d: Searching for the latest digest email...\n", totalSteps)
	digestHTML, err := fetchDigest(mailClient, opts.DigestQuery)
	if err != nil {
		return fmt.Errorf("fetching digest failed: %w", err)
	}
	emitProgress(&opts, runID, StepFetchDigest, "Fetched digest email", nil)

	// Step 3: Parse topics out of the digest
	fmt.Printf("Step 3/%d: Parsing digest topics...\n", totalSteps)
	articles, err := digest.Parse(digestHTML)
	if err != nil {
		return fmt.Errorf("parsing digest failed: %w", err)
	}
	topics := selectTopics(articles, opts.MaxTopics)
	if len(topics) == 0 {
		return fmt.Errorf("no researchable topics found in digest")
	}
	if opts.Verbose {
		printer.PrintDigestTopics(topics)
	}
	emitProgress(&opts, runID, StepParseDigest,
		fmt.Sprintf("Selected %d of %d digest topics", len(topics), len(articles)), topics)

	// LLM client shared across all topics
	llmClient, err := llm.NewClient(ctx, nil, opts.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer llmClient.Close()

	// Search client: optional, both research and fact-checking degrade
	// gracefully without it
	searchClient, err := search.NewClient(ctx, opts.SearchAPIKey, opts.SearchEngineID)
	if err != nil {
		fmt.Printf("Warning: search unavailable (%v). Research falls back to digest links and fact-checking is disabled.\n", err)
		searchClient = nil
	}
	checker := factcheck.NewChecker(searchClient)

	// Steps 4-5: research, synthesize, and verify each topic
	fmt.Printf("Step 4/%d: Researching and synthesizing topics...\n", totalSteps)
	var results []TopicResult
	for i, article := range topics {
		topic := digest.CleanTopic(article.Title)
		fmt.Printf("  [%d/%d] %s\n", i+1, len(topics), topic)

		result, err := processTopic(ctx, llmClient, searchClient, checker, topic, article, opts, printer)
		if err != nil {
			fmt.Printf("  Warning: skipping topic %q: %v\n", topic, err)
			continue
		}
		results = append(results, result)
		emitProgress(&opts, runID, StepFactCheck,
			fmt.Sprintf("Verified %q at %.0f%% confidence", topic, result.FactCheck.OverallConfidence*100), result.FactCheck)
	}
	if len(results) == 0 {
		return fmt.Errorf("all %d topics failed research or synthesis", len(topics))
	}
	fmt.Printf("Step 5/%d: Fact-checked %d topic(s)\n", totalSteps, len(results))

	// Step 6: render the newsletter
	fmt.Printf("Step 6/%d: Rendering newsletter...\n", totalSteps)
	sections := make([]render.TopicSection, 0, len(results))
	for _, r := range results {
		sections = append(sections, r.Section)
	}
	newsletterHTML, err := render.RenderNewsletter(time.Now(), sections)
	if err != nil {
		return fmt.Errorf("rendering newsletter failed: %w", err)
	}
	emitProgress(&opts, runID, StepRender,
		fmt.Sprintf("Rendered newsletter with %d topics", len(sections)), nil)

	// Step 7: deliver
	fmt.Printf("Step 7/%d: Delivering newsletter...\n", totalSteps)
	if opts.OutputPath != "" {
		if err := os.WriteFile(opts.OutputPath, []byte(newsletterHTML), 0644); err != nil {
			return fmt.Errorf("writing newsletter to %s failed: %w", opts.OutputPath, err)
		}
		fmt.Printf("Done! Newsletter written to %s\n", opts.OutputPath)
		emitProgress(&opts, runID, StepDeliver, "Wrote newsletter to "+opts.OutputPath, nil)
		return nil
	}

	recipient := opts.Recipient
	if recipient == "" {
		recipient, err = mailClient.ProfileEmail()
		if err != nil {
			return fmt.Errorf("no recipient configured and profile lookup failed: %w", err)
		}
	}

	subject := fmt.Sprintf("Your Daily Research Digest - %s", time.Now().Format("Jan 2, 2006"))
	if err := mailClient.Send(recipient, subject, newsletterHTML); err != nil {
		return fmt.Errorf("sending newsletter failed: %w", err)
	}

	fmt.Printf("Done! Newsletter sent to %s\n", recipient)
	emitProgress(&opts, runID, StepDeliver, "Sent newsletter to "+recipient, nil)
	return nil
}

// fetchDigest finds the newest message matching the digest query,
// scoped to today, and returns its HTML body. When today's digest has
// not arrived yet, the date scope is dropped and the newest match wins.
func fetchDigest(client *mail.Client, query string) (string, error) {
	scoped := fmt.Sprintf("%s after:%s", query, time.Now().Format("2006/01/02"))

	ids, err := client.SearchMessages(scoped, 1)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		ids, err = client.SearchMessages(query, 1)
		if err != nil {
			return "", err
		}
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("no digest email matched query %q", query)
	}

	return client.MessageHTML(ids[0])
}

// selectTopics filters digest articles down to researchable topics:
// cleaned titles long enough to mean something, deduplicated case
// insensitively, capped at limit.
func selectTopics(articles []digest.Article, limit int) []digest.Article {
	seen := make(map[string]bool)
	var selected []digest.Article

	for _, article := range articles {
		topic := digest.CleanTopic(article.Title)
		if len(topic) < minTopicLen {
			continue
		}
		key := strings.ToLower(topic)
		if seen[key] {
			continue
		}
		seen[key] = true

		selected = append(selected, article)
		if len(selected) >= limit {
			break
		}
	}
	return selected
}
