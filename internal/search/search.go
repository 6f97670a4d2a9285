// Package search provides the Google Custom Search client used for topic
// research and fact-check evidence gathering.
package search

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/newsletter-agent/internal/factcheck"
	"github.com/jonathan/newsletter-agent/internal/types"
)

const (
	// MaxResults is the Custom Search API per-request result ceiling
	MaxResults = 10
	// requestTimeout bounds a single outbound search call
	requestTimeout = 10 * time.Second
)

// Client wraps the Google Custom Search API. It satisfies
// factcheck.Searcher: transport, auth, and quota errors are absorbed and
// surface as an empty result slice.
type Client struct {
	svc *customsearch.Service
	cx  string
}

// NewClient creates a search client from an API key and a programmable
// search engine ID (cx). Both are required.
func NewClient(ctx context.Context, apiKey, cx string) (*Client, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("search API key and cx are required")
	}

	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}

	return &Client{svc: svc, cx: cx}, nil
}

// IsConfigured reports whether the client can issue requests
func (c *Client) IsConfigured() bool {
	return c != nil && c.svc != nil && c.cx != ""
}

// Search returns up to numResults candidates for the query, each annotated
// with its extracted domain. It fails soft: any request error is logged and
// an empty slice is returned.
func (c *Client) Search(ctx context.Context, query string, numResults int) []types.SourceCandidate {
	if !c.IsConfigured() {
		log.Printf("search: client not configured, skipping query %q", query)
		return nil
	}
	if numResults > MaxResults {
		numResults = MaxResults
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.svc.Cse.List().
		Cx(c.cx).
		Q(query).
		Num(int64(numResults)).
		Context(ctx).
		Do()
	if err != nil {
		log.Printf("search: query failed: %v", err)
		return nil
	}

	candidates := make([]types.SourceCandidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		candidates = append(candidates, types.SourceCandidate{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Domain:  factcheck.ExtractDomain(item.Link),
		})
	}
	return candidates
}
