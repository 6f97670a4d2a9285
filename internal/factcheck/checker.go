package factcheck

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/newsletter-agent/internal/types"
)

// Searcher is the outbound search dependency of the fact-check engine.
// Implementations must fail soft: any transport, auth, or quota error
// surfaces as an empty result slice, never as a panic or error.
type Searcher interface {
	// IsConfigured reports whether the backing API has credentials
	IsConfigured() bool
	// Search returns up to numResults candidates for the query, each
	// annotated with its extracted domain
	Search(ctx context.Context, query string, numResults int) []types.SourceCandidate
}

const (
	// claimQueryLimit truncates a claim before it is folded into a search
	// query, bounding query length regardless of claim length
	claimQueryLimit = 100
	// candidatesPerClaim is how many search results each claim is checked against
	candidatesPerClaim = 5
	// relevanceOverlapFloor marks a candidate relevant on lexical overlap
	relevanceOverlapFloor = 0.2
	// relevanceTrustFloor marks a candidate relevant on domain trust alone
	relevanceTrustFloor = 0.8
	// sourceBonusStep and sourceBonusCap reward corroboration breadth without
	// letting volume alone dominate trust
	sourceBonusStep = 0.1
	sourceBonusCap  = 0.3
	// reliableTrustFloor admits a source into the report's reliable list
	reliableTrustFloor = 0.7
	// maxReliableSources caps the report's deduplicated reliable source list
	maxReliableSources = 5
	// neutralConfidence is the deliberate default when there is nothing to
	// verify; distinct from 0.0, which means verification failed outright
	neutralConfidence = 0.5
	// defaultVerifyWorkers bounds concurrent claim verifications
	defaultVerifyWorkers = 4
)

// Warning strings surfaced in FactCheckReport.Warnings
const (
	warnNotConfigured = "Search API not configured. Fact-checking disabled."
	warnNoClaims      = "No specific claims found to verify."
	warnLowConfidence = "Overall confidence is low. Manual review recommended."
)

// Checker fuses domain trust and textual overlap into per-claim confidence
// scores and aggregates them into a FactCheckReport. It never returns an
// error: configuration and transport failures degrade into report fields
// the caller can inspect.
type Checker struct {
	searcher Searcher
	workers  int
}

// NewChecker creates a Checker backed by the given searcher. A nil searcher
// yields a permanently unconfigured checker.
func NewChecker(searcher Searcher) *Checker {
	return &Checker{searcher: searcher, workers: defaultVerifyWorkers}
}

// IsConfigured reports whether fact-checking can issue search calls
func (c *Checker) IsConfigured() bool {
	return c.searcher != nil && c.searcher.IsConfigured()
}

// VerifyClaim checks a single claim against search evidence. Search failure
// for this claim degrades to unverified/0.0; it never aborts the batch and
// is never retried here.
func (c *Checker) VerifyClaim(ctx context.Context, claim, topic string) types.VerificationResult {
	query := fmt.Sprintf("%s %s", topic, truncateRunes(claim, claimQueryLimit))

	candidates := c.searcher.Search(ctx, query, candidatesPerClaim)
	if len(candidates) == 0 {
		return types.NewVerificationResult(claim, 0, nil)
	}

	claimWords := tokenize(claim)

	var trustSum float64
	var relevant []types.SourceCandidate
	for _, candidate := range candidates {
		domainScore := TrustScore(candidate.Domain)
		trustSum += domainScore

		overlap := overlapRatio(claimWords, tokenize(candidate.Snippet))
		if overlap > relevanceOverlapFloor || domainScore >= relevanceTrustFloor {
			relevant = append(relevant, candidate)
		}
	}

	// Average trust sets the baseline; a capped bonus rewards corroboration breadth.
	avgTrust := trustSum / float64(len(candidates))
	bonus := math.Min(float64(len(relevant))*sourceBonusStep, sourceBonusCap)
	confidence := math.Min(avgTrust+bonus, 1.0)

	return types.NewVerificationResult(claim, confidence, relevant)
}

// VerifyContent fact-checks a full topic summary: extracts claims, verifies
// them concurrently, and folds the results into a single report. Results
// keep extraction order regardless of completion order.
func (c *Checker) VerifyContent(ctx context.Context, topic, summary string) types.FactCheckReport {
	if !c.IsConfigured() {
		return types.FactCheckReport{
			Topic:    topic,
			Warnings: []string{warnNotConfigured},
		}
	}

	claims := ExtractClaims(summary)
	if len(claims) == 0 {
		return types.FactCheckReport{
			Topic:             topic,
			OverallConfidence: neutralConfidence,
			Warnings:          []string{warnNoClaims},
		}
	}

	results := make([]types.VerificationResult, len(claims))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, claim := range claims {
		g.Go(func() error {
			results[i] = c.VerifyClaim(gctx, claim, topic)
			return nil
		})
	}
	// Verification never fails; per-claim search errors already degraded to
	// unverified results.
	_ = g.Wait()

	var confidenceSum float64
	unverified := 0
	for _, result := range results {
		confidenceSum += result.Confidence
		if result.Status == types.StatusUnverified {
			unverified++
		}
	}

	overall := neutralConfidence
	if len(results) > 0 {
		overall = confidenceSum / float64(len(results))
	}

	var warnings []string
	if unverified > 0 {
		warnings = append(warnings, fmt.Sprintf("%d claim(s) could not be verified.", unverified))
	}
	if overall < neutralConfidence {
		warnings = append(warnings, warnLowConfidence)
	}

	return types.FactCheckReport{
		Topic:               topic,
		OverallConfidence:   overall,
		VerificationResults: results,
		ReliableSources:     reliableSources(results),
		Warnings:            warnings,
	}
}

// reliableSources deduplicates the union of result sources by URL (first
// occurrence wins, even when the first occurrence is low-trust) and keeps
// only high-trust entries, capped at maxReliableSources.
func reliableSources(results []types.VerificationResult) []types.SourceCandidate {
	seen := make(map[string]bool)
	var reliable []types.SourceCandidate
	for _, result := range results {
		for _, source := range result.Sources {
			if seen[source.URL] {
				continue
			}
			seen[source.URL] = true
			if TrustScore(source.Domain) >= reliableTrustFloor {
				reliable = append(reliable, source)
			}
		}
	}
	if len(reliable) > maxReliableSources {
		reliable = reliable[:maxReliableSources]
	}
	return reliable
}

// tokenize lower-cases and splits on whitespace
func tokenize(text string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		words[word] = true
	}
	return words
}

// overlapRatio is |claim ∩ snippet| / max(|claim|, 1)
func overlapRatio(claimWords, snippetWords map[string]bool) float64 {
	shared := 0
	for word := range claimWords {
		if snippetWords[word] {
			shared++
		}
	}
	denom := len(claimWords)
	if denom < 1 {
		denom = 1
	}
	return float64(shared) / float64(denom)
}

// truncateRunes cuts a string to at most n runes
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
