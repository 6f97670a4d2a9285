package factcheck

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/newsletter-agent/internal/types"
)

// stubSearcher is a deterministic, thread-safe Searcher for tests. It
// records every query and answers via the respond callback.
type stubSearcher struct {
	mu         sync.Mutex
	configured bool
	queries    []string
	respond    func(query string) []types.SourceCandidate
}

func (s *stubSearcher) IsConfigured() bool { return s.configured }

func (s *stubSearcher) Search(_ context.Context, query string, _ int) []types.SourceCandidate {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()

	if s.respond == nil {
		return nil
	}
	return s.respond(query)
}

func (s *stubSearcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func TestVerifyContent_NotConfigured(t *testing.T) {
	searcher := &stubSearcher{configured: false}
	checker := NewChecker(searcher)

	report := checker.VerifyContent(context.Background(), "Kubernetes",
		"Kubernetes pods restart automatically and recover 99% of transient failures.")

	assert.Equal(t, 0.0, report.OverallConfidence)
	assert.Equal(t, []string{"Search API not configured. Fact-checking disabled."}, report.Warnings)
	assert.Empty(t, report.VerificationResults)
	assert.Zero(t, searcher.callCount(), "disabled checker must not issue search calls")
}

func TestVerifyContent_NilSearcher(t *testing.T) {
	checker := NewChecker(nil)

	report := checker.VerifyContent(context.Background(), "topic", "Some summary with a 50% claim in it.")
	assert.Equal(t, 0.0, report.OverallConfidence)
	require.Len(t, report.Warnings, 1)
}

func TestVerifyContent_NoClaims(t *testing.T) {
	searcher := &stubSearcher{configured: true}
	checker := NewChecker(searcher)

	report := checker.VerifyContent(context.Background(), "topic", "Short. Tiny. Nope.")

	assert.Equal(t, 0.5, report.OverallConfidence)
	assert.Equal(t, []string{"No specific claims found to verify."}, report.Warnings)
	assert.Zero(t, searcher.callCount())
}

func TestVerifyContent_SearchReturnsNothing(t *testing.T) {
	searcher := &stubSearcher{configured: true}
	checker := NewChecker(searcher)

	report := checker.VerifyContent(context.Background(), "topic",
		"The optimization made startup 3x faster for every workload tested so far.")

	require.NotEmpty(t, report.VerificationResults)
	for _, result := range report.VerificationResults {
		assert.Equal(t, types.StatusUnverified, result.Status)
		assert.Equal(t, 0.0, result.Confidence)
	}
	assert.Equal(t, 0.0, report.OverallConfidence)
	assert.Contains(t, report.Warnings, fmt.Sprintf("%d claim(s) could not be verified.", len(report.VerificationResults)))
	assert.Contains(t, report.Warnings, "Overall confidence is low. Manual review recommended.")
}

func TestVerifyContent_OfficialSourcesVerify(t *testing.T) {
	summary := "Kubernetes liveness probes should always be configured for long running services. " +
		"Rolling updates reduce deployment downtime by 90% in typical clusters."

	searcher := &stubSearcher{
		configured: true,
		respond: func(query string) []types.SourceCandidate {
			// Snippets echo the query so lexical overlap is high.
			return []types.SourceCandidate{
				{
					Title:   "Configure Liveness, Readiness and Startup Probes",
					URL:     "https://kubernetes.io/docs/tasks/configure-pod-container/",
					Snippet: query,
					Domain:  "kubernetes.io",
				},
				{
					Title:   "Performing a Rolling Update",
					URL:     "https://kubernetes.io/docs/tutorials/kubernetes-basics/update/",
					Snippet: query,
					Domain:  "kubernetes.io",
				},
			}
		},
	}
	checker := NewChecker(searcher)

	report := checker.VerifyContent(context.Background(), "Kubernetes", summary)

	require.NotEmpty(t, report.VerificationResults)
	for _, result := range report.VerificationResults {
		assert.Equal(t, types.StatusVerified, result.Status)
		assert.True(t, result.Verified)
		assert.InDelta(t, 1.0, result.Confidence, 1e-9)
	}
	assert.InDelta(t, 1.0, report.OverallConfidence, 1e-9)
	assert.Empty(t, report.Warnings)

	require.NotEmpty(t, report.ReliableSources)
	for _, source := range report.ReliableSources {
		assert.Equal(t, "kubernetes.io", source.Domain)
	}
}

func TestVerifyContent_ResultsKeepClaimOrder(t *testing.T) {
	summary := "Alpha benchmark improved throughput by 11% under load. " +
		"Beta benchmark improved throughput by 22% under load. " +
		"Gamma benchmark improved throughput by 33% under load. " +
		"Delta benchmark improved throughput by 44% under load."

	searcher := &stubSearcher{configured: true}
	checker := NewChecker(searcher)

	report := checker.VerifyContent(context.Background(), "benchmarks", summary)

	require.Len(t, report.VerificationResults, 4)
	assert.Contains(t, report.VerificationResults[0].Claim, "Alpha")
	assert.Contains(t, report.VerificationResults[1].Claim, "Beta")
	assert.Contains(t, report.VerificationResults[2].Claim, "Gamma")
	assert.Contains(t, report.VerificationResults[3].Claim, "Delta")
}

func TestVerifyClaim_MixedTrustScoring(t *testing.T) {
	claim := "etcd stores cluster state for every control plane"
	searcher := &stubSearcher{
		configured: true,
		respond: func(string) []types.SourceCandidate {
			return []types.SourceCandidate{
				// Official and relevant: trust 1.0
				{URL: "https://kubernetes.io/docs/concepts/overview/components/", Snippet: claim, Domain: "kubernetes.io"},
				// Unknown and irrelevant: trust 0.5, no overlap
				{URL: "https://someblog.example.com/post", Snippet: "unrelated words entirely", Domain: "someblog.example.com"},
			}
		},
	}
	checker := NewChecker(searcher)

	result := checker.VerifyClaim(context.Background(), claim, "Kubernetes")

	// avg trust (1.0+0.5)/2 = 0.75, one relevant source adds 0.1.
	assert.InDelta(t, 0.85, result.Confidence, 1e-9)
	assert.Equal(t, types.StatusVerified, result.Status)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "kubernetes.io", result.Sources[0].Domain)
}

func TestVerifyClaim_HighTrustCountsAsRelevantWithoutOverlap(t *testing.T) {
	searcher := &stubSearcher{
		configured: true,
		respond: func(string) []types.SourceCandidate {
			return []types.SourceCandidate{
				{URL: "https://stackoverflow.com/q/1", Snippet: "completely different words", Domain: "stackoverflow.com"},
			}
		},
	}
	checker := NewChecker(searcher)

	result := checker.VerifyClaim(context.Background(), "the scheduler must respect taints", "Kubernetes")

	// Trust 0.8 passes the relevance trust floor despite zero overlap:
	// 0.8 avg + 0.1 bonus.
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	require.Len(t, result.Sources, 1)
}

func TestVerifyClaim_TruncatesLongClaimInQuery(t *testing.T) {
	searcher := &stubSearcher{configured: true}
	checker := NewChecker(searcher)

	longClaim := strings.Repeat("benchmark ", 30) // 300 chars
	checker.VerifyClaim(context.Background(), longClaim, "topic")

	require.Len(t, searcher.queries, 1)
	// "topic " prefix plus at most 100 runes of claim.
	assert.LessOrEqual(t, len([]rune(searcher.queries[0])), len("topic ")+100)
	assert.True(t, strings.HasPrefix(searcher.queries[0], "topic "))
}

func TestReliableSources_DedupByURLFirstOccurrenceWins(t *testing.T) {
	lowTrustFirst := types.NewVerificationResult("claim a", 0.5, []types.SourceCandidate{
		{URL: "https://example.com/shared", Domain: "example.com"},
	})
	highTrustSecond := types.NewVerificationResult("claim b", 0.9, []types.SourceCandidate{
		// Same URL annotated with a trusted domain: the earlier low-trust
		// occurrence already consumed it.
		{URL: "https://example.com/shared", Domain: "kubernetes.io"},
		{URL: "https://kubernetes.io/docs/", Domain: "kubernetes.io"},
	})

	reliable := reliableSources([]types.VerificationResult{lowTrustFirst, highTrustSecond})

	require.Len(t, reliable, 1)
	assert.Equal(t, "https://kubernetes.io/docs/", reliable[0].URL)
}

func TestReliableSources_CapAtFive(t *testing.T) {
	var results []types.VerificationResult
	for i := 0; i < 8; i++ {
		results = append(results, types.NewVerificationResult(fmt.Sprintf("claim %d", i), 0.9, []types.SourceCandidate{
			{URL: fmt.Sprintf("https://kubernetes.io/docs/%d", i), Domain: "kubernetes.io"},
		}))
	}

	reliable := reliableSources(results)
	assert.Len(t, reliable, maxReliableSources)
}
