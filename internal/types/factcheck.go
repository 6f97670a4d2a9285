// Package types provides type definitions for structured data used throughout the newsletter-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// VerificationStatus classifies how well a claim is corroborated by search evidence
type VerificationStatus string

// Verification status values
const (
	// StatusVerified means confidence >= VerifiedThreshold
	StatusVerified VerificationStatus = "verified"
	// StatusPartiallyVerified means PartialThreshold <= confidence < VerifiedThreshold
	StatusPartiallyVerified VerificationStatus = "partially_verified"
	// StatusUnverified means confidence < PartialThreshold
	StatusUnverified VerificationStatus = "unverified"
	// StatusConflicting is reserved for contradicting evidence; not currently produced
	StatusConflicting VerificationStatus = "conflicting"
)

// Confidence thresholds that bind status to confidence
const (
	// VerifiedThreshold is the minimum confidence for StatusVerified
	VerifiedThreshold = 0.7
	// PartialThreshold is the minimum confidence for StatusPartiallyVerified
	PartialThreshold = 0.4
)

// MaxResultSources caps the sources attached to a single VerificationResult
const MaxResultSources = 3

// SourceCandidate is a single search result considered as evidence for a claim
type SourceCandidate struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Domain  string `json:"domain"`
}

// VerificationResult is the outcome of fact-checking a single claim.
// Build it with NewVerificationResult so the status/confidence invariant
// holds by construction; treat it as immutable afterwards.
type VerificationResult struct {
	Claim      string             `json:"claim"`
	Verified   bool               `json:"verified"`
	Confidence float64            `json:"confidence"`
	Sources    []SourceCandidate  `json:"sources"`
	Status     VerificationStatus `json:"status"`
}

// NewVerificationResult derives status and the verified flag from confidence.
// Confidence is clamped to [0,1] and sources are capped at MaxResultSources.
func NewVerificationResult(claim string, confidence float64, sources []SourceCandidate) VerificationResult {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	if len(sources) > MaxResultSources {
		sources = sources[:MaxResultSources]
	}

	status := StatusForConfidence(confidence)
	return VerificationResult{
		Claim:      claim,
		Verified:   status == StatusVerified || status == StatusPartiallyVerified,
		Confidence: confidence,
		Sources:    sources,
		Status:     status,
	}
}

// StatusForConfidence maps a confidence value onto its verification status
func StatusForConfidence(confidence float64) VerificationStatus {
	switch {
	case confidence >= VerifiedThreshold:
		return StatusVerified
	case confidence >= PartialThreshold:
		return StatusPartiallyVerified
	default:
		return StatusUnverified
	}
}

// FactCheckReport is the aggregated fact-check outcome for one topic summary.
// Created once per verification pass and never mutated afterwards.
type FactCheckReport struct {
	Topic               string               `json:"topic"`
	OverallConfidence   float64              `json:"overall_confidence"`
	VerificationResults []VerificationResult `json:"verification_results"`
	ReliableSources     []SourceCandidate    `json:"reliable_sources"`
	Warnings            []string             `json:"warnings"`
}
