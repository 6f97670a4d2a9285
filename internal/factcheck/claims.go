// Package factcheck verifies AI-generated summaries against web search evidence
// and scores how well each extracted claim is corroborated.
package factcheck

import (
	"regexp"
	"strings"
)

const (
	// MaxClaims caps the number of claims extracted from one summary
	MaxClaims = 5
	// minSentenceLen filters out fragments too short to carry a checkable claim
	minSentenceLen = 20
	// minLeadSentenceLen is the length floor for the leading-sentence fallback
	minLeadSentenceLen = 30
	// leadSentenceCount is how many leading sentences are always considered claims
	leadSentenceCount = 3
)

// sentenceSplit breaks text on terminal punctuation followed by whitespace
var sentenceSplit = regexp.MustCompile(`[.!?]\s+`)

// claimPatterns mark a sentence as a checkable factual claim:
// statistics, multipliers, time measurements, comparisons, strong modals,
// and quantified changes.
var claimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+%`),
	regexp.MustCompile(`(?i)\d+x\s`),
	regexp.MustCompile(`(?i)\d+\s*(ms|seconds?|minutes?|hours?)`),
	regexp.MustCompile(`(?i)(faster|slower|better|worse)\s+than`),
	regexp.MustCompile(`(?i)(always|never|must|should)\s`),
	regexp.MustCompile(`(?i)(increase|decrease|improve|reduce).*\d+`),
}

// ExtractClaims pulls up to MaxClaims candidate factual statements out of
// free text. Pattern-matched sentences come first in sentence order, then
// the leading sentences that anchor coverage when no pattern fires. The
// result is deduplicated case-insensitively. Empty or all-short input
// yields an empty slice, which callers treat as "nothing to verify".
func ExtractClaims(text string) []string {
	sentences := sentenceSplit.Split(text, -1)

	var claims []string
	seen := make(map[string]bool)
	add := func(sentence string) {
		key := strings.ToLower(sentence)
		if seen[key] {
			return
		}
		seen[key] = true
		claims = append(claims, sentence)
	}

	for _, sentence := range sentences {
		if len(sentence) < minSentenceLen {
			continue
		}
		for _, pattern := range claimPatterns {
			if pattern.MatchString(sentence) {
				add(strings.TrimSpace(sentence))
				break
			}
		}
	}

	// The leading sentences count as main claims regardless of pattern match,
	// so a summary with no statistics still gets verified.
	for i := 0; i < len(sentences) && i < leadSentenceCount; i++ {
		sentence := strings.TrimSpace(sentences[i])
		if len(sentence) > minLeadSentenceLen {
			add(sentence)
		}
	}

	if len(claims) > MaxClaims {
		claims = claims[:MaxClaims]
	}
	return claims
}
