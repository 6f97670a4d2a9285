package factcheck

import (
	"net/url"
	"strings"
)

// TrustTier is a coarse reliability classification for a web domain
type TrustTier string

// Trust tiers in decreasing order of reliability
const (
	TierOfficial    TrustTier = "official"
	TierEducational TrustTier = "educational"
	TierNews        TrustTier = "news"
	TierUnknown     TrustTier = "unknown"
)

// UnknownTrustScore is assigned to domains outside the curated lists
const UnknownTrustScore = 0.5

// trustTiers is the static knowledge base mapping domain substrings to a
// trust score. Lookup scans tiers in declaration order and returns on the
// first containment match, so the curated lists are kept mutually exclusive
// by curation rather than checked at runtime. Initialized once, never
// mutated, safe to share across goroutines.
var trustTiers = []struct {
	Tier    TrustTier
	Score   float64
	Domains []string
}{
	{
		Tier:  TierOfficial,
		Score: 1.0,
		Domains: []string{
			"docs.python.org", "docs.oracle.com", "developer.mozilla.org",
			"learn.microsoft.com", "cloud.google.com", "aws.amazon.com",
			"kubernetes.io", "docker.com", "spring.io", "redis.io",
			"kafka.apache.org", "postgresql.org", "github.com",
		},
	},
	{
		Tier:  TierEducational,
		Score: 0.8,
		Domains: []string{
			"geeksforgeeks.org", "baeldung.com", "tutorialspoint.com",
			"w3schools.com", "freecodecamp.org", "stackoverflow.com",
		},
	},
	{
		Tier:  TierNews,
		Score: 0.7,
		Domains: []string{
			"techcrunch.com", "wired.com", "arstechnica.com",
			"theverge.com", "zdnet.com", "infoworld.com",
		},
	},
}

// TrustScore returns the reliability score for a domain: 1.0 official,
// 0.8 educational, 0.7 news, UnknownTrustScore otherwise. The empty domain
// (e.g. from a malformed URL) scores as unknown.
func TrustScore(domain string) float64 {
	for _, tier := range trustTiers {
		for _, trusted := range tier.Domains {
			if strings.Contains(domain, trusted) {
				return tier.Score
			}
		}
	}
	return UnknownTrustScore
}

// TierFor returns the trust tier a domain falls into
func TierFor(domain string) TrustTier {
	for _, tier := range trustTiers {
		for _, trusted := range tier.Domains {
			if strings.Contains(domain, trusted) {
				return tier.Tier
			}
		}
	}
	return TierUnknown
}

// ExtractDomain returns the host of a URL with a leading "www." stripped.
// Malformed URLs fail soft to the empty string, which trust-scores as
// unknown.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
