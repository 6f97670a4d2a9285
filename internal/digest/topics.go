package digest

import (
	"regexp"
	"strings"
)

const (
	// maxTopicLen caps a cleaned topic title at a word boundary
	maxTopicLen = 80
	// maxKeywords bounds the search keyword count per topic
	maxKeywords = 4
	// minKeywordLen drops keywords too short to narrow a search
	minKeywordLen = 3
)

// runOnMarkers detect where a digest title bleeds into article prose,
// a common artifact of card text extraction.
var runOnMarkers = []*regexp.Regexp{
	regexp.MustCompile(`^(.+?)(?:Have you ever|Recently|Then I|Startup time|Here)`),
	regexp.MustCompile(`^(.+?)\s{2,}`),
}

var nonWord = regexp.MustCompile(`[^\w\s]`)

// stopWords are excluded from search keyword extraction
var stopWords = map[string]bool{
	"i": true, "the": true, "a": true, "an": true, "is": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "shall": true, "can": true, "need": true,
	"dare": true, "to": true, "of": true, "in": true, "for": true,
	"on": true, "with": true, "at": true, "by": true, "from": true,
	"up": true, "about": true, "into": true, "through": true, "during": true,
	"before": true, "after": true, "above": true, "below": true,
	"between": true, "under": true, "again": true, "further": true,
	"then": true, "once": true, "here": true, "there": true, "when": true,
	"where": true, "why": true, "how": true, "all": true, "each": true,
	"few": true, "more": true, "most": true, "other": true, "some": true,
	"such": true, "no": true, "nor": true, "not": true, "only": true,
	"own": true, "same": true, "so": true, "than": true, "too": true,
	"very": true, "just": true, "or": true, "and": true, "but": true,
	"if": true, "because": true, "as": true, "until": true, "while": true,
	"this": true, "that": true, "these": true, "those": true, "am": true,
	"are": true, "my": true, "your": true, "his": true, "her": true,
	"its": true, "our": true, "their": true, "what": true, "which": true,
	"who": true, "whom": true, "both": true, "you": true, "me": true,
	"him": true, "them": true, "we": true, "they": true, "it": true,
	"he": true, "she": true, "don": true, "dont": true, "didn": true,
	"doesn": true, "won": true, "wouldn": true, "couldn": true,
	"shouldn": true, "isn": true, "aren": true, "wasn": true, "weren": true,
	"haven": true, "hasn": true, "hadn": true, "ever": true, "never": true,
	"also": true, "even": true, "still": true, "already": true, "yet": true,
}

// CleanTopic trims a digest title for use as a research topic: run-on prose
// is cut at known markers and overlong titles are capped at a word boundary.
func CleanTopic(title string) string {
	for _, marker := range runOnMarkers {
		if match := marker.FindStringSubmatch(title); match != nil {
			return strings.TrimSpace(match[1])
		}
	}

	if len(title) > maxTopicLen {
		capped := title[:maxTopicLen]
		if idx := strings.LastIndex(capped, " "); idx > 0 {
			capped = capped[:idx]
		}
		return capped
	}

	return title
}

// SearchKeywords reduces a topic title to its significant terms for a web
// search query: punctuation stripped, stop words and short words removed,
// at most maxKeywords kept in order.
func SearchKeywords(title string) string {
	clean := nonWord.ReplaceAllString(strings.ToLower(title), " ")

	var keywords []string
	for _, word := range strings.Fields(clean) {
		if stopWords[word] || len(word) < minKeywordLen {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return strings.Join(keywords, " ")
}
