// Package digest extracts story topics from digest emails. The digest HTML
// is table-soup mail markup, so extraction is heuristic: story links are
// identified by host, system links are filtered out, and snippets are
// recovered best-effort from the enclosing card element.
package digest

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// minTitleLen filters out link texts too short to be story titles
	minTitleLen = 10
	// maxSnippetLen truncates recovered card snippets
	maxSnippetLen = 300
	// cardSearchDepth is how many ancestor levels are scanned for a snippet
	cardSearchDepth = 3
)

// systemLinkWords mark non-story links (footer, account management)
var systemLinkWords = []string{
	"unsubscribe", "subscribe", "help", "status", "manage", "upgrade", "open in app",
}

// Article is one story extracted from a digest email
type Article struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Parse extracts story articles from digest email HTML. Results are
// deduplicated by URL in document order.
func Parse(html string) ([]Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse digest HTML: %w", err)
	}

	var articles []Article
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		url, _ := link.Attr("href")
		title := strings.TrimSpace(link.Text())

		if !isStoryURL(url) || isSystemLink(title) || len(title) < minTitleLen {
			return
		}
		if seen[url] {
			return
		}
		seen[url] = true

		articles = append(articles, Article{
			Title:   title,
			URL:     url,
			Snippet: findSnippet(link, title),
		})
	})

	return articles, nil
}

// isStoryURL keeps only links into the digest's story host
func isStoryURL(url string) bool {
	return strings.Contains(url, "medium.com") || strings.Contains(url, "link.medium.com")
}

// isSystemLink filters footer and account-management links by text
func isSystemLink(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range systemLinkWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// findSnippet walks up the DOM looking for the story card: the nearest
// table-cell or div ancestor whose text is substantially longer than the
// title. The title is removed from the card text and the remainder is
// truncated to maxSnippetLen.
func findSnippet(link *goquery.Selection, title string) string {
	card := link.Parent()
	for i := 0; i < cardSearchDepth && card.Length() > 0; i++ {
		name := goquery.NodeName(card)
		if name == "td" || name == "div" || name == "tr" {
			fullText := collapseWhitespace(card.Text())
			if len(fullText) > len(title)+20 {
				snippet := strings.TrimSpace(strings.Replace(fullText, title, "", 1))
				if len(snippet) > maxSnippetLen {
					snippet = snippet[:maxSnippetLen] + "..."
				}
				return snippet
			}
		}
		card = card.Parent()
	}
	return ""
}

// collapseWhitespace flattens runs of whitespace into single spaces
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
