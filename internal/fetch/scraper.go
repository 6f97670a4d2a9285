// Package fetch - scraper.go is the best-effort content scraper used by the
// research pipeline.
package fetch

import (
	"context"
	"fmt"
)

// Scrape fetches a URL and returns its extracted main text. When the plain
// HTTP fetch yields too little text and useBrowser is set, the page is
// re-rendered in a headless browser. A failure to retrieve any usable text
// is an error; callers skip the page and move on.
func Scrape(ctx context.Context, url string, useBrowser, verbose bool) (string, error) {
	var html string

	result, err := URL(ctx, url, nil)
	if err == nil {
		html = result.HTML
	} else if !useBrowser {
		return "", err
	}

	if html != "" {
		text, extractErr := ExtractMainText(html, ArticleSelectors())
		if extractErr == nil && !ShouldUseBrowser(text) {
			return text, nil
		}
		if extractErr == nil && !useBrowser {
			// Short content, but no browser available; return what we have
			if text == "" {
				return "", fmt.Errorf("no text content extracted from %s", url)
			}
			return text, nil
		}
	}

	if !useBrowser {
		return "", fmt.Errorf("no text content extracted from %s", url)
	}

	html, err = WithBrowser(ctx, url, DefaultBrowserTimeout, verbose)
	if err != nil {
		return "", err
	}

	text, err := ExtractMainText(html, ArticleSelectors())
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("no text content extracted from %s", url)
	}
	return text, nil
}
