// Package types provides type definitions for structured data used throughout the newsletter-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ScrapedDocument is the extracted text of one research source page
type ScrapedDocument struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}
