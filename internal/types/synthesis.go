// Package types provides type definitions for structured data used throughout the newsletter-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Reference is a cited source in a synthesized report
type Reference struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SynthesisReport is the LLM-generated write-up for one topic
type SynthesisReport struct {
	Title      string      `json:"title"`
	Summary    string      `json:"summary"`
	References []Reference `json:"references"`
}
