// Package main provides the entry point for the newsletter agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "newsletter_agent",
	Short: "Daily research newsletter generator",
	Long:  "Newsletter Agent turns a reading digest email into a researched, fact-checked daily newsletter: it extracts topics, gathers and scrapes web sources, synthesizes reports with an LLM, scores their claims against search evidence, and delivers the result by email.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
