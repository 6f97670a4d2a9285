package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/newsletter-agent/internal/factcheck"
	"github.com/jonathan/newsletter-agent/internal/search"
)

var verifyCommand = &cobra.Command{
	Use:   "verify [file]",
	Short: "Fact-check a piece of content against web search evidence",
	Long: `Extracts factual claims from the given text (a file argument, or stdin when omitted), verifies each claim against Google Custom Search results, and prints a confidence report.

Requires GOOGLE_SEARCH_API_KEY and SEARCH_ENGINE_ID (or the corresponding flags).`,
	Args: cobra.MaximumNArgs(1),
	RunE: verifyCmd,
}

var (
	verifyTopic     string
	verifySearchKey string
	verifySearchCX  string
	verifyAsHTML    bool
)

func init() {
	verifyCommand.Flags().StringVarP(&verifyTopic, "topic", "t", "", "Topic the content is about (required)")
	verifyCommand.Flags().StringVar(&verifySearchKey, "search-key", "", "Google Custom Search API key (optional, defaults to GOOGLE_SEARCH_API_KEY env var)")
	verifyCommand.Flags().StringVar(&verifySearchCX, "search-cx", "", "Programmable Search Engine ID (optional, defaults to SEARCH_ENGINE_ID env var)")
	verifyCommand.Flags().BoolVar(&verifyAsHTML, "html", false, "Print the report as an HTML fragment instead of text")

	_ = verifyCommand.MarkFlagRequired("topic")

	rootCmd.AddCommand(verifyCommand)
}

func verifyCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	content, err := readVerifyInput(args)
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return fmt.Errorf("no content to verify")
	}

	searchKey := verifySearchKey
	if searchKey == "" {
		searchKey = os.Getenv("GOOGLE_SEARCH_API_KEY")
	}
	searchCX := verifySearchCX
	if searchCX == "" {
		searchCX = os.Getenv("SEARCH_ENGINE_ID")
	}

	searchClient, err := search.NewClient(ctx, searchKey, searchCX)
	if err != nil {
		return fmt.Errorf("search client unavailable: %w", err)
	}

	checker := factcheck.NewChecker(searchClient)
	report := checker.VerifyContent(ctx, verifyTopic, string(content))

	if verifyAsHTML {
		fmt.Println(factcheck.FormatReportHTML(report))
	} else {
		fmt.Println(factcheck.FormatReportText(report))
	}
	return nil
}

// readVerifyInput reads the content to verify from the file argument,
// or from stdin when no argument is given.
func readVerifyInput(args []string) ([]byte, error) {
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return content, nil
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return content, nil
}
