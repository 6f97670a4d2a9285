package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/newsletter-agent/internal/digest"
	"github.com/jonathan/newsletter-agent/internal/observability"
)

var parseDigestCommand = &cobra.Command{
	Use:   "parse-digest <file>",
	Short: "Extract research topics from a saved digest email",
	Long:  `Parses a digest email HTML file, extracts story topics, and prints them. Useful for checking what the pipeline would research without touching Gmail.`,
	Args:  cobra.ExactArgs(1),
	RunE:  parseDigestCmd,
}

var parseDigestJSON bool

func init() {
	parseDigestCommand.Flags().BoolVar(&parseDigestJSON, "json", false, "Print articles as JSON")

	rootCmd.AddCommand(parseDigestCommand)
}

func parseDigestCmd(_ *cobra.Command, args []string) error {
	html, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	articles, err := digest.Parse(string(html))
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return fmt.Errorf("no story links found in %s", args[0])
	}

	if parseDigestJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(articles)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintDigestTopics(articles)

	for i, article := range articles {
		fmt.Printf("%d. %s\n", i+1, digest.CleanTopic(article.Title))
		fmt.Printf("   %s\n", article.URL)
		if keywords := digest.SearchKeywords(article.Title); keywords != "" {
			fmt.Printf("   keywords: %s\n", keywords)
		}
	}
	return nil
}
