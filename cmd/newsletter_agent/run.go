package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/newsletter-agent/internal/config"
	"github.com/jonathan/newsletter-agent/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full newsletter pipeline end-to-end",
	Long: `Orchestrates the entire newsletter generation process: digest lookup -> topic extraction -> web research -> scraping -> synthesis -> fact-checking -> rendering -> delivery.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath  string
	runGeminiKey   string
	runSearchKey   string
	runSearchCX    string
	runCredentials string
	runToken       string
	runRecipient   string
	runDigestQuery string
	runMaxTopics   int
	runUseBrowser  bool
	runVerbose     bool
	runOutputPath  string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVar(&runCredentials, "credentials", "", "Path to Gmail OAuth client secret JSON")
	runCommand.Flags().StringVar(&runToken, "token", "", "Path to cached Gmail OAuth token JSON")
	runCommand.Flags().StringVarP(&runRecipient, "recipient", "r", "", "Newsletter recipient email (defaults to the Gmail account itself)")
	runCommand.Flags().StringVarP(&runDigestQuery, "digest-query", "q", "", "Gmail search query for the source digest email")
	runCommand.Flags().IntVar(&runMaxTopics, "max-topics", 0, "Maximum digest topics to research per run")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser fallback for JS-heavy sites (requires Chrome)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")
	runCommand.Flags().StringVarP(&runOutputPath, "out", "o", "", "Write the newsletter HTML to this file instead of sending it")

	// API keys can be passed as flags, or read from env vars
	runCommand.Flags().StringVar(&runGeminiKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	runCommand.Flags().StringVar(&runSearchKey, "search-key", "", "Google Custom Search API key (optional, defaults to GOOGLE_SEARCH_API_KEY env var)")
	runCommand.Flags().StringVar(&runSearchCX, "search-cx", "", "Programmable Search Engine ID (optional, defaults to SEARCH_ENGINE_ID env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Validate loaded config
		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("api-key") {
		cfg.GeminiAPIKey = runGeminiKey
	}
	if cmd.Flags().Changed("search-key") {
		cfg.SearchAPIKey = runSearchKey
	}
	if cmd.Flags().Changed("search-cx") {
		cfg.SearchEngineID = runSearchCX
	}
	if cmd.Flags().Changed("credentials") {
		cfg.CredentialsFile = runCredentials
	}
	if cmd.Flags().Changed("token") {
		cfg.TokenFile = runToken
	}
	if cmd.Flags().Changed("recipient") {
		cfg.Recipient = runRecipient
	}
	if cmd.Flags().Changed("digest-query") {
		cfg.DigestQuery = runDigestQuery
	}
	if cmd.Flags().Changed("max-topics") {
		cfg.MaxTopics = runMaxTopics
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	// Step 3: Fill credentials from environment, then apply defaults
	cfg.FromEnv()
	cfg = cfg.MergeWithDefaults(config.Config{})

	// Step 4: Validate required fields
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := pipeline.RunOptions{
		GeminiAPIKey:    cfg.GeminiAPIKey,
		SearchAPIKey:    cfg.SearchAPIKey,
		SearchEngineID:  cfg.SearchEngineID,
		CredentialsFile: cfg.CredentialsFile,
		TokenFile:       cfg.TokenFile,
		Recipient:       cfg.Recipient,
		DigestQuery:     cfg.DigestQuery,
		MaxTopics:       cfg.MaxTopics,
		UseBrowser:      cfg.UseBrowser,
		Verbose:         cfg.Verbose,
		OutputPath:      runOutputPath,
	}

	return pipeline.RunPipeline(ctx, opts)
}
