// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// DefaultDigestQuery matches Medium's daily digest emails.
const DefaultDigestQuery = "from:noreply@medium.com subject:(Daily Digest)"

// DefaultMaxTopics bounds how many digest topics are researched per run.
const DefaultMaxTopics = 3

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags or environment variables.
type Config struct {
	// Credentials
	GeminiAPIKey   string `json:"gemini_api_key,omitempty"`   // Gemini API key
	SearchAPIKey   string `json:"search_api_key,omitempty"`   // Google Custom Search API key
	SearchEngineID string `json:"search_engine_id,omitempty"` // Programmable Search Engine ID (cx)

	// Gmail OAuth files
	CredentialsFile string `json:"credentials_file,omitempty"` // OAuth client secret JSON
	TokenFile       string `json:"token_file,omitempty"`       // Cached user token JSON

	// Delivery
	Recipient string `json:"recipient,omitempty" validate:"omitempty,email"` // Newsletter recipient; defaults to the Gmail account itself

	// Digest selection
	DigestQuery string `json:"digest_query,omitempty"` // Gmail search query for the source digest
	MaxTopics   int    `json:"max_topics,omitempty"`   // Maximum digest topics to research per run

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser fallback for JS-heavy sites
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config error: field %q failed %q validation", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.MaxTopics < 0 {
		return fmt.Errorf("config error: 'max_topics' must be non-negative")
	}

	if c.CredentialsFile != "" {
		if _, err := os.Stat(c.CredentialsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: credentials file not found: %s", c.CredentialsFile)
		}
	}

	return nil
}

// FromEnv fills empty credential fields from the environment. A .env
// file loaded at startup lands here as well.
func (c *Config) FromEnv() {
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.SearchAPIKey == "" {
		c.SearchAPIKey = os.Getenv("GOOGLE_SEARCH_API_KEY")
	}
	if c.SearchEngineID == "" {
		c.SearchEngineID = os.Getenv("SEARCH_ENGINE_ID")
	}
	if c.Recipient == "" {
		c.Recipient = os.Getenv("RECIPIENT_EMAIL")
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.SearchAPIKey == "" {
		result.SearchAPIKey = defaults.SearchAPIKey
	}
	if result.SearchEngineID == "" {
		result.SearchEngineID = defaults.SearchEngineID
	}
	if result.CredentialsFile == "" {
		result.CredentialsFile = defaults.CredentialsFile
	}
	if result.TokenFile == "" {
		result.TokenFile = defaults.TokenFile
	}
	if result.Recipient == "" {
		result.Recipient = defaults.Recipient
	}
	if result.DigestQuery == "" {
		if defaults.DigestQuery != "" {
			result.DigestQuery = defaults.DigestQuery
		} else {
			result.DigestQuery = DefaultDigestQuery
		}
	}

	// Int fields: use default if zero
	if result.MaxTopics == 0 {
		if defaults.MaxTopics > 0 {
			result.MaxTopics = defaults.MaxTopics
		} else {
			result.MaxTopics = DefaultMaxTopics
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
