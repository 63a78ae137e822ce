// Package config loads runtime settings from the environment. Settings flow
// one way: nothing in here is ever written back to disk.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries all runtime settings.
type Config struct {
	// CredentialsFile is the OAuth client secret downloaded from the Google
	// Cloud console. It is read once and never modified.
	CredentialsFile string
	LogFile         string

	// LLM settings.
	Model       string
	MaxTokens   int
	Temperature float64

	// Default fetch window used when the working set is loaded implicitly.
	RecentDays      int
	MaxFetchResults int64
}

const (
	defaultCredentialsFile = "credentials.json"
	defaultLogFile         = "gmailwithllm.log"
	defaultModel           = "gpt-4"
	defaultMaxTokens       = 2000
	defaultTemperature     = 0.7
	defaultRecentDays      = 30
	defaultMaxFetch        = 100
)

// LoadConfig builds a Config from defaults overridden by environment
// variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		CredentialsFile: defaultCredentialsFile,
		LogFile:         defaultLogFile,
		Model:           defaultModel,
		MaxTokens:       defaultMaxTokens,
		Temperature:     defaultTemperature,
		RecentDays:      defaultRecentDays,
		MaxFetchResults: defaultMaxFetch,
	}

	if v := os.Getenv("GMAILLLM_CREDENTIALS"); v != "" {
		cfg.CredentialsFile = v
	}
	if v := os.Getenv("GMAILLLM_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("GMAILLLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("GMAILLLM_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GMAILLLM_MAX_TOKENS: %w", err)
		}
		cfg.MaxTokens = n
	}
	if v := os.Getenv("GMAILLLM_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid GMAILLLM_TEMPERATURE: %w", err)
		}
		cfg.Temperature = t
	}
	if v := os.Getenv("GMAILLLM_RECENT_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GMAILLLM_RECENT_DAYS: %w", err)
		}
		cfg.RecentDays = n
	}
	if v := os.Getenv("GMAILLLM_MAX_RESULTS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid GMAILLLM_MAX_RESULTS: %w", err)
		}
		cfg.MaxFetchResults = n
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.RecentDays <= 0 {
		return fmt.Errorf("recent days must be positive, got %d", c.RecentDays)
	}
	if c.MaxFetchResults <= 0 {
		return fmt.Errorf("max results must be positive, got %d", c.MaxFetchResults)
	}
	return nil
}
