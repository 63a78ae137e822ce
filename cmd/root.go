// Package cmd wires the command line entry point: it loads configuration,
// authenticates both providers, and hands control to the interactive session.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Ratnaditya-J/GmailWithLlm/auth"
	"github.com/Ratnaditya-J/GmailWithLlm/config"
	"github.com/Ratnaditya-J/GmailWithLlm/gmail"
	"github.com/Ratnaditya-J/GmailWithLlm/llm"
	"github.com/Ratnaditya-J/GmailWithLlm/logging"
	"github.com/Ratnaditya-J/GmailWithLlm/query"
)

var version = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var (
	flagCredentials string
	flagLogFile     string
	flagModel       string
	flagMaxTokens   int
	flagRecentDays  int
	flagMaxResults  int64
)

var rootCmd = &cobra.Command{
	Use:   "gmailwithllm",
	Short: "Analyze your Gmail with an LLM from the terminal",
	Long: `GmailWithLLM connects to your Gmail account read-only and lets you
ask natural-language questions about your email using an LLM.

Credentials and email content stay in memory for the session and are
never written to disk.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagCredentials, "credentials", "", "path to OAuth client credentials JSON")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "path to the session log file")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "LLM model for analysis")
	rootCmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "max tokens per LLM response")
	rootCmd.Flags().IntVar(&flagRecentDays, "recent-days", 0, "default fetch window in days")
	rootCmd.Flags().Int64Var(&flagMaxResults, "max-results", 0, "default max emails per fetch")
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, query.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// applyFlagOverrides layers explicitly-set flags over the environment
// config. Unset flags leave the config value alone.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("credentials") {
		cfg.CredentialsFile = flagCredentials
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = flagLogFile
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = flagModel
	}
	if cmd.Flags().Changed("max-tokens") {
		cfg.MaxTokens = flagMaxTokens
	}
	if cmd.Flags().Changed("recent-days") {
		cfg.RecentDays = flagRecentDays
	}
	if cmd.Flags().Changed("max-results") {
		cfg.MaxFetchResults = flagMaxResults
	}
}

func run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	logger, closeLog, err := logging.Setup(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer closeLog()

	sep := strings.Repeat("=", 60)
	fmt.Println(query.TitleStyle.Render(sep))
	fmt.Println(query.TitleStyle.Render("GmailWithLLM - Secure Email Analysis"))
	fmt.Println(query.TitleStyle.Render(sep))
	fmt.Println(query.WarnStyle.Render("Your credentials are kept in memory only and cleared on exit."))
	fmt.Println()

	logger.Info("session start", logging.Operation("startup"))

	fmt.Println(query.InfoStyle.Render("Step 1: Gmail Authentication"))
	manager, err := auth.NewManager(cfg.CredentialsFile, logger)
	if err != nil {
		return fmt.Errorf("gmail authentication: %w", err)
	}
	defer manager.Cleanup()

	tokenSource, err := manager.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("gmail authentication: %w", err)
	}

	gmailClient, err := gmail.NewClient(ctx, tokenSource, logger)
	if err != nil {
		return fmt.Errorf("gmail connection: %w", err)
	}
	defer gmailClient.Cleanup()
	fmt.Println(query.SuccessStyle.Render("Authenticated as " + gmailClient.UserEmail()))

	fmt.Println()
	fmt.Println(query.InfoStyle.Render("Step 2: LLM Authentication"))
	llmClient, err := authenticateLLM(ctx, cfg)
	if err != nil {
		return fmt.Errorf("llm authentication: %w", err)
	}
	defer llmClient.Cleanup()
	fmt.Println(query.SuccessStyle.Render("LLM API key verified"))

	session := query.New(gmailClient, llmClient, logger, cfg.RecentDays, cfg.MaxFetchResults)
	defer session.Cleanup()
	session.Start(ctx)

	logger.Info("session end", logging.Operation("shutdown"))
	fmt.Println(query.SuccessStyle.Render("Session data cleared. Goodbye!"))
	return nil
}

// authenticateLLM reads the API key without echo and verifies it with a
// minimal request before the session starts.
func authenticateLLM(ctx context.Context, cfg *config.Config) (*llm.Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Print(query.PromptStyle.Render("Enter your OpenAI API key (input hidden): "))
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return nil, fmt.Errorf("read API key: %w", err)
		}
		apiKey = strings.TrimSpace(string(raw))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key provided")
	}

	client := llm.New(apiKey, cfg.Model, cfg.MaxTokens, cfg.Temperature)
	if err := client.Verify(ctx); err != nil {
		client.Cleanup()
		return nil, fmt.Errorf("verify API key: %w", err)
	}
	return client, nil
}
