// Package llm talks to the OpenAI chat-completions API for email analysis.
// The API key lives only in memory and is zeroed on cleanup.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Ratnaditya-J/GmailWithLlm/gmail"
)

const (
	apiURL = "https://api.openai.com/v1/chat/completions"

	defaultModel     = "gpt-4"
	defaultMaxTokens = 2000

	// Key verification uses a cheap model and a tiny completion.
	verifyModel     = "gpt-3.5-turbo"
	verifyMaxTokens = 5
)

// Client is a chat-completions client. A failed call is terminal for that
// single analysis; nothing is retried.
type Client struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	baseURL     string
	client      *http.Client
}

// New creates a client for the given key and model settings.
func New(apiKey, model string, maxTokens int, temperature float64) *Client {
	if model == "" {
		model = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		baseURL:     apiURL,
		client:      &http.Client{},
	}
}

// Verify sends a minimal completion to prove the key works before the
// session starts.
func (c *Client) Verify(ctx context.Context) error {
	_, err := c.send(ctx, apiRequest{
		Model:     verifyModel,
		Messages:  []apiMessage{{Role: "user", Content: "Hello"}},
		MaxTokens: verifyMaxTokens,
	})
	if err != nil {
		return fmt.Errorf("API key verification failed: %w", err)
	}
	return nil
}

// Complete runs one completion against the configured model.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	return c.send(ctx, apiRequest{
		Model: c.model,
		Messages: []apiMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
}

// AnalyzeEmails answers a natural-language query over the given batch.
func (c *Client) AnalyzeEmails(ctx context.Context, emails []gmail.NormalizedEmail, query string) (string, error) {
	if !c.IsAuthenticated() {
		return "", fmt.Errorf("LLM client not authenticated")
	}
	if len(emails) == 0 {
		return "", fmt.Errorf("no email data provided for analysis")
	}
	result, err := c.Complete(ctx, systemPrompt, BuildAnalysisPrompt(emails, query))
	if err != nil {
		return "", fmt.Errorf("analysis failed: %w", err)
	}
	return result, nil
}

// SummarizeEmails produces a general summary of the batch.
func (c *Client) SummarizeEmails(ctx context.Context, emails []gmail.NormalizedEmail) (string, error) {
	return c.AnalyzeEmails(ctx, emails, summaryQuery)
}

// ExtractContentType pulls one content category (travel, receipts, ...) out
// of the batch.
func (c *Client) ExtractContentType(ctx context.Context, emails []gmail.NormalizedEmail, contentType string) (string, error) {
	return c.AnalyzeEmails(ctx, emails, fmt.Sprintf(extractQueryTemplate, contentType))
}

// FindPatterns analyzes communication patterns in the batch.
func (c *Client) FindPatterns(ctx context.Context, emails []gmail.NormalizedEmail) (string, error) {
	return c.AnalyzeEmails(ctx, emails, patternsQuery)
}

// IsAuthenticated reports whether a key is currently held.
func (c *Client) IsAuthenticated() bool {
	return c.apiKey != ""
}

// Cleanup zeroes the key. Called on every exit path.
func (c *Client) Cleanup() {
	c.apiKey = ""
}

func (c *Client) send(ctx context.Context, reqBody apiRequest) (string, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}
	return result.Choices[0].Message.Content, nil
}

// --- OpenAI API types ---

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int        `json:"index"`
		Message      apiMessage `json:"message"`
		FinishReason string     `json:"finish_reason"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
