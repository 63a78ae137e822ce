package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ratnaditya-J/GmailWithLlm/gmail"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New("test-key", "gpt-4", 100, 0.5)
	c.baseURL = srv.URL
	return c
}

func completionResponse(content string) string {
	resp := apiResponse{}
	resp.Choices = append(resp.Choices, struct {
		Index        int        `json:"index"`
		Message      apiMessage `json:"message"`
		FinishReason string     `json:"finish_reason"`
	}{Message: apiMessage{Role: "assistant", Content: content}})
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestCompleteSendsAuthAndModel(t *testing.T) {
	var got apiRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(completionResponse("the answer")))
	})

	result, err := c.Complete(context.Background(), "sys", "user msg")
	require.NoError(t, err)
	assert.Equal(t, "the answer", result)
	assert.Equal(t, "gpt-4", got.Model)
	assert.Equal(t, 100, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user msg", got.Messages[1].Content)
}

func TestVerifyUsesCheapModel(t *testing.T) {
	var got apiRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(completionResponse("hi")))
	})

	require.NoError(t, c.Verify(context.Background()))
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.Equal(t, 5, got.MaxTokens)
}

func TestVerifyBadKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Incorrect API key provided"}}`))
	})

	err := c.Verify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (401)")
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestSendNonJSONError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream broke"))
	})

	_, err := c.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (502)")
	assert.Contains(t, err.Error(), "upstream broke")
}

func TestSendEmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"x","choices":[]}`))
	})

	_, err := c.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response from model")
}

func TestAnalyzeEmailsGuards(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse("ok")))
	})

	_, err := c.AnalyzeEmails(context.Background(), nil, "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no email data")

	c.Cleanup()
	_, err = c.AnalyzeEmails(context.Background(), []gmail.NormalizedEmail{{Subject: "x"}}, "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
}

func TestAnalyzeEmailsSendsBatch(t *testing.T) {
	var got apiRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(completionResponse("analysis")))
	})

	emails := []gmail.NormalizedEmail{{Subject: "Receipt #42", From: "shop@x.com"}}
	result, err := c.AnalyzeEmails(context.Background(), emails, "find receipts")
	require.NoError(t, err)
	assert.Equal(t, "analysis", result)
	assert.Contains(t, got.Messages[1].Content, "Receipt #42")
	assert.Contains(t, got.Messages[1].Content, "USER QUERY: find receipts")
}

func TestNewDefaults(t *testing.T) {
	c := New("k", "", 0, 0)
	assert.Equal(t, "gpt-4", c.model)
	assert.Equal(t, 2000, c.maxTokens)
	assert.True(t, c.IsAuthenticated())

	c.Cleanup()
	assert.False(t, c.IsAuthenticated())
}
