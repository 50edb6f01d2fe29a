// Package copilot answers engineer questions about post processor content
// through the Anthropic messages API. It degrades instead of failing:
// missing credentials and remote errors both come back as inline text, so
// callers never have to handle a copilot error path.
package copilot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"

	// maxContextChars caps how much post processor text is sent along
	// with a question.
	maxContextChars = 8000

	unavailableMessage = "[copilot unavailable: ANTHROPIC_API_KEY not configured]"
)

type Copilot struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func New(apiKey, model string) *Copilot {
	return &Copilot{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
	}
}

// NewWithBaseURL is used by tests to point the copilot at a local server.
func NewWithBaseURL(apiKey, model, baseURL string) *Copilot {
	c := New(apiKey, model)
	c.baseURL = baseURL
	return c
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Ask answers a question about post processor content. It always returns
// displayable text: remote failures are wrapped inline rather than
// propagated.
func (c *Copilot) Ask(ctx context.Context, contextText, question, platform string) string {
	if c.apiKey == "" {
		return unavailableMessage
	}

	if len(contextText) > maxContextChars {
		contextText = contextText[:maxContextChars]
	}

	answer, err := c.call(ctx, contextText, question, platform)
	if err != nil {
		return fmt.Sprintf("[copilot error: %v]", err)
	}
	return answer
}

func (c *Copilot) call(ctx context.Context, contextText, question, platform string) (string, error) {
	reqBody := messageRequest{
		Model:     c.model,
		MaxTokens: 2048,
		System:    fmt.Sprintf(systemPrompt, platform),
		Messages: []message{
			{
				Role: "user",
				Content: fmt.Sprintf("Here is a %s post processor file:\n\n```\n%s\n```\n\nQuestion: %s",
					platform, contextText, question),
			},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed messageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("API error %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("API error %d", resp.StatusCode)
	}

	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("response contained no text content")
}
