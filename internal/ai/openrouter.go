package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	openRouterMaxTokens   = 2000
	openRouterTemperature = 0.7
)

// OpenRouterClient talks to an OpenAI-compatible chat-completions gateway.
// The API key is passed per call so the executor can rotate keys.
type OpenRouterClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenRouterClient(baseURL string, httpClient *http.Client) *OpenRouterClient {
	return &OpenRouterClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *OpenRouterClient) Complete(ctx context.Context, apiKey string, messages []ChatMessage, model string) (string, error) {
	// The system turn rides both inline and in the dedicated field; the
	// gateway honors whichever the downstream model supports.
	var systemMessage string
	chatMessages := make([]ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == "system" {
			systemMessage = msg.Content
			continue
		}
		chatMessages = append(chatMessages, msg)
	}

	reqBody := map[string]interface{}{
		"model":       model,
		"messages":    chatMessages,
		"max_tokens":  openRouterMaxTokens,
		"temperature": openRouterTemperature,
	}
	if systemMessage != "" {
		reqBody["system"] = systemMessage
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal openrouter request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build openrouter request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("HTTP-Referer", "https://github.com/chatpdf")
	req.Header.Set("X-Title", "ChatPDF App")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read openrouter response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openrouter response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse openrouter json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty openrouter choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
