// Package assist wraps the external text-generation service used for
// game-master help. The service is treated as unreliable: every failure
// degrades to a fixed fallback string instead of an error.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Fallback strings appended to the chat log on failure.
const (
	FallbackError = "Духи переплетений молчат. (Ошибка ИИ)"
	FallbackEmpty = "Извините, я не смог обработать этот запрос."
)

const systemInstruction = `You are an AI assistant for a FATE RPG Game Master.
Current context of the table: %s.
Keep responses concise, flavored for tabletop roleplaying, and helpful regarding FATE rules (Aspects, Skills, Stunts, Stress).
Respond in Russian as the primary language of the user.`

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client for the given model. The timeout bounds the
// whole request.
func NewClient(apiKey, model string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GMAssistance asks the model for help with the given prompt and table
// context. It never fails: errors and empty responses are converted to
// fallback strings.
func (c *Client) GMAssistance(ctx context.Context, prompt, tableContext string) string {
	text, err := c.generate(ctx, prompt, tableContext)
	if err != nil {
		c.logger.Error("assist request failed", slog.String("error", err.Error()))
		return FallbackError
	}
	if text == "" {
		return FallbackEmpty
	}
	return text
}

func (c *Client) generate(ctx context.Context, prompt, tableContext string) (string, error) {
	payload := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		SystemInstruction: &content{
			Parts: []part{{Text: fmt.Sprintf(systemInstruction, tableContext)}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model returned status %d", resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
