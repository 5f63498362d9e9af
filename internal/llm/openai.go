package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// minRequestInterval spaces out requests so bursts of agent runs do not
// trip the provider's rate limit immediately.
const minRequestInterval = 100 * time.Millisecond

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // e.g. https://api.openai.com/v1
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// OpenAIClient talks to any OpenAI-compatible chat completion API.
type OpenAIClient struct {
	apiKey      string
	baseURL     string
	model       string
	maxRetries  int
	httpClient  *http.Client
	log         *zap.Logger
	mu          sync.Mutex
	lastRequest time.Time
}

func NewOpenAIClient(cfg OpenAIConfig, log *zap.Logger) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	return &OpenAIClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type responsesRequest struct {
	Model      string `json:"model"`
	Input      string `json:"input"`
	Background bool   `json:"background"`
}

type responsesResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *apiError `json:"error,omitempty"`
}

// Complete sends a chat completion request and returns the text of the
// first choice. Retries on 429 and transport errors with exponential
// backoff.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("LLM API key not configured")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	start := time.Now()
	reqBody := chatRequest{
		Model:       c.model,
		Temperature: 0.3,
		MaxTokens:   4096,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	body, err := c.doWithRetry(ctx, "POST", "/chat/completions", reqBody)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.log.Debug("completion finished",
		zap.String("model", c.model),
		zap.Duration("took", time.Since(start)),
		zap.Int("response_len", len(out)),
	)
	return out, nil
}

// SubmitBackground enqueues a background job on the provider and returns
// its job id. The prompts are concatenated because the responses API
// takes a single input string.
func (c *OpenAIClient) SubmitBackground(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("LLM API key not configured")
	}

	input := userPrompt
	if systemPrompt != "" {
		input = systemPrompt + "\n\n" + userPrompt
	}
	reqBody := responsesRequest{Model: c.model, Input: input, Background: true}

	body, err := c.doWithRetry(ctx, "POST", "/responses", reqBody)
	if err != nil {
		return "", err
	}

	var resp responsesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("no job id returned")
	}

	c.log.Debug("background job submitted", zap.String("job_id", resp.ID), zap.String("status", resp.Status))
	return resp.ID, nil
}

// FetchBackground returns the current state of a background job.
func (c *OpenAIClient) FetchBackground(ctx context.Context, jobID string) (*BackgroundResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("LLM API key not configured")
	}

	body, err := c.doWithRetry(ctx, "GET", "/responses/"+jobID, nil)
	if err != nil {
		return nil, err
	}

	var resp responsesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	result := &BackgroundResult{Status: resp.Status}
	if resp.Error != nil {
		result.Status = JobStatusFailed
		result.Error = resp.Error.Message
		return result, nil
	}
	if resp.Status == JobStatusCompleted {
		result.Output = strings.TrimSpace(extractOutputText(resp))
	}
	return result, nil
}

func extractOutputText(resp responsesResponse) string {
	var sb strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				sb.WriteString(c.Text)
			}
		}
	}
	return sb.String()
}

// doWithRetry performs the HTTP call with min-interval spacing and
// exponential backoff on 429 / transport failures.
func (c *OpenAIClient) doWithRetry(ctx context.Context, method, path string, reqBody any) ([]byte, error) {
	var payload []byte
	if reqBody != nil {
		var err error
		payload, err = json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			select {
			case <-time.After(time.Duration(1<<uint(i-1)) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		c.mu.Lock()
		if elapsed := time.Since(c.lastRequest); elapsed < minRequestInterval {
			time.Sleep(minRequestInterval - elapsed)
		}
		c.lastRequest = time.Now()
		c.mu.Unlock()

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limit exceeded (429)")
			c.log.Warn("provider rate limit hit, backing off", zap.Int("attempt", i+1))
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
		return body, nil
	}
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
