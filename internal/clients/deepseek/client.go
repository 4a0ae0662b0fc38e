// Package deepseek provides the chat-completion analysis backend on the
// DeepSeek API (OpenAI-compatible wire format).
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/interfaces"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

const (
	DefaultBaseURL   = "https://api.deepseek.com"
	DefaultModel     = "deepseek-chat"
	DefaultTimeout   = 120 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the AnalysisBackend interface
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new DeepSeek client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		model:   DefaultModel,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-success API response. Message carries the
// response body verbatim for diagnostics.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("DeepSeek API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// ResponsePayload returns the response body verbatim.
func (e *APIError) ResponsePayload() string { return e.Message }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chat performs a rate-limited chat-completion request.
func (c *Client) chat(ctx context.Context, req *chatRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	const endpoint = "/chat/completions"

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug().Str("model", req.Model).Int("messages", len(req.Messages)).Msg("DeepSeek API request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
			Endpoint:   endpoint,
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	return parsed.Choices[0].Message.Content, nil
}

// GenerateAnalysis issues one JSON-mode chat completion. The chat API has no
// binary part, so attachment evidence is unsupported here; live web
// retrieval is likewise unavailable, so GroundingSources is always empty.
func (c *Client) GenerateAnalysis(ctx context.Context, req *interfaces.AnalysisRequest) (*interfaces.AnalysisResult, error) {
	text, err := c.chat(ctx, &chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	return &interfaces.AnalysisResult{Text: text}, nil
}

// AnswerFollowUp answers a question with the serialized report as the system
// message followed by the full prior conversation.
func (c *Client) AnswerFollowUp(ctx context.Context, report *models.Analysis, history []models.Message, question string) (string, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report context: %w", err)
	}

	system := fmt.Sprintf(`You are an expert Investment Research Assistant.
The user is viewing an IPO Analysis Report for: %s.

**CURRENT REPORT DATA (Context):**
%s

**INSTRUCTIONS:**
- Answer based strictly on the provided JSON data.
- Output in Simplified Chinese.`, report.CompanyName, reportJSON)

	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: system})
	for _, msg := range history {
		role := "user"
		if msg.Role == models.RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: msg.Text})
	}
	messages = append(messages, chatMessage{Role: "user", Content: question})

	return c.chat(ctx, &chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
	})
}

// Ensure Client implements AnalysisBackend
var _ interfaces.AnalysisBackend = (*Client)(nil)
