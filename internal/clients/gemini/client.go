// Package gemini provides the search-grounded analysis backend on the
// Google Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/JasperZhi/hk-ipo-engine/internal/common"
	"github.com/JasperZhi/hk-ipo-engine/internal/interfaces"
	"github.com/JasperZhi/hk-ipo-engine/internal/models"
)

const DefaultModel = "gemini-2.0-flash"

// Client implements the AnalysisBackend interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

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

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateAnalysis issues one structured-output request with the Google
// Search grounding tool enabled. Temperature is pinned to 0 to maximize
// factual determinism.
func (c *Client) GenerateAnalysis(ctx context.Context, req *interfaces.AnalysisRequest) (*interfaces.AnalysisResult, error) {
	c.logger.Debug().Str("model", c.model).Bool("attachment", req.Attachment != nil).Msg("Generating analysis")

	parts := []*genai.Part{}
	if req.Attachment != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				Data:     req.Attachment.Data,
				MIMEType: req.Attachment.MIMEType,
			},
		})
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})

	config := &genai.GenerateContentConfig{
		Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema,
	}

	contents := []*genai.Content{{Parts: parts, Role: genai.RoleUser}}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate analysis: %w", err)
	}

	text, err := extractTextFromResponse(result)
	if err != nil {
		return nil, err
	}

	return &interfaces.AnalysisResult{
		Text:             text,
		GroundingSources: extractGroundingSources(result),
	}, nil
}

// AnswerFollowUp answers a question against the serialized report using the
// multi-turn chat interface. The full report rides in the system instruction
// so every turn stays grounded in the same data.
func (c *Client) AnswerFollowUp(ctx context.Context, report *models.Analysis, history []models.Message, question string) (string, error) {
	c.logger.Debug().Str("model", c.model).Int("history", len(history)).Msg("Answering follow-up")

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report context: %w", err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: followUpSystemPrompt(report.CompanyName, string(reportJSON))}},
		},
		Temperature: genai.Ptr[float32](0.7),
	}

	chatHistory := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.RoleUser
		if msg.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		chatHistory = append(chatHistory, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}

	chat, err := c.client.Chats.Create(ctx, c.model, config, chatHistory)
	if err != nil {
		return "", fmt.Errorf("failed to create chat session: %w", err)
	}

	result, err := chat.SendMessage(ctx, genai.Part{Text: question})
	if err != nil {
		return "", fmt.Errorf("failed to send follow-up: %w", err)
	}

	return extractTextFromResponse(result)
}

// followUpSystemPrompt builds the grounding instruction for assistant turns.
func followUpSystemPrompt(companyName, reportJSON string) string {
	return fmt.Sprintf(`You are an expert Investment Research Assistant.
The user is viewing an IPO Analysis Report for: %s.

**CURRENT REPORT DATA (Context):**
%s

**INSTRUCTIONS:**
- Answer the user's question based strictly on the provided JSON data.
- If the answer requires external knowledge, you may use your general knowledge but mention it is outside the report scope.
- Keep answers concise, professional, and financial-focused.
- Output in Simplified Chinese.`, companyName, reportJSON)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// extractGroundingSources collects web grounding citation URIs, if any.
func extractGroundingSources(result *genai.GenerateContentResponse) []string {
	if len(result.Candidates) == 0 || result.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var sources []string
	for _, chunk := range result.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web != nil && chunk.Web.URI != "" {
			sources = append(sources, chunk.Web.URI)
		}
	}
	return sources
}

// Ensure Client implements AnalysisBackend
var _ interfaces.AnalysisBackend = (*Client)(nil)
