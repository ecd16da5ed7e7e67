package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ireporter/ireporter-api/config"
)

const openAIModel = "gpt-4.1-nano"

const chatFallbackMessage = "I'm sorry, I'm having trouble responding right now. Please try again later or proceed with filing your report manually."

const analyzeSystemPrompt = "You are an AI assistant that helps categorize citizen reports for a government transparency platform. Be accurate and helpful."

const analyzePromptFormat = `
Analyze the following report description and categorize it:

Description: "%s"

Based on this description, determine:
1. Category: "red-flag" (corruption/misconduct) or "intervention" (infrastructure/service request)
2. Specific type from these options:

Red Flag types:
- Bribery and Corruption
- Embezzlement of Public Funds
- Abuse of Office
- Fraudulent Activities
- Nepotism and Favoritism
- Misuse of Government Resources
- Other Corruption

Intervention types:
- Road Repairs and Maintenance
- Water and Sanitation Issues
- Public Facility Problems
- Healthcare Service Issues
- Education Infrastructure
- Public Safety Concerns
- Environmental Issues
- Other Infrastructure

3. Suggest an improved title (max 100 characters)
4. Suggest an improved description with better structure and clarity

Respond in JSON format:
{
  "category": "red-flag" or "intervention",
  "type": "specific type from the list above",
  "suggestedTitle": "improved title",
  "improvedDescription": "improved description",
  "confidence": 0.0-1.0
}
`

const chatSystemPrompt = `You are a helpful AI assistant for iReporter, a platform for reporting corruption and requesting government intervention.

Your role is to:
1. Help users understand how to file effective reports
2. Provide guidance on what information to include
3. Explain the difference between red flag (corruption) and intervention (infrastructure) reports
4. Answer questions about the reporting process
5. Offer encouragement and support to citizens

Be friendly, professional, and supportive. Keep responses concise but helpful.`

// ChatMessage is a single turn in an assistant conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnalysisResult is the structured classification of a report description.
// All fields are null and confidence is 0 when analysis fails, the client
// falls back to manual categorization.
type AnalysisResult struct {
	Category            *string `json:"category"`
	Type                *string `json:"type"`
	SuggestedTitle      *string `json:"suggestedTitle"`
	ImprovedDescription *string `json:"improvedDescription"`
	Confidence          float64 `json:"confidence"`
}

// OpenAIClient calls an openai-compatible chat completion endpoint
type OpenAIClient struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// NewOpenAIClient builds a client from OPENAI_BASE_URL and OPENAI_API_KEY
func NewOpenAIClient() *OpenAIClient {
	return &OpenAIClient{
		BaseURL:    os.Getenv("OPENAI_BASE_URL"),
		APIKey:     os.Getenv("OPENAI_API_KEY"),
		Model:      openAIModel,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends a chat completion request and returns the first choice
func (c *OpenAIClient) Complete(ctx context.Context, messages []ChatMessage, temperature float64, maxTokens int) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai api error: %d", resp.StatusCode)
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// AI exposes the report analysis and chat assistant endpoints
type AI struct {
	Client *OpenAIClient
}

// AnalyzeReportHandler classifies a report description. Failures degrade to a
// null result rather than an error so the client can fall back to manual entry.
func (a AI) AnalyzeReportHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		config.ErrorStatus("description is required", http.StatusBadRequest, w, fmt.Errorf("missing required field"))
		return
	}

	result := a.analyze(r.Context(), req.Description)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (a AI) analyze(ctx context.Context, description string) AnalysisResult {
	content, err := a.Client.Complete(ctx, []ChatMessage{
		{Role: "system", Content: analyzeSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(analyzePromptFormat, description)},
	}, 0.3, 500)
	if err != nil {
		zap.S().Warnw("report analysis failed", "error", err)
		return AnalysisResult{}
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		zap.S().Warnw("failed to parse analysis response", "content", content, "error", err)
		return AnalysisResult{}
	}
	return result
}

// ChatAssistantHandler answers reporting questions with the prior conversation
// as context. Completion failures return a canned apology instead of an error.
func (a AI) ChatAssistantHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message     string        `json:"message"`
		ChatHistory []ChatMessage `json:"chatHistory"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		config.ErrorStatus("message is required", http.StatusBadRequest, w, fmt.Errorf("missing required field"))
		return
	}

	messages := make([]ChatMessage, 0, len(req.ChatHistory)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: chatSystemPrompt})
	messages = append(messages, req.ChatHistory...)
	messages = append(messages, ChatMessage{Role: "user", Content: req.Message})

	reply, err := a.Client.Complete(r.Context(), messages, 0.7, 300)
	if err != nil {
		zap.S().Warnw("chat completion failed", "error", err)
		reply = chatFallbackMessage
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": reply})
}
