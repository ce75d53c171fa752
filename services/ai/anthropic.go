package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
	anthropicParserModel    = "claude-3-haiku-20240307"
	anthropicInsightsModel  = "claude-3-sonnet-20240229"
	anthropicMaxTokens      = 1024
)

const anthropicParserPrompt = `You are a baby log parser. Extract JSON with:
- type: FEEDING, SLEEP, DIAPER, or NOTE
- amount: numeric value if mentioned
- unit: oz, ml, minutes, hours
- notes: additional details
- confidence: 0-1`

// AnthropicParser classifies transcripts with the Anthropic messages API
type AnthropicParser struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

// NewAnthropicParser creates a parser against the public Anthropic API
func NewAnthropicParser(apiKey string) *AnthropicParser {
	return &AnthropicParser{
		APIKey:  apiKey,
		BaseURL: defaultAnthropicBaseURL,
		Model:   anthropicParserModel,
		Client:  newHTTPClient(),
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Parse classifies a transcript. Provider failures degrade to the NOTE fallback.
func (p *AnthropicParser) Parse(ctx context.Context, transcript string) ParsedLog {
	content, err := p.complete(ctx, p.Model, anthropicParserPrompt, transcript)
	if err != nil {
		log.Printf("Anthropic parsing error: %v", err)
		return fallbackParsedLog(transcript)
	}

	jsonText, ok := extractJSON(content)
	if !ok {
		return fallbackParsedLog(transcript)
	}

	var result providerResult
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		log.Printf("Failed to decode Anthropic parse result: %v", err)
		return fallbackParsedLog(transcript)
	}

	return result.toParsedLog()
}

// complete sends a single-turn message and returns the first text block
func (p *AnthropicParser) complete(ctx context.Context, model, system, user string) (string, error) {
	reqBody := anthropicRequest{
		Model:     model,
		MaxTokens: anthropicMaxTokens,
		System:    system,
		Messages: []anthropicMessage{
			{Role: "user", Content: user},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var msgResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if msgResp.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", msgResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic returned status %d", resp.StatusCode)
	}

	for _, block := range msgResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("anthropic response contained no text block")
}

const anthropicInsightsPrompt = `Analyze this week's baby logs and return JSON with:
{
  "summary": "2-3 sentence summary",
  "patterns": ["pattern 1"],
  "suggestions": ["suggestion 1"]
}`

// AnthropicInsightGenerator produces weekly summaries with the Anthropic API
type AnthropicInsightGenerator struct {
	parser *AnthropicParser
}

// NewAnthropicInsightGenerator creates a generator against the public Anthropic API
func NewAnthropicInsightGenerator(apiKey string) *AnthropicInsightGenerator {
	return &AnthropicInsightGenerator{parser: NewAnthropicParser(apiKey)}
}

// Generate summarizes a week of logs. Provider failures yield the canned response.
func (g *AnthropicInsightGenerator) Generate(ctx context.Context, babyName string, logs []LogEntry) WeeklyInsights {
	content, err := g.parser.complete(ctx, anthropicInsightsModel, anthropicInsightsPrompt, buildInsightsInput(babyName, logs))
	if err != nil {
		log.Printf("Anthropic insights error: %v", err)
		return fallbackInsights()
	}

	jsonText, ok := extractJSON(content)
	if !ok {
		return fallbackInsights()
	}

	var insights WeeklyInsights
	if err := json.Unmarshal([]byte(jsonText), &insights); err != nil {
		log.Printf("Failed to decode Anthropic insights: %v", err)
		return fallbackInsights()
	}

	return insights
}
