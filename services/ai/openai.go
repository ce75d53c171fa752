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
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	openAIParserModel    = "gpt-4o-mini"
)

const openAIParserPrompt = `You are a baby log parser. Analyze the transcript and extract:
- type: FEEDING (bottle, formula, breast, solid), SLEEP (nap, sleep), DIAPER (wet, dirty, change), NOTE (anything else), REJECT (nonsense, unrelated to baby care)
- amount: numeric value if mentioned
- unit: oz, ml, minutes, hours
- notes: additional details
- confidence: 0-1 based on certainty
- rejectionReason: if REJECT, explain why

Respond with a single JSON object.

STRICT RULES:
1. If the transcript is gibberish, random unrelated words, or clearly not about baby care, set type to REJECT and confidence to 0.1
2. If the transcript is a clear baby activity with specific details (amount, time), set confidence to 0.8-1.0
3. If the transcript is a valid baby note without specific details, set type to NOTE and confidence to 0.6-0.8
4. Only use REJECT for truly nonsensical input like "xyz abc 123", "blah blah", "what's the weather"`

// OpenAIParser classifies transcripts with the OpenAI chat completions API
type OpenAIParser struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

// NewOpenAIParser creates a parser against the public OpenAI API
func NewOpenAIParser(apiKey string) *OpenAIParser {
	return &OpenAIParser{
		APIKey:  apiKey,
		BaseURL: defaultOpenAIBaseURL,
		Model:   openAIParserModel,
		Client:  newHTTPClient(),
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	ResponseFormat *openAIFormat   `json:"response_format,omitempty"`
}

type openAIFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Parse classifies a transcript. Provider failures degrade to the NOTE fallback.
func (p *OpenAIParser) Parse(ctx context.Context, transcript string) ParsedLog {
	content, err := p.complete(ctx, openAIParserPrompt, transcript)
	if err != nil {
		log.Printf("OpenAI parsing error: %v", err)
		return fallbackParsedLog(transcript)
	}

	jsonText, ok := extractJSON(content)
	if !ok {
		log.Printf("OpenAI response contained no JSON object")
		return fallbackParsedLog(transcript)
	}

	var result providerResult
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		log.Printf("Failed to decode OpenAI parse result: %v", err)
		return fallbackParsedLog(transcript)
	}

	return result.toParsedLog()
}

// complete sends a system+user chat completion and returns the response text
func (p *OpenAIParser) complete(ctx context.Context, system, user string) (string, error) {
	reqBody := openAIChatRequest{
		Model: p.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &openAIFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var chatResp openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d", resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

const openAIInsightsPrompt = `You are a pediatric advice assistant. Analyze the baby logs and provide practical insights. Respond with a single JSON object with fields "summary" (string), "patterns" (array of strings), and "suggestions" (array of strings).`

// OpenAIInsightGenerator produces weekly summaries with the OpenAI API
type OpenAIInsightGenerator struct {
	parser *OpenAIParser
}

// NewOpenAIInsightGenerator creates a generator against the public OpenAI API
func NewOpenAIInsightGenerator(apiKey string) *OpenAIInsightGenerator {
	return &OpenAIInsightGenerator{parser: NewOpenAIParser(apiKey)}
}

// Generate summarizes a week of logs. Provider failures yield the canned response.
func (g *OpenAIInsightGenerator) Generate(ctx context.Context, babyName string, logs []LogEntry) WeeklyInsights {
	content, err := g.parser.complete(ctx, openAIInsightsPrompt, buildInsightsInput(babyName, logs))
	if err != nil {
		log.Printf("OpenAI insights error: %v", err)
		return fallbackInsights()
	}

	jsonText, ok := extractJSON(content)
	if !ok {
		return fallbackInsights()
	}

	var insights WeeklyInsights
	if err := json.Unmarshal([]byte(jsonText), &insights); err != nil {
		log.Printf("Failed to decode OpenAI insights: %v", err)
		return fallbackInsights()
	}

	return insights
}
