package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"night_shift_app_go/models"

	"github.com/stretchr/testify/assert"
)

func newOpenAITestParser(server *httptest.Server) *OpenAIParser {
	parser := NewOpenAIParser("test-key")
	parser.BaseURL = server.URL
	parser.Client = server.Client()
	return parser
}

func openAIChatFixture(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
}

func TestOpenAIParseSuccess(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		var req openAIChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "Baby drank 4 oz", req.Messages[1].Content)

		json.NewEncoder(w).Encode(openAIChatFixture(
			`{"type": "FEEDING", "startTime": "now", "amount": 4, "unit": "oz", "confidence": 0.9}`,
		))
	}))
	defer server.Close()

	parser := newOpenAITestParser(server)
	parsed := parser.Parse(context.Background(), "Baby drank 4 oz")

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, models.LogTypeFeeding, parsed.Type)
	assert.Equal(t, "now", parsed.StartTime)
	assert.Equal(t, 4.0, *parsed.Amount)
	assert.Equal(t, "oz", *parsed.Unit)
	assert.Equal(t, 0.9, parsed.Confidence)
}

func TestOpenAIParseProseWrappedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openAIChatFixture(
			`Sure! Here is the classification: {"type": "SLEEP", "amount": 30, "unit": "minutes"} Let me know.`,
		))
	}))
	defer server.Close()

	parsed := newOpenAITestParser(server).Parse(context.Background(), "Baby napped half an hour")
	assert.Equal(t, models.LogTypeSleep, parsed.Type)
	assert.Equal(t, 30.0, *parsed.Amount)
	// Omitted confidence falls back to the default
	assert.Equal(t, DefaultConfidence, parsed.Confidence)
}

func TestOpenAIParseErrorDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer server.Close()

	parsed := newOpenAITestParser(server).Parse(context.Background(), "Baby drank 4 oz")
	assert.Equal(t, models.LogTypeNote, parsed.Type)
	assert.Equal(t, FallbackConfidence, parsed.Confidence)
	assert.Equal(t, "Baby drank 4 oz", *parsed.Notes)
}

func TestOpenAIParseNonJSONContentDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openAIChatFixture("I could not classify that."))
	}))
	defer server.Close()

	parsed := newOpenAITestParser(server).Parse(context.Background(), "Baby drank 4 oz")
	assert.Equal(t, models.LogTypeNote, parsed.Type)
	assert.Equal(t, FallbackConfidence, parsed.Confidence)
}

func TestOpenAIParseUnreachableDegrades(t *testing.T) {
	parser := NewOpenAIParser("test-key")
	parser.BaseURL = "http://127.0.0.1:1"
	parser.Client = &http.Client{Timeout: 200 * time.Millisecond}

	parsed := parser.Parse(context.Background(), "Baby drank 4 oz")
	assert.Equal(t, models.LogTypeNote, parsed.Type)
	assert.Equal(t, FallbackConfidence, parsed.Confidence)
}

func TestOpenAIGenerateInsights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openAIChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Messages[1].Content, "Baby: June")
		assert.Contains(t, req.Messages[1].Content, "FEEDING")

		json.NewEncoder(w).Encode(openAIChatFixture(
			`{"summary": "Good week", "patterns": ["regular feeds"], "suggestions": ["keep logging"]}`,
		))
	}))
	defer server.Close()

	gen := NewOpenAIInsightGenerator("test-key")
	gen.parser.BaseURL = server.URL
	gen.parser.Client = server.Client()

	amount := 4.0
	insights := gen.Generate(context.Background(), "June", []LogEntry{
		{Type: models.LogTypeFeeding, StartTime: time.Now(), Amount: &amount},
	})

	assert.Equal(t, "Good week", insights.Summary)
	assert.Equal(t, []string{"regular feeds"}, insights.Patterns)
	assert.Equal(t, []string{"keep logging"}, insights.Suggestions)
}

func TestOpenAIGenerateInsightsErrorDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	gen := NewOpenAIInsightGenerator("test-key")
	gen.parser.BaseURL = server.URL
	gen.parser.Client = server.Client()

	insights := gen.Generate(context.Background(), "June", nil)
	assert.Equal(t, "Unable to generate insights at this time.", insights.Summary)
}
