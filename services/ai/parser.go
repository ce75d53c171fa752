package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"night_shift_app_go/config"
	"night_shift_app_go/models"
)

// TypeReject is the classifier outcome for transcripts that do not describe
// a baby activity. It is never persisted as a log type.
const TypeReject = "REJECT"

// DefaultConfidence is used when the provider response omits a confidence score
const DefaultConfidence = 0.5

// FallbackConfidence marks a degraded parse (provider failure or unparseable response)
const FallbackConfidence = 0.1

// ParsedLog is the structured classification of a transcript. StartTime and
// EndTime are free-form expressions ("now", "10 minutes ago", ISO strings)
// that still need normalization before persistence.
type ParsedLog struct {
	Type       string   `json:"type"` // FEEDING, SLEEP, DIAPER, NOTE, or REJECT
	StartTime  string   `json:"start_time"`
	EndTime    *string  `json:"end_time,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
	Unit       *string  `json:"unit,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	Confidence float64  `json:"confidence"`
}

// TranscriptParser classifies a voice transcript into a ParsedLog.
// Implementations must not fail: any provider error degrades to the
// NOTE fallback instead of propagating.
type TranscriptParser interface {
	Parse(ctx context.Context, transcript string) ParsedLog
}

// LogEntry is the slimmed-down log shape handed to insight generation
type LogEntry struct {
	Type      string
	StartTime time.Time
	Amount    *float64
	Unit      *string
	Notes     *string
}

// WeeklyInsights is the AI-generated weekly summary for a baby
type WeeklyInsights struct {
	Summary     string   `json:"summary"`
	Patterns    []string `json:"patterns"`
	Suggestions []string `json:"suggestions"`
}

// InsightGenerator produces a weekly summary from a week of log entries.
// Implementations recover provider failures with a canned response.
type InsightGenerator interface {
	Generate(ctx context.Context, babyName string, logs []LogEntry) WeeklyInsights
}

// NewTranscriptParser returns the parser for the configured provider
func NewTranscriptParser(cfg *config.Config) TranscriptParser {
	if cfg.AIProvider == config.AIProviderAnthropic {
		return NewAnthropicParser(cfg.AnthropicAPIKey)
	}
	return NewOpenAIParser(cfg.OpenAIAPIKey)
}

// NewInsightGenerator returns the insight generator for the configured provider
func NewInsightGenerator(cfg *config.Config) InsightGenerator {
	if cfg.AIProvider == config.AIProviderAnthropic {
		return NewAnthropicInsightGenerator(cfg.AnthropicAPIKey)
	}
	return NewOpenAIInsightGenerator(cfg.OpenAIAPIKey)
}

// newHTTPClient returns the shared client configuration for provider calls
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
	}
}

// fallbackParsedLog is the degraded result used when a provider call fails
// or its response contains no parseable JSON
func fallbackParsedLog(transcript string) ParsedLog {
	notes := transcript
	return ParsedLog{
		Type:       models.LogTypeNote,
		StartTime:  "now",
		Confidence: FallbackConfidence,
		Notes:      &notes,
	}
}

// extractJSON pulls the first JSON object out of a free-text model response
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// NormalizeType maps free-text provider type values onto the log type enum.
// Near-synonyms collapse onto their canonical type; anything unrecognized
// that is not an explicit REJECT becomes NOTE.
func NormalizeType(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case value == strings.ToLower(TypeReject):
		return TypeReject
	case containsAny(value, "feed", "formula", "bottle", "nurse", "breast", "solid", "ate", "drank", "milk"):
		return models.LogTypeFeeding
	case containsAny(value, "sleep", "nap", "bed"):
		return models.LogTypeSleep
	case containsAny(value, "diaper", "wet", "dirty", "poop", "pee"):
		return models.LogTypeDiaper
	default:
		return models.LogTypeNote
	}
}

func containsAny(value string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(value, term) {
			return true
		}
	}
	return false
}

// providerResult is the raw JSON shape both providers are prompted to return
type providerResult struct {
	Type            string   `json:"type"`
	StartTime       string   `json:"startTime"`
	EndTime         *string  `json:"endTime"`
	Amount          *float64 `json:"amount"`
	Unit            *string  `json:"unit"`
	Notes           *string  `json:"notes"`
	Confidence      *float64 `json:"confidence"`
	RejectionReason *string  `json:"rejectionReason"`
}

// toParsedLog applies the shared defaults (NOTE type, "now" start, 0.5 confidence)
// and type normalization to a decoded provider result
func (r providerResult) toParsedLog() ParsedLog {
	parsed := ParsedLog{
		Type:       NormalizeType(r.Type),
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Amount:     r.Amount,
		Unit:       r.Unit,
		Notes:      r.Notes,
		Confidence: DefaultConfidence,
	}
	if parsed.StartTime == "" {
		parsed.StartTime = "now"
	}
	if r.Confidence != nil {
		parsed.Confidence = *r.Confidence
	}
	return parsed
}
