package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"night_shift_app_go/config"
	"night_shift_app_go/models"
	"night_shift_app_go/services"
	"night_shift_app_go/services/ai"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// stubParser stands in for the AI provider in handler tests
type stubParser struct {
	result ai.ParsedLog
	calls  int
}

func (s *stubParser) Parse(ctx context.Context, transcript string) ai.ParsedLog {
	s.calls++
	return s.result
}

func swapParser(t *testing.T, parser ai.TranscriptParser) {
	original := newTranscriptParser
	newTranscriptParser = func(cfg *config.Config) ai.TranscriptParser { return parser }
	t.Cleanup(func() { newTranscriptParser = original })
}

func TestProcessVoiceHandlerCreatesLog(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "parent@example.com")
	baby := createTestBaby(t, database, user.ID)

	amount := 4.0
	unit := "oz"
	parser := &stubParser{result: ai.ParsedLog{
		Type:       models.LogTypeFeeding,
		StartTime:  "now",
		Amount:     &amount,
		Unit:       &unit,
		Confidence: 0.9,
	}}
	swapParser(t, parser)

	body := fmt.Sprintf(`{"babyId": %q, "transcript": "Baby drank 4 oz of formula"}`, baby.ID)
	c, rec := newJSONContext(t, http.MethodPost, "/api/voice", body)
	signIn(c, user)

	assert.NoError(t, ProcessVoiceHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, parser.calls)

	var result services.VoiceResult
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, models.LogTypeFeeding, result.Log.Type)
	assert.Equal(t, 4.0, *result.Log.Amount)
	assert.Equal(t, 0.9, result.Parsed.Confidence)

	var count int64
	database.Model(&models.Log{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestProcessVoiceHandlerKeywordRejection(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "parent@example.com")
	baby := createTestBaby(t, database, user.ID)

	parser := &stubParser{}
	swapParser(t, parser)

	body := fmt.Sprintf(`{"babyId": %q, "transcript": "xyz abc 123"}`, baby.ID)
	c, rec := newJSONContext(t, http.MethodPost, "/api/voice", body)
	signIn(c, user)

	assert.NoError(t, ProcessVoiceHandler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNRECOGNIZED_ACTIVITY")
	// The provider is never called for transcripts with no baby keyword
	assert.Equal(t, 0, parser.calls)

	var count int64
	database.Model(&models.Log{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestProcessVoiceHandlerRejectedClassification(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "parent@example.com")
	baby := createTestBaby(t, database, user.ID)

	swapParser(t, &stubParser{result: ai.ParsedLog{Type: ai.TypeReject, StartTime: "now"}})

	body := fmt.Sprintf(`{"babyId": %q, "transcript": "baby something incoherent"}`, baby.ID)
	c, rec := newJSONContext(t, http.MethodPost, "/api/voice", body)
	signIn(c, user)

	assert.NoError(t, ProcessVoiceHandler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNRECOGNIZED_ACTIVITY")
}

func TestProcessVoiceHandlerMissingFields(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "parent@example.com")

	c, rec := newJSONContext(t, http.MethodPost, "/api/voice", `{"transcript": ""}`)
	signIn(c, user)

	assert.NoError(t, ProcessVoiceHandler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required fields")
}

func TestProcessVoiceHandlerAccessDenied(t *testing.T) {
	database := setupTestDB(t)
	owner := createTestUser(t, database, "owner@example.com")
	stranger := createTestUser(t, database, "stranger@example.com")
	baby := createTestBaby(t, database, owner.ID)

	parser := &stubParser{}
	swapParser(t, parser)

	body := fmt.Sprintf(`{"babyId": %q, "transcript": "Baby drank 4 oz"}`, baby.ID)
	c, _ := newJSONContext(t, http.MethodPost, "/api/voice", body)
	signIn(c, stranger)

	err := ProcessVoiceHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
	assert.Equal(t, 0, parser.calls)
}
