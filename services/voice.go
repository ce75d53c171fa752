package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"night_shift_app_go/models"
	"night_shift_app_go/services/ai"

	"gorm.io/gorm"
)

// ErrUnrecognizedActivity is the single rejection signal for transcripts
// that do not describe a baby activity. It is an expected business outcome,
// not a system fault.
var ErrUnrecognizedActivity = errors.New("UNRECOGNIZED_ACTIVITY")

// babyKeywords is the fixed vocabulary a transcript must touch before the
// classifier is ever invoked
var babyKeywords = []string{
	"baby", "infant", "newborn", "little one", "little one's",
	// Feeding
	"feed", "ate", "drank", "nurse", "nursing", "bottle", "breast", "formula", "milk", "solid", "food", "oz", "ml",
	// Sleep
	"sleep", "slept", "nap", "napped", "bed", "bedtime", "asleep", "wake", "woke", "waking",
	// Diaper
	"diaper", "wet", "dirty", "poop", "poopy", "pee", "changed",
	// Misc
	"crying", "fussy", "happy", "gassy", "temperature", "fever", "medicine", "doctor", "appointment",
}

// ContainsBabyKeyword checks whether the transcript mentions any baby-care term
func ContainsBabyKeyword(transcript string) bool {
	lower := strings.ToLower(transcript)
	for _, keyword := range babyKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// minNoteWords is the word count below which a NOTE needs a "baby" mention
// to be accepted. Guards against keyword-stuffed gibberish classified as a
// generic note.
const minNoteWords = 3

// ValidateParsedLog applies the acceptance policy to a classifier result.
// Checks short-circuit at the first failure; confidence is advisory only
// and never used to reject.
func ValidateParsedLog(transcript string, parsed ai.ParsedLog) error {
	// Explicit classifier rejection
	if parsed.Type == ai.TypeReject {
		return ErrUnrecognizedActivity
	}

	if !models.IsValidLogType(parsed.Type) {
		return ErrUnrecognizedActivity
	}

	// NOTE plausibility: very short transcripts must at least mention the baby
	if parsed.Type == models.LogTypeNote {
		if wordCount(transcript) < minNoteWords && !mentionsBaby(transcript, parsed.Notes) {
			return ErrUnrecognizedActivity
		}
		return nil
	}

	// FEEDING, SLEEP, and DIAPER events must carry a positive amount
	if parsed.Amount == nil || *parsed.Amount <= 0 {
		return ErrUnrecognizedActivity
	}

	return nil
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func mentionsBaby(transcript string, notes *string) bool {
	if strings.Contains(strings.ToLower(transcript), "baby") {
		return true
	}
	return notes != nil && strings.Contains(strings.ToLower(*notes), "baby")
}

// VoiceInput is a single voice submission
type VoiceInput struct {
	BabyID     string `json:"babyId"`
	Transcript string `json:"transcript"`
}

// ParsedSummary is the classification summary returned for client display
type ParsedSummary struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// VoiceResult is the outcome of a successful ingestion
type VoiceResult struct {
	Log    *models.Log   `json:"log"`
	Parsed ParsedSummary `json:"parsed"`
}

// ProcessVoiceInput runs the voice-log ingestion pipeline: keyword pre-filter,
// classification, acceptance policy, time normalization, and persistence.
// Returns ErrUnrecognizedActivity when the transcript is not accepted as a
// baby activity; nothing is persisted in that case.
func ProcessVoiceInput(ctx context.Context, db *gorm.DB, parser ai.TranscriptParser, input VoiceInput) (*VoiceResult, error) {
	// The classifier is never invoked for transcripts with no baby-care terms
	if !ContainsBabyKeyword(input.Transcript) {
		return nil, ErrUnrecognizedActivity
	}

	parsed := parser.Parse(ctx, input.Transcript)

	if err := ValidateParsedLog(input.Transcript, parsed); err != nil {
		return nil, err
	}

	now := time.Now()
	startTime := ParseEventTime(parsed.StartTime, now)

	var endTime *time.Time
	if parsed.EndTime != nil {
		t := ParseEventTime(*parsed.EndTime, now)
		endTime = &t
	}

	log, err := CreateLog(db, CreateLogInput{
		BabyID:        input.BabyID,
		Type:          parsed.Type,
		StartTime:     startTime,
		EndTime:       endTime,
		Amount:        parsed.Amount,
		Unit:          parsed.Unit,
		RawTranscript: input.Transcript,
		Notes:         parsed.Notes,
	})
	if err != nil {
		return nil, err
	}

	return &VoiceResult{
		Log: log,
		Parsed: ParsedSummary{
			Type:       parsed.Type,
			Confidence: parsed.Confidence,
		},
	}, nil
}
