package handlers

import (
	"errors"
	"net/http"

	"night_shift_app_go/config"
	"night_shift_app_go/db"
	"night_shift_app_go/middleware"
	"night_shift_app_go/services"
	"night_shift_app_go/services/ai"

	"github.com/labstack/echo/v4"
)

// unrecognizedActivityMessage is the client-facing rejection message
const unrecognizedActivityMessage = `UNRECOGNIZED_ACTIVITY: Could not recognize this as a baby activity. Try saying things like "Baby ate 4 oz" or "Baby slept for 2 hours".`

// newTranscriptParser is swapped out in tests
var newTranscriptParser = func(cfg *config.Config) ai.TranscriptParser {
	return ai.NewTranscriptParser(cfg)
}

// ProcessVoiceHandler ingests a voice transcript as a log entry
func ProcessVoiceHandler(c echo.Context) error {
	var input services.VoiceInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if input.Transcript == "" || input.BabyID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Missing required fields: transcript and babyId",
		})
	}

	if !middleware.CanAccessBaby(c, input.BabyID) {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	cfg := c.Get("config").(*config.Config)
	parser := newTranscriptParser(cfg)

	result, err := services.ProcessVoiceInput(c.Request().Context(), db.DB, parser, input)
	if err != nil {
		if errors.Is(err, services.ErrUnrecognizedActivity) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": unrecognizedActivityMessage,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to process voice input",
		})
	}

	return c.JSON(http.StatusCreated, result)
}
