package handlers

import (
	"net/http"
	"time"

	"night_shift_app_go/db"
	"night_shift_app_go/middleware"
	"night_shift_app_go/models"
	"night_shift_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// createLogRequest is the JSON body for POST /api/logs
type createLogRequest struct {
	BabyID        string             `json:"babyId"`
	Type          string             `json:"type"`
	StartTime     string             `json:"startTime"` // RFC3339
	EndTime       string             `json:"endTime"`
	Amount        *float64           `json:"amount"`
	Unit          *string            `json:"unit"`
	RawTranscript string             `json:"rawTranscript"`
	Notes         *string            `json:"notes"`
	Metadata      models.MetadataMap `json:"metadata"`
}

// GetLogsHandler lists a baby's logs, optionally bounded by a time range
func GetLogsHandler(c echo.Context) error {
	babyID := c.QueryParam("babyId")
	if babyID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Missing required query param: babyId",
		})
	}

	if !middleware.CanAccessBaby(c, babyID) {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	var startDate, endDate *time.Time
	if raw := c.QueryParam("startDate"); raw != "" {
		t, err := parseTimestamp(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid startDate",
			})
		}
		startDate = &t
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		t, err := parseTimestamp(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid endDate",
			})
		}
		endDate = &t
	}

	logs, err := services.GetLogsByBaby(db.DB, babyID, startDate, endDate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(http.StatusOK, logs)
}

// CreateLogHandler creates a log entry directly (non-voice path)
func CreateLogHandler(c echo.Context) error {
	var req createLogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if req.BabyID == "" || req.Type == "" || req.StartTime == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Missing required fields: babyId, type, startTime",
		})
	}

	if !middleware.CanAccessBaby(c, req.BabyID) {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	startTime, err := parseTimestamp(req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid startTime",
		})
	}

	var endTime *time.Time
	if req.EndTime != "" {
		t, err := parseTimestamp(req.EndTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid endTime",
			})
		}
		endTime = &t
	}

	log, err := services.CreateLog(db.DB, services.CreateLogInput{
		BabyID:        req.BabyID,
		Type:          req.Type,
		StartTime:     startTime,
		EndTime:       endTime,
		Amount:        req.Amount,
		Unit:          req.Unit,
		RawTranscript: req.RawTranscript,
		Notes:         req.Notes,
		Metadata:      req.Metadata,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, log)
}

// GetLogHandler returns a single log entry
func GetLogHandler(c echo.Context) error {
	log, httpErr := fetchAccessibleLog(c)
	if httpErr != nil {
		return httpErr
	}
	return c.JSON(http.StatusOK, log)
}

// updateLogRequest is the JSON body for PUT /api/logs/:id
type updateLogRequest struct {
	Type      *string            `json:"type"`
	StartTime *string            `json:"startTime"`
	EndTime   *string            `json:"endTime"`
	Amount    *float64           `json:"amount"`
	Unit      *string            `json:"unit"`
	Notes     *string            `json:"notes"`
	Metadata  models.MetadataMap `json:"metadata"`
}

// UpdateLogHandler applies a partial update to a log entry
func UpdateLogHandler(c echo.Context) error {
	log, httpErr := fetchAccessibleLog(c)
	if httpErr != nil {
		return httpErr
	}

	var req updateLogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	input := services.UpdateLogInput{
		Type:     req.Type,
		Amount:   req.Amount,
		Unit:     req.Unit,
		Notes:    req.Notes,
		Metadata: req.Metadata,
	}
	if req.StartTime != nil {
		t, err := parseTimestamp(*req.StartTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid startTime",
			})
		}
		input.StartTime = &t
	}
	if req.EndTime != nil {
		t, err := parseTimestamp(*req.EndTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid endTime",
			})
		}
		input.EndTime = &t
	}

	updated, err := services.UpdateLog(db.DB, log.ID, input)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteLogHandler removes a log entry
func DeleteLogHandler(c echo.Context) error {
	log, httpErr := fetchAccessibleLog(c)
	if httpErr != nil {
		return httpErr
	}

	if err := services.DeleteLog(db.DB, log.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to delete log",
		})
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// fetchAccessibleLog loads the :id log and verifies the current user can
// access its baby
func fetchAccessibleLog(c echo.Context) (*models.Log, error) {
	id := c.Param("id")

	log, err := services.GetLog(db.DB, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Log not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch log")
	}

	if !middleware.CanAccessBaby(c, log.BabyID) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	return log, nil
}

// parseTimestamp accepts RFC3339 timestamps and plain dates
func parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return services.ParseDate(raw)
}
