package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"night_shift_app_go/config"
	"night_shift_app_go/db"
	"night_shift_app_go/middleware"
	"night_shift_app_go/services"
	"night_shift_app_go/services/ai"

	"github.com/labstack/echo/v4"
)

// newInsightGenerator is swapped out in tests
var newInsightGenerator = func(cfg *config.Config) ai.InsightGenerator {
	return ai.NewInsightGenerator(cfg)
}

// GetInsightsHandler returns the AI weekly summary for a baby. The optional
// week query param uses ISO week format, e.g. "2024-W05"; the current week
// is the default.
func GetInsightsHandler(c echo.Context) error {
	babyID := c.QueryParam("babyId")
	if babyID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Missing required query param: babyId",
		})
	}

	if !middleware.CanAccessBaby(c, babyID) {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	weekOffset := parseWeekOffset(c.QueryParam("week"), time.Now())

	cfg := c.Get("config").(*config.Config)
	generator := newInsightGenerator(cfg)

	insights, err := services.GetWeeklyInsights(c.Request().Context(), db.DB, generator, babyID, weekOffset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to generate insights",
		})
	}

	return c.JSON(http.StatusOK, insights)
}

// parseWeekOffset converts an ISO week string ("2024-W05") into an offset
// from the current week. Weeks in other years, or malformed input, fall back
// to the current week.
func parseWeekOffset(week string, now time.Time) int {
	if week == "" {
		return 0
	}

	parts := strings.SplitN(week, "-W", 2)
	if len(parts) != 2 {
		return 0
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	weekNum, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}

	currentYear, currentWeek := now.ISOWeek()
	if year != currentYear {
		return 0
	}

	return currentWeek - weekNum
}
