package services

import (
	"context"
	"fmt"

	"night_shift_app_go/models"
	"night_shift_app_go/services/ai"

	"gorm.io/gorm"
)

// GetWeeklyInsights builds the AI weekly summary for a baby. A weekOffset of
// zero is the current week; positive values look further back.
func GetWeeklyInsights(ctx context.Context, db *gorm.DB, generator ai.InsightGenerator, babyID string, weekOffset int) (*ai.WeeklyInsights, error) {
	var baby models.Baby
	if err := db.First(&baby, "id = ?", babyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &ai.WeeklyInsights{
				Summary:     "Baby not found",
				Patterns:    []string{},
				Suggestions: []string{},
			}, nil
		}
		return nil, fmt.Errorf("failed to fetch baby: %w", err)
	}

	logs, err := GetWeeklyLogs(db, babyID, weekOffset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weekly logs: %w", err)
	}

	if len(logs) == 0 {
		return &ai.WeeklyInsights{
			Summary:     fmt.Sprintf("No logs recorded for %s this week.", baby.Name),
			Patterns:    []string{"No data available to analyze"},
			Suggestions: []string{"Start logging to get personalized insights"},
		}, nil
	}

	entries := make([]ai.LogEntry, 0, len(logs))
	for _, log := range logs {
		entries = append(entries, ai.LogEntry{
			Type:      log.Type,
			StartTime: log.StartTime,
			Amount:    log.Amount,
			Unit:      log.Unit,
			Notes:     log.Notes,
		})
	}

	insights := generator.Generate(ctx, baby.Name, entries)
	return &insights, nil
}
