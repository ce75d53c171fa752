package ai

import (
	"fmt"
	"strings"
	"time"
)

// buildInsightsInput renders a week of logs as the plain-text prompt body
// shared by both insight providers
func buildInsightsInput(babyName string, logs []LogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Baby: %s\n\nLogs:\n", babyName)

	for _, entry := range logs {
		fmt.Fprintf(&b, "- %s at %s", entry.Type, entry.StartTime.Format(time.RFC3339))
		if entry.Amount != nil {
			unit := ""
			if entry.Unit != nil {
				unit = *entry.Unit
			}
			fmt.Fprintf(&b, ", %g%s", *entry.Amount, unit)
		}
		if entry.Notes != nil && *entry.Notes != "" {
			fmt.Fprintf(&b, ": %s", *entry.Notes)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// fallbackInsights is returned when insight generation fails upstream
func fallbackInsights() WeeklyInsights {
	return WeeklyInsights{
		Summary:     "Unable to generate insights at this time.",
		Patterns:    []string{},
		Suggestions: []string{},
	}
}
