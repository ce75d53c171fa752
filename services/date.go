package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseDate parses a date string in typical formats (YYYY-MM-DD)
// It enforces strict checks but centralizes the logic for future format additions
func ParseDate(dateStr string) (time.Time, error) {
	// Primary format: ISO 8601 (standard for HTML5 date inputs)
	layout := "2006-01-02"

	parsedTime, err := time.Parse(layout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return parsedTime, nil
}

var (
	minutesAgoPattern = regexp.MustCompile(`(?i)(\d+)\s*minutes?\s*ago`)
	hoursAgoPattern   = regexp.MustCompile(`(?i)(\d+)\s*hours?\s*ago`)
)

// absoluteTimeLayouts are tried in order when the expression looks like a timestamp
var absoluteTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseEventTime converts a free-form time expression from the classifier
// ("now", an ISO timestamp, "10 minutes ago") into an absolute time.
// Unparseable input degrades to now; this never fails.
func ParseEventTime(expression string, now time.Time) time.Time {
	expr := strings.TrimSpace(expression)

	if strings.EqualFold(expr, "now") {
		return now
	}

	for _, layout := range absoluteTimeLayouts {
		if parsed, err := time.Parse(layout, expr); err == nil {
			return parsed
		}
	}

	if match := minutesAgoPattern.FindStringSubmatch(expr); match != nil {
		if minutes, err := strconv.Atoi(match[1]); err == nil {
			return now.Add(-time.Duration(minutes) * time.Minute)
		}
	}

	if match := hoursAgoPattern.FindStringSubmatch(expr); match != nil {
		if hours, err := strconv.Atoi(match[1]); err == nil {
			return now.Add(-time.Duration(hours) * time.Hour)
		}
	}

	return now
}
