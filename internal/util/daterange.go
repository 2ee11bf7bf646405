package util

import (
	"strings"
	"time"
)

// IsWithinDateRange checks a task timestamp against optional yyyy-mm-dd
// bounds. Empty bounds do not filter.
func IsWithinDateRange(taskDateTime string, fromDate, toDate string) bool {
	if fromDate == "" && toDate == "" {
		return true
	}

	// Timestamps are RFC 3339; only the date part matters here.
	taskDate := strings.SplitN(taskDateTime, "T", 2)[0]
	taskTime, err := time.Parse("2006-01-02", taskDate)
	if err != nil {
		return false
	}

	if fromDate != "" {
		fromTime, err := time.Parse("2006-01-02", fromDate)
		if err == nil && taskTime.Before(fromTime) {
			return false
		}
	}

	if toDate != "" {
		toTime, err := time.Parse("2006-01-02", toDate)
		if err == nil && taskTime.After(toTime) {
			return false
		}
	}

	return true
}
