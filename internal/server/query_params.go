package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/wasafinance/internal/period"
)

const dateOnlyLayout = "2006-01-02"

func parseOptionalInt(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseMonthQuery reads ?month=&year=. Missing values come back as zero;
// period.Resolve uses the current month when both are missing and the
// current year when only the year is.
func parseMonthQuery(c *gin.Context) (year int, month int, err error) {
	m, err := parseOptionalInt(c.Query("month"))
	if err != nil {
		return 0, 0, newValidationError("month", period.ErrInvalidMonth.Error(), "invalid month")
	}
	y, err := parseOptionalInt(c.Query("year"))
	if err != nil {
		return 0, 0, newValidationError("year", period.ErrInvalidYear.Error(), "invalid year")
	}
	if m != nil {
		month = *m
	}
	if y != nil {
		year = *y
	}
	return year, month, nil
}

func hasMonthQuery(c *gin.Context) bool {
	return strings.TrimSpace(c.Query("month")) != "" || strings.TrimSpace(c.Query("year")) != ""
}

func parseOptionalTime(value string, endOfDay bool, loc *time.Location) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	if parsed, err := time.ParseInLocation(dateOnlyLayout, trimmed, loc); err == nil {
		if endOfDay {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), loc)
		}
		return &parsed, nil
	}
	return nil, errors.New("invalid_time")
}
