package utils

import (
	"fmt"
	"strings"
	"time"
)

type DateFormat string

const (
	FormatISO8601     DateFormat = "2006-01-02T15:04:05Z07:00"
	FormatISO8601Date DateFormat = "2006-01-02"
	FormatEuropean    DateFormat = "02.01.2006"
	FormatDashDate    DateFormat = "02-01-2006"
)

// formInputFormats lists the formats accepted from form input, tried in
// order. ISO dates are what the date pickers submit; the dotted European
// form shows up in manual entry.
var formInputFormats = []DateFormat{
	FormatISO8601Date,
	FormatISO8601,
	FormatEuropean,
	FormatDashDate,
}

// ParseDate parses a date submitted through a form into a time.Time.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}

	for _, format := range formInputFormats {
		if parsed, err := time.Parse(string(format), trimmed); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date value %q", value)
}

// FormatDate renders a time for form redisplay.
func FormatDate(t time.Time) string {
	return t.Format(string(FormatISO8601Date))
}
