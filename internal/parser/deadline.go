package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateRegex     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	relativeRegex = regexp.MustCompile(`^(\d+)\s*(hour|hours|h|day|days|d|week|weeks|w)$`)
)

// ParseDeadline parses a goal deadline relative to now.
// Supported formats:
// - dd/mm/yyyy (e.g., "15/12/2025"), end of that day
// - X days (e.g., "3 days", "3d"), end of the target day
// - X hours (e.g., "24 hours", "24h")
// - X weeks (e.g., "2 weeks", "2w"), end of the target day
//
// An empty input means no deadline.
func ParseDeadline(input string, now time.Time) (*time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return nil, nil
	}

	if deadline, err := parseDate(input, now.Location()); err == nil {
		return deadline, nil
	} else if dateRegex.MatchString(input) {
		return nil, err
	}

	if matches := relativeRegex.FindStringSubmatch(input); matches != nil {
		return parseRelative(matches[1], matches[2], now)
	}

	return nil, fmt.Errorf("invalid deadline format. Use: dd/mm/yyyy, X days, X hours, or X weeks")
}

// parseDate parses dd/mm/yyyy format
func parseDate(input string, loc *time.Location) (*time.Time, error) {
	matches := dateRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if day < 1 || day > 31 {
		return nil, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 2024 || year > 2100 {
		return nil, fmt.Errorf("year must be between 2024 and 2100")
	}

	deadline := time.Date(year, time.Month(month), day, 23, 59, 59, 0, loc)

	// rejects 31/02 and friends
	if deadline.Day() != day || deadline.Month() != time.Month(month) {
		return nil, fmt.Errorf("invalid date")
	}

	return &deadline, nil
}

func parseRelative(amountStr, unit string, now time.Time) (*time.Time, error) {
	amount, err := strconv.Atoi(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid number")
	}

	endOfDay := func(days int) *time.Time {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		t := today.AddDate(0, 0, days).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		return &t
	}

	switch unit {
	case "hour", "hours", "h":
		if amount < 1 || amount > 8760 {
			return nil, fmt.Errorf("hours must be between 1 and 8760")
		}
		t := now.Add(time.Duration(amount) * time.Hour)
		return &t, nil
	case "day", "days", "d":
		if amount < 1 || amount > 365 {
			return nil, fmt.Errorf("days must be between 1 and 365")
		}
		return endOfDay(amount), nil
	case "week", "weeks", "w":
		if amount < 1 || amount > 52 {
			return nil, fmt.Errorf("weeks must be between 1 and 52")
		}
		return endOfDay(amount * 7), nil
	default:
		return nil, fmt.Errorf("unsupported time unit")
	}
}

// FormatDeadline formats a deadline for display relative to now
func FormatDeadline(deadline *time.Time, now time.Time) string {
	if deadline == nil {
		return ""
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueDay := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, deadline.Location())
	daysDiff := int(dueDay.Sub(today).Hours() / 24)
	dateStr := deadline.Format("02/01/2006")

	switch {
	case deadline.Before(now):
		return fmt.Sprintf("expired (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("ends today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("ends tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("ends %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("ends %s", dateStr)
	}
}
