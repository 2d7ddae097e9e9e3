package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/wrkout/internal/models"
)

var distanceRegex = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(km|m|mi)?$`)

// ParseTarget parses a goal target for metric.
// - duration: Go duration syntax ("30m", "1h30m"), or plain minutes ("45"); returns seconds
// - distance: kilometres ("5", "5km", "800m", "3mi"); returns kilometres
// - calories, workouts: positive numbers
func ParseTarget(metric models.GoalMetric, input string) (float64, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, fmt.Errorf("target is required")
	}

	var value float64
	switch metric {
	case models.MetricDuration:
		if minutes, err := strconv.ParseFloat(input, 64); err == nil {
			value = minutes * 60
			break
		}
		d, err := time.ParseDuration(input)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q. Use e.g. 30m or 1h30m", input)
		}
		value = d.Seconds()

	case models.MetricDistance:
		matches := distanceRegex.FindStringSubmatch(input)
		if matches == nil {
			return 0, fmt.Errorf("invalid distance %q. Use e.g. 5km, 800m or 3mi", input)
		}
		value, _ = strconv.ParseFloat(matches[1], 64)
		switch matches[2] {
		case "m":
			value /= 1000
		case "mi":
			value *= 1.609344
		}

	case models.MetricCalories, models.MetricWorkouts:
		n, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", input)
		}
		value = n

	default:
		return 0, fmt.Errorf("unknown goal metric %q", metric)
	}

	if value <= 0 {
		return 0, fmt.Errorf("target must be positive")
	}
	return value, nil
}

// ParseMetric parses a goal metric name, accepting a few aliases
func ParseMetric(input string) (models.GoalMetric, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "workouts", "workout", "sessions", "count":
		return models.MetricWorkouts, nil
	case "duration", "time", "minutes":
		return models.MetricDuration, nil
	case "calories", "kcal", "cal":
		return models.MetricCalories, nil
	case "distance", "km":
		return models.MetricDistance, nil
	}
	return "", fmt.Errorf("unknown metric %q. Use: workouts, duration, calories, distance", input)
}
