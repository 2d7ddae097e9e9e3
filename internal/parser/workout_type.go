package parser

import (
	"fmt"
	"strings"

	"github.com/balkashynov/wrkout/internal/models"
)

var workoutAliases = map[string]models.WorkoutType{
	"run":               models.WorkoutRunning,
	"jog":               models.WorkoutRunning,
	"bike":              models.WorkoutCycling,
	"cycle":             models.WorkoutCycling,
	"ride":              models.WorkoutCycling,
	"swim":              models.WorkoutSwimming,
	"weights":           models.WorkoutStrength,
	"lifting":           models.WorkoutStrength,
	"weight lifting":    models.WorkoutStrength,
	"strength training": models.WorkoutStrength,
	"walk":              models.WorkoutWalking,
	"hike":              models.WorkoutWalking,
}

// ParseWorkoutType parses a workout type name or alias, case-insensitively
func ParseWorkoutType(input string) (models.WorkoutType, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(input)), " ")

	if t := models.WorkoutType(normalized); t.Valid() {
		return t, nil
	}
	if t, ok := workoutAliases[normalized]; ok {
		return t, nil
	}

	names := make([]string, 0, len(models.AllWorkoutTypes))
	for _, t := range models.AllWorkoutTypes {
		names = append(names, string(t))
	}
	return "", fmt.Errorf("unknown workout type %q. Use one of: %s", input, strings.Join(names, ", "))
}
