package tracker

import "errors"

var (
	// ErrSessionAlreadyActive is returned by Start while a session is current
	ErrSessionAlreadyActive = errors.New("a workout session is already active")
	// ErrNoActiveSession is returned by Pause, Stop and RecordMeasurements
	// when there is no current session in the required status
	ErrNoActiveSession = errors.New("no active workout session")
	// ErrCannotResumeSession is returned by Resume unless the current session is paused
	ErrCannotResumeSession = errors.New("cannot resume workout session")
	// ErrInvalidWorkoutType is returned by Start for an unknown workout type
	ErrInvalidWorkoutType = errors.New("unknown workout type")
	// ErrInvalidMeasurement is returned when a measured value is negative
	ErrInvalidMeasurement = errors.New("measured values must not be negative")
)
