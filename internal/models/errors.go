package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidID         = errors.New("invalid ID format")
	ErrSeasonNotFound    = errors.New("season data not found")
	ErrNoSuccessfulRuns  = errors.New("No successful season analyses completed")
	ErrUnknownStrategy   = errors.New("unknown strategy")
	ErrNoUpcomingFixture = errors.New("no upcoming fixtures found")
)

// ErrorKind classifies soft engine failures
type ErrorKind string

const (
	KindMissingData         ErrorKind = "missing_data"
	KindMissingOdds         ErrorKind = "missing_odds"
	KindInvalidDate         ErrorKind = "invalid_date"
	KindInsufficientHistory ErrorKind = "insufficient_history"
	KindNoBets              ErrorKind = "no_bets"
	KindInternal            ErrorKind = "internal"
)

// EngineError is the error returned for expected data problems. Callers
// exclude the affected season, match or fixture and keep going.
type EngineError struct {
	Kind    ErrorKind
	Season  int
	Message string
	Err     error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError builds an EngineError for season with a formatted message
func NewEngineError(kind ErrorKind, season int, format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: kind, Season: season, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or KindInternal if err is not an EngineError
func KindOf(err error) ErrorKind {
	var engErr *EngineError
	if errors.As(err, &engErr) {
		return engErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an EngineError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var engErr *EngineError
	return errors.As(err, &engErr) && engErr.Kind == kind
}
