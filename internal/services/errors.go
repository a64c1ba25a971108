// Package services defines the business logic of the health assistant: the
// daily session manager, the chat protocol, follow-up derivation, report
// assembly and admin maintenance. This file centralizes service-level error
// values so handlers can map them to HTTP results consistently.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrQuestionNotFound indicates the question does not exist or belongs to
	// another user.
	ErrQuestionNotFound = errors.New("question not found for user")

	// ErrNoMoreQuestions is the normal end of a day's session: every question
	// has an answer. It is not a failure.
	ErrNoMoreQuestions = errors.New("no more questions for today")

	// ErrGenerationFailed wraps generator failures (call failed or output
	// unusable). Nothing is committed when it is returned.
	ErrGenerationFailed = errors.New("question generation failed")

	// ErrInvalidInput is returned for malformed dates, inverted ranges and
	// missing required text.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoReportData indicates the requested range holds no questions.
	ErrNoReportData = errors.New("no questions found in date range")

	// ErrLockTimeout is returned when the per-day generation lock could not
	// be acquired in time.
	ErrLockTimeout = errors.New("timed out waiting for generation lock")
)

// generationError tags err as a generation failure while keeping the
// generator's own sentinel reachable through errors.Is.
func generationError(err error) error {
	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}

// invalidInput tags a validation message.
func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
