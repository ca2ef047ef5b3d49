package service

import "errors"

var (
	// ErrFinalized is returned when modifying a finalized itinerary.
	ErrFinalized = errors.New("itinerary is finalized")

	// ErrIncomplete is returned by Finalize when the itinerary has blocking
	// validation errors or has not reached the review step.
	ErrIncomplete = errors.New("itinerary is not ready to finalize")

	// ErrInvalidInput wraps field-level validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
