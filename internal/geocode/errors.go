package geocode

import "errors"

var (
	// ErrUnavailable indicates the geocoding service could not be reached.
	ErrUnavailable = errors.New("geocoding service unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("geocoding request timed out")

	// ErrBadResponse indicates a non-200 status or an undecodable body.
	ErrBadResponse = errors.New("unexpected geocoding response")
)
