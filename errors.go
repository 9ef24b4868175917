package bluechip

import "errors"

var (
	// ErrInvalidInput is returned by mutations given a malformed request (empty
	// ticker, negative quantity or price). The state is left unchanged.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexOutOfRange is returned when a position index does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrDataUnavailable marks a figure that could not be computed because a
	// price, a dividend or an exchange rate was not obtained.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrUndefinedRatio marks a percentage whose denominator is zero.
	ErrUndefinedRatio = errors.New("undefined ratio")
)
