package service

import (
	"errors"

	"achihouse/internal/reservation"
)

var (
	// ErrDuplicateSubmission signals the same phone+date+time was
	// submitted again within the dedupe window.
	ErrDuplicateSubmission = errors.New("duplicate reservation submission")

	// ErrRateLimited signals the client exhausted its submission quota.
	ErrRateLimited = errors.New("too many submissions")

	// ErrInvalidStatus signals an unknown target status in a transition.
	ErrInvalidStatus = errors.New("invalid reservation status")

	// ErrUploadTooLarge signals the uploaded file exceeds the size limit.
	ErrUploadTooLarge = errors.New("upload exceeds size limit")

	// ErrInvalidRating signals a testimonial rating outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrEmptyQuote signals a testimonial without any quote text.
	ErrEmptyQuote = errors.New("quote must not be empty")
)

// ValidationError carries field-scoped messages for a rejected submission.
type ValidationError struct {
	Locale string
	Fields reservation.FieldErrors
}

func (e *ValidationError) Error() string {
	return reservation.Message(e.Locale, reservation.MsgFormError)
}
