package booking

import (
	"errors"
	"strings"
)

var (
	ErrSlotBeingBooked = errors.New("slot is currently being booked, please retry")
	ErrInvalidQuery    = errors.New("invalid availability query")
)

// ValidationError collects every user-facing problem with a submission so they
// can be shown together before anything is sent to the backend.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *ValidationError) add(msg string) {
	e.Messages = append(e.Messages, msg)
}

func (e *ValidationError) empty() bool {
	return len(e.Messages) == 0
}

// AsValidationError returns the ValidationError in err's chain, or nil.
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
