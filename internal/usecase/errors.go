package usecase

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them to status codes; anything else is internal.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error carries a message that is safe to show to the client.
type Error struct {
	kind   error
	msg    string
	fields map[string]string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Message is the client-facing text.
func (e *Error) Message() string { return e.msg }

// Fields holds per-field validation messages, if any.
func (e *Error) Fields() map[string]string { return e.fields }

func (e *Error) Is(target error) bool { return target == e.kind }

func (e *Error) Unwrap() error { return e.cause }

func NewValidationError(msg string) error {
	return &Error{kind: ErrValidation, msg: msg}
}

func validationErrorf(format string, args ...any) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func NewFieldsError(fields map[string]string) error {
	return &Error{kind: ErrValidation, msg: "Validation failed", fields: fields}
}

func NewNotFoundError(msg string) error {
	return &Error{kind: ErrNotFound, msg: msg}
}

// DuplicateBookingError reports that the guest already holds an active
// booking for the requested slot.
type DuplicateBookingError struct {
	ExistingBookingID string
}

func (e *DuplicateBookingError) Error() string {
	return fmt.Sprintf("active booking %s already exists for this slot", e.ExistingBookingID)
}

func (e *DuplicateBookingError) Is(target error) bool { return target == ErrConflict }

// Client-facing messages.
const (
	MsgGuestInfoRequired    = "Guest information (name, email) is required"
	MsgExperienceIDRequired = "Experience ID is required"
	MsgSlotRequired         = "Slot information (date and time) is required"
	MsgInvalidGuestCount    = "Number of guests must be at least 1"
	MsgInvalidSlotDate      = "Slot date must be a valid date"
	MsgExperienceNotFound   = "Experience not found"
	MsgBookingNotFound      = "Booking not found"
	MsgDuplicateBooking     = "You already have a booking for this experience at the selected time slot"
	MsgInvalidPromoCode     = "Invalid promo code"
	MsgPromoCodeRequired    = "Promo code is required"
	MsgOrderValueRequired   = "Valid order value is required"
	msgMinimumOrderValueFmt = "Minimum order value of ₹%s required for this promo code"
)
