package domain

import "errors"

// Validation errors are detected locally before any call to the reservation
// service. The user corrects the input and retries.
var (
	ErrDurationTooShort      = errors.New("DURATION_TOO_SHORT")
	ErrTooSoon               = errors.New("TOO_SOON")
	ErrBeyondHorizon         = errors.New("BEYOND_BOOKING_HORIZON")
	ErrOutsideOperatingHours = errors.New("OUTSIDE_OPERATING_HOURS")
	ErrVoucherNotApplicable  = errors.New("VOUCHER_NOT_APPLICABLE")
	ErrInvalidRule           = errors.New("INVALID_RECURRENCE_RULE")
	ErrInvalidQuantity       = errors.New("INVALID_QUANTITY")
	ErrUnknownService        = errors.New("UNKNOWN_SERVICE")
	ErrIncompleteSlots       = errors.New("INCOMPLETE_SLOTS")
	ErrInvalidPaymentMethod  = errors.New("INVALID_PAYMENT_METHOD")
)

// Transport errors wrap a failure reported by the reservation service.
var (
	ErrCreationFailed = errors.New("CREATION_FAILED")
	ErrUpdateFailed   = errors.New("UPDATE_FAILED")
	ErrDeleteFailed   = errors.New("DELETE_FAILED")
	ErrPaymentFailed  = errors.New("PAYMENT_FAILED")
)

var (
	ErrInvalidPhase = errors.New("INVALID_PHASE")
	ErrNoDraft      = errors.New("NO_DRAFT")
	ErrNotFound     = errors.New("NOT_FOUND")
)
