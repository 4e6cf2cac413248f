package booking

import (
	"errors"
	"fmt"

	"deskhub/models"
)

// Error codes for the booking domain.
const (
	CodeValidation          = "validationError"
	CodeConflict            = "conflictError"
	CodeTransport           = "transportError"
	CodeNotFound            = "notFound"
	CodeInvalidState        = "invalidState"
	CodeCheckInWindowClosed = "checkInWindowClosed"
	CodeTooFarAway          = "tooFarAway"
	CodeLocationRequired    = "locationRequired"
	CodeIndexSync           = "indexSyncWarning"
)

// BookingError is the typed failure every booking operation returns.
// Blocking and DistanceKm are populated for conflict and proximity
// rejections respectively.
type BookingError struct {
	Code       string
	Message    string
	Blocking   *models.Reservation
	DistanceKm float64
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &BookingError{Code: CodeValidation, Message: msg}
}

func NewConflictError(msg string, blocking *models.Reservation) error {
	return &BookingError{Code: CodeConflict, Message: msg, Blocking: blocking}
}

func NewTransportError(op string, err error) error {
	return &BookingError{Code: CodeTransport, Message: fmt.Sprintf("%s: %v", op, err)}
}

func NewNotFoundError(msg string) error {
	return &BookingError{Code: CodeNotFound, Message: msg}
}

func NewInvalidStateError(msg string) error {
	return &BookingError{Code: CodeInvalidState, Message: msg}
}

func NewCheckInWindowClosedError(msg string) error {
	return &BookingError{Code: CodeCheckInWindowClosed, Message: msg}
}

func NewTooFarAwayError(distanceKm, maxKm float64) error {
	return &BookingError{
		Code:       CodeTooFarAway,
		Message:    fmt.Sprintf("you are %.2f km away; check-in requires being within %.2f km", distanceKm, maxKm),
		DistanceKm: distanceKm,
	}
}

func NewLocationRequiredError() error {
	return &BookingError{Code: CodeLocationRequired, Message: "a current position is required to check in; enable location services and retry"}
}

func NewIndexSyncWarning(userID string, err error) error {
	return &BookingError{Code: CodeIndexSync, Message: fmt.Sprintf("reservation saved, but updating the reservation index for user %s failed: %v", userID, err)}
}

// ErrorCode extracts the booking error code, or empty for foreign errors.
func ErrorCode(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsConflict reports whether err is a booking conflict.
func IsConflict(err error) bool { return ErrorCode(err) == CodeConflict }

// IsIndexSyncWarning reports whether err is the non-fatal denormalized
// index warning: the authoritative write succeeded.
func IsIndexSyncWarning(err error) bool { return ErrorCode(err) == CodeIndexSync }
