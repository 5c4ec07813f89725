package widget

import (
	"errors"
	"fmt"
	"net/http"
)

// User-facing messages.
const (
	MsgSelectBothDates    = "Please select both check-in and check-out dates."
	MsgSelectValidDates   = "Please select valid dates."
	MsgCheckOutAfterIn    = "Check-out date must be after check-in date."
	MsgSelectGuests       = "Please select at least one guest."
	MsgSignInRequired     = "Please sign in to check availability."
	MsgInvalidRequest     = "Invalid request. Please check your dates and try again."
	MsgServerError        = "Server error. Please try again later."
	MsgAvailabilityFailed = "Failed to check availability. Please try again."
	MsgSyncFailed         = "Failed to sync user data. Please try again."
	MsgBookingFailed      = "Failed to process booking. Please try again."
	MsgCheckoutFailed     = "Failed to proceed to checkout. Please try again."
	MsgNoAvailableSuites  = "No Available Suites"
)

// ErrStaleSearch is returned for a search response that was superseded by a
// newer search on the same widget.
var ErrStaleSearch = errors.New("search superseded by a newer search")

// ErrBookingInProgress is returned when a room is selected while a previous
// selection on the same widget is still being processed.
var ErrBookingInProgress = errors.New("booking already in progress")

// ErrRoomNotFound means the room is not part of the current search results.
var ErrRoomNotFound = errors.New("room not in current search results")

// ErrNoGuestDialog means guest info was submitted with no dialog open.
var ErrNoGuestDialog = errors.New("guest info dialog is not open")

// ValidationError is an inline input error. No backend call was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotificationError carries a transient user-facing notification.
type NotificationError struct {
	Title   string
	Message string
	Err     error
}

func (e *NotificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *NotificationError) Unwrap() error { return e.Err }

// StatusError is a non-success response from the backend.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// availabilityMessage picks the notification text for a failed availability
// request.
func availabilityMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusUnauthorized:
			return MsgSignInRequired
		case http.StatusBadRequest:
			return MsgInvalidRequest
		case http.StatusInternalServerError:
			return MsgServerError
		}
		if se.Message != "" {
			return se.Message
		}
	}
	return MsgAvailabilityFailed
}
