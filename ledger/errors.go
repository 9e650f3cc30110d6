package ledger

import (
	"net/http"

	"github.com/pkg/errors"
)

// Error is a business-rule failure. Its message is safe to show to users.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string { return e.Message }

func newError(status int, code, msg string) *Error {
	return &Error{Code: code, Message: msg, Status: status}
}

var (
	ErrAlreadyCheckedIn   = newError(http.StatusBadRequest, "ALREADY_CHECKED_IN", "Already checked in today")
	ErrAlreadyCheckedOut  = newError(http.StatusBadRequest, "ALREADY_CHECKED_OUT", "Already checked out today")
	ErrNoCheckIn          = newError(http.StatusBadRequest, "NO_CHECK_IN", "No check-in found for today")
	ErrBreakAlreadyOpen   = newError(http.StatusBadRequest, "BREAK_ALREADY_OPEN", "A break is already in progress")
	ErrNoOpenBreak        = newError(http.StatusBadRequest, "NO_OPEN_BREAK", "No break in progress")
	ErrNoRecordToday      = newError(http.StatusBadRequest, "NO_RECORD_TODAY", "No attendance record for today")
	ErrOverlappingRequest = newError(http.StatusBadRequest, "OVERLAPPING_REQUEST", "You already have a leave request for these dates")
	ErrNotFound           = newError(http.StatusNotFound, "NOT_FOUND", "Not found")
	ErrAlreadyProcessed   = newError(http.StatusBadRequest, "ALREADY_PROCESSED", "Leave request has already been processed")
	ErrCommentsRequired   = newError(http.StatusBadRequest, "COMMENTS_REQUIRED", "Comments are required when rejecting a request")
	ErrUnauthorized       = newError(http.StatusForbidden, "UNAUTHORIZED", "You are not allowed to perform this action")
	ErrNotPending         = newError(http.StatusBadRequest, "NOT_PENDING", "Only pending requests can be deleted")
	ErrInvalidLeaveType   = newError(http.StatusBadRequest, "INVALID_LEAVE_TYPE", "Unknown leave type")
	ErrInvalidDateRange   = newError(http.StatusBadRequest, "INVALID_DATE_RANGE", "End date must not be before start date")
	ErrStartDateInPast    = newError(http.StatusBadRequest, "START_DATE_IN_PAST", "Start date cannot be in the past")
)

// AsError unwraps err to a business error, if it is one.
func AsError(err error) (*Error, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
