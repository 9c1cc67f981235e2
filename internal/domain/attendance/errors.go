package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out conflicts
	ErrAlreadyCheckedIn  = errors.New("already checked in for today")
	ErrAlreadyCheckedOut = errors.New("already checked out for today")
	ErrNoCheckInFound    = errors.New("no check-in found for today to check out")

	// General errors
	ErrRecordNotFound   = errors.New("attendance record not found")
	ErrDuplicateRecord  = errors.New("attendance record already exists for this day")
	ErrEmployeeNotFound = errors.New("employee not found")
)
