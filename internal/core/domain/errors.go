package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
)

// Attendance errors
var (
	ErrAlreadyCheckedIn   = errors.New("already checked in for today")
	ErrAlreadyCheckedOut  = errors.New("already checked out")
	ErrNoOpenCheckIn      = errors.New("no open check-in found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// Leave / correction errors
var (
	ErrLeaveNotFound      = errors.New("leave request not found")
	ErrRequestNotFound    = errors.New("attendance request not found")
	ErrOverlappingRequest = errors.New("overlapping leave request exists")
	ErrAlreadyProcessed   = errors.New("request already processed")
	ErrInvalidDateRange   = errors.New("end date must not be before start date")
	ErrInvalidTimeRange   = errors.New("check-out must be after check-in")
	ErrCommentRequired    = errors.New("admin comment is required for rejection")
)
