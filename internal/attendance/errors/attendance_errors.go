package attendanceerrors

import (
	"net/http"

	"fieldwatch/internal/shared/apperror"
)

var (
	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance session not found",
		http.StatusNotFound,
	)
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeConflict,
		"Guard already has an open attendance session",
		http.StatusConflict,
	)
	ErrSessionAlreadyClosed = apperror.New(
		apperror.CodeConflict,
		"Attendance session is already closed",
		http.StatusConflict,
	)
	ErrNoOpenSession = apperror.New(
		apperror.CodeNotFound,
		"No open attendance session for this guard",
		http.StatusNotFound,
	)
	ErrGuardNotResolved = apperror.New(
		apperror.CodeForbidden,
		"No guard profile is linked to this account",
		http.StatusForbidden,
	)
	ErrInvalidCoordinates = apperror.New(
		apperror.CodeInvalidInput,
		"Latitude must be within [-90, 90] and longitude within [-180, 180]",
		http.StatusBadRequest,
	)
)
