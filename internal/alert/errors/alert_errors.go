package alerterrors

import (
	"net/http"

	"fieldwatch/internal/shared/apperror"
)

var (
	ErrAlertNotFound = apperror.New(
		apperror.CodeNotFound,
		"Alert not found",
		http.StatusNotFound,
	)
	ErrAlertAlreadyResolved = apperror.New(
		apperror.CodeConflict,
		"Alert is already resolved",
		http.StatusConflict,
	)
	ErrInvalidAlertType = apperror.New(
		apperror.CodeInvalidInput,
		"Alert type must be one of offline, geofence, battery_low, panic",
		http.StatusBadRequest,
	)
	ErrInvalidSeverity = apperror.New(
		apperror.CodeInvalidInput,
		"Severity must be one of low, medium, high, critical",
		http.StatusBadRequest,
	)
)
