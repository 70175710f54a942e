package guarderrors

import (
	"net/http"

	"fieldwatch/internal/shared/apperror"
)

var (
	ErrGuardNotFound = apperror.New(
		apperror.CodeNotFound,
		"Guard not found",
		http.StatusNotFound,
	)
	ErrGuardPhoneAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Guard with the same phone already exists in this organization",
		http.StatusConflict,
	)
	ErrGuardCodeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Guard code already exists in this organization",
		http.StatusConflict,
	)
	ErrInvalidGuardID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid guard ID",
		http.StatusBadRequest,
	)
	ErrInvalidGeofence = apperror.New(
		apperror.CodeInvalidInput,
		"Geofence requires valid site coordinates and a positive radius",
		http.StatusBadRequest,
	)
	ErrShiftNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Assigned shift does not exist in this organization",
		http.StatusBadRequest,
	)
)
