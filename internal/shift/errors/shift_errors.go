package shifterrors

import (
	"net/http"

	"fieldwatch/internal/shared/apperror"
)

var (
	ErrShiftNotFound = apperror.New(
		apperror.CodeNotFound,
		"shift not found",
		http.StatusNotFound,
	)
	ErrInvalidOrgID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid organization id",
		http.StatusBadRequest,
	)
	ErrInvalidShiftID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid shift id",
		http.StatusBadRequest,
	)
	ErrInvalidTimeOfDay = apperror.New(
		apperror.CodeInvalidInput,
		"shift times must use the HH:MM 24-hour format",
		http.StatusBadRequest,
	)
)
