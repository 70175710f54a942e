package trackingerrors

import (
	"net/http"

	"fieldwatch/internal/shared/apperror"
)

var (
	ErrInvalidCoordinates = apperror.New(
		apperror.CodeInvalidInput,
		"Latitude must be within [-90, 90] and longitude within [-180, 180]",
		http.StatusBadRequest,
	)
	ErrGuardNotResolved = apperror.New(
		apperror.CodeForbidden,
		"No guard profile is linked to this account",
		http.StatusForbidden,
	)
	ErrLocationNotFound = apperror.New(
		apperror.CodeNotFound,
		"No location recorded for this guard",
		http.StatusNotFound,
	)
)
