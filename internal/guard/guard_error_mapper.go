package guard

import (
	"errors"
	"strings"

	guarderrors "fieldwatch/internal/guard/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return guarderrors.ErrGuardNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_guard_phone":
				return guarderrors.ErrGuardPhoneAlreadyExists
			case "uq_guard_code":
				return guarderrors.ErrGuardCodeAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_guard_phone") {
		return guarderrors.ErrGuardPhoneAlreadyExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_guard_code") {
		return guarderrors.ErrGuardCodeAlreadyExists
	}

	return err
}
