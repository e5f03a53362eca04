package employee

import (
	"errors"
	"strings"

	employeeerrors "github.com/gustavopprado/Sistema-RH/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation   = "23505"
	uqEmployeeMatricula = "uq_employees_matricula"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == uqEmployeeMatricula {
		return employeeerrors.ErrMatriculaAlreadyExists
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uqEmployeeMatricula) {
		return employeeerrors.ErrMatriculaAlreadyExists
	}

	return err
}
