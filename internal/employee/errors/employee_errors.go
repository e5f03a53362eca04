package employeeerrors

import (
	"net/http"

	"github.com/gustavopprado/Sistema-RH/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrMatriculaAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Matricula already exists",
		http.StatusConflict,
	)
	ErrMatriculaImmutable = apperror.New(
		apperror.CodeInvalidInput,
		"Matricula cannot be changed after creation",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date, expected YYYY-MM-DD or YYYYMMDD",
		http.StatusBadRequest,
	)
	ErrInvalidName = apperror.New(
		apperror.CodeInvalidInput,
		"Name cannot be blank",
		http.StatusBadRequest,
	)
	ErrTerminationBeforeAdmission = apperror.New(
		apperror.CodeInvalidInput,
		"Termination date cannot be before admission date",
		http.StatusBadRequest,
	)
)
