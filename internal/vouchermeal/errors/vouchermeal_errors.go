package vouchermealerrors

import (
	"net/http"

	"github.com/gustavopprado/Sistema-RH/internal/shared/apperror"
)

var (
	ErrInvoiceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Voucher meal invoice not found",
		http.StatusNotFound,
	)
	ErrAllocationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Allocation not found for this employee",
		http.StatusNotFound,
	)
	ErrInvoiceClosed = apperror.New(
		apperror.CodeInvalidState,
		"Invoice is closed, reopen it before editing",
		http.StatusBadRequest,
	)
	ErrInvoiceAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"An invoice already exists for this month and branch",
		http.StatusConflict,
	)
	ErrReconciliationMismatch = apperror.New(
		apperror.CodeMismatch,
		"Cannot close: the lunch total does not match the sum of employee totals",
		http.StatusBadRequest,
	)
	ErrBranchExcluded = apperror.New(
		apperror.CodeInvalidInput,
		"Branch 2 does not take part in Vale Refeição",
		http.StatusBadRequest,
	)
	ErrEmployeeIneligible = apperror.New(
		apperror.CodeInvalidInput,
		"Employee is not eligible for Vale Refeição on this invoice",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid month, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidInvoiceID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid invoice ID",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid amount, expected a non-negative number with up to two decimals",
		http.StatusBadRequest,
	)
	ErrInvalidLineKind = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid invoice line kind",
		http.StatusBadRequest,
	)
	ErrInvalidLinePart = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid invoice part, expected SECOND_HALF or FIRST_HALF_NEXT",
		http.StatusBadRequest,
	)
	ErrDuplicateLine = apperror.New(
		apperror.CodeInvalidInput,
		"Invoice line appears more than once for the same part",
		http.StatusBadRequest,
	)
	ErrDuplicateAllocation = apperror.New(
		apperror.CodeInvalidInput,
		"Employee appears more than once in allocations",
		http.StatusBadRequest,
	)
)
