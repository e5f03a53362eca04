package vouchermarketerrors

import (
	"net/http"

	"github.com/gustavopprado/Sistema-RH/internal/shared/apperror"
)

var (
	ErrInvoiceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Voucher market invoice not found",
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
		"An invoice already exists for this month",
		http.StatusConflict,
	)
	ErrReconciliationMismatch = apperror.New(
		apperror.CodeMismatch,
		"Cannot close: the sum of allocations does not match the invoice value",
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
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid allocation status, expected DEFAULT, FALTA, PROPORCIONAL or EXCLUIDO",
		http.StatusBadRequest,
	)
	ErrAmountRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Amount is required for PROPORCIONAL allocations",
		http.StatusBadRequest,
	)
	ErrDuplicateAllocation = apperror.New(
		apperror.CodeInvalidInput,
		"Employee appears more than once in allocations",
		http.StatusBadRequest,
	)
)
