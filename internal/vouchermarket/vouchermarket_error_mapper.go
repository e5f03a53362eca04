package vouchermarket

import (
	"errors"

	vouchermarketerrors "github.com/gustavopprado/Sistema-RH/internal/vouchermarket/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation      = "23505"
	uqInvoiceCompetence    = "uq_voucher_market_invoices_competence"
	uqAllocationInvoiceEmp = "uq_voucher_market_allocations_invoice_employee"
)

func isCompetenceConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == uqInvoiceCompetence
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return vouchermarketerrors.ErrInvoiceNotFound
	}

	if isCompetenceConflict(err) {
		return vouchermarketerrors.ErrInvoiceAlreadyExists
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == uqAllocationInvoiceEmp {
		return vouchermarketerrors.ErrDuplicateAllocation
	}

	return err
}

func mapAllocationError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return vouchermarketerrors.ErrAllocationNotFound
	}
	return mapRepositoryError(err)
}
