package vouchermeal

import (
	"errors"

	vouchermealerrors "github.com/gustavopprado/Sistema-RH/internal/vouchermeal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation         = "23505"
	uqInvoiceCompetenceBranch = "uq_voucher_meal_invoices_competence_branch"
	uqLineInvoiceKindPart     = "uq_voucher_meal_lines_invoice_kind_part"
	uqAllocationInvoiceEmp    = "uq_voucher_meal_allocations_invoice_employee"
)

func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}

func isCompetenceConflict(err error) bool {
	return uniqueViolation(err, uqInvoiceCompetenceBranch)
}

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return vouchermealerrors.ErrInvoiceNotFound
	case isCompetenceConflict(err):
		return vouchermealerrors.ErrInvoiceAlreadyExists
	case uniqueViolation(err, uqLineInvoiceKindPart):
		return vouchermealerrors.ErrDuplicateLine
	case uniqueViolation(err, uqAllocationInvoiceEmp):
		return vouchermealerrors.ErrDuplicateAllocation
	default:
		return err
	}
}

func mapAllocationError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return vouchermealerrors.ErrAllocationNotFound
	}
	return mapRepositoryError(err)
}
