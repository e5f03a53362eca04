// Package domain holds the rules shared by both voucher programs: the invoice lifecycle,
// the fixed split ratios and the close-time reconciliation.
package domain

import (
	"github.com/gustavopprado/Sistema-RH/internal/shared/money"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	StatusDraft  InvoiceStatus = "DRAFT"
	StatusClosed InvoiceStatus = "CLOSED"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusClosed:
		return true
	default:
		return false
	}
}

// CanTransition reports whether moving from s to next changes anything.
// DRAFT -> CLOSED and CLOSED -> DRAFT are the only real transitions.
func (s InvoiceStatus) CanTransition(next InvoiceStatus) bool {
	switch s {
	case StatusDraft:
		return next == StatusClosed
	case StatusClosed:
		return next == StatusDraft
	default:
		return false
	}
}

func (s InvoiceStatus) Editable() bool {
	return s == StatusDraft
}

// Fixed business constants.
var (
	ReconciliationTolerance = decimal.RequireFromString("0.01")

	MarketBaseAmount  = decimal.RequireFromString("541.00")
	marketCompanyRate = decimal.RequireFromString("0.95")
	marketStaffRate   = decimal.RequireFromString("0.05")

	mealCompanyFactor = decimal.NewFromInt(4)
	mealTotalFactor   = decimal.NewFromInt(5)
)

const (
	MealExcludedBranch = "2"
	DefaultMealBranch  = "1"
)

// Reconcile returns expected - actual and whether the gap is inside the tolerance.
func Reconcile(expected, actual decimal.Decimal) (decimal.Decimal, bool) {
	diff := money.Round2(expected.Sub(actual))
	return diff, diff.Abs().LessThan(ReconciliationTolerance)
}

// MarketSplit is the informational 95/5 employer/employee split of a grocery invoice.
type MarketSplit struct {
	Company95  decimal.Decimal
	Employees5 decimal.Decimal
}

func SplitMarket(invoiceTotal decimal.Decimal) MarketSplit {
	return MarketSplit{
		Company95:  money.MulRound(invoiceTotal, marketCompanyRate),
		Employees5: money.MulRound(invoiceTotal, marketStaffRate),
	}
}

// MealSplit derives the company and total shares from the 20% employee share.
type MealSplit struct {
	Employee20 decimal.Decimal
	Company80  decimal.Decimal
	Total100   decimal.Decimal
}

func SplitMeal(employee20 decimal.Decimal) MealSplit {
	e20 := money.Round2(employee20)
	return MealSplit{
		Employee20: e20,
		Company80:  money.MulRound(e20, mealCompanyFactor),
		Total100:   money.MulRound(e20, mealTotalFactor),
	}
}

// MealBranchEligible is false for branches that never receive Vale Refeição.
func MealBranchEligible(branch string) bool {
	return branch != MealExcludedBranch
}
