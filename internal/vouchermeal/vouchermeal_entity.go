package vouchermeal

import (
	"time"

	"github.com/gustavopprado/Sistema-RH/internal/domain"
	"github.com/gustavopprado/Sistema-RH/internal/employee"

	"github.com/shopspring/decimal"
)

// Category groups line kinds by how they enter the totals.
type Category string

const (
	CategoryLunch      Category = "LUNCH"
	CategoryCoffee     Category = "COFFEE"
	CategoryThirdParty Category = "THIRD_PARTY"
)

type LineKind string

const (
	KindLunch                 LineKind = "MEAL_LUNCH"
	KindCoffeeSandwich        LineKind = "COFFEE_SANDWICH"
	KindCoffeeCoffeeLiter     LineKind = "COFFEE_COFFEE_LITER"
	KindCoffeeCoffeeMilkLiter LineKind = "COFFEE_COFFEE_MILK_LITER"
	KindCoffeeMilkLiter       LineKind = "COFFEE_MILK_LITER"
	KindSpecialService        LineKind = "SPECIAL_SERVICE"
	KindLunchVisitors         LineKind = "MEAL_LUNCH_VISITORS"
	KindLunchThirdParty       LineKind = "MEAL_LUNCH_THIRD_PARTY"
	KindLunchDonation         LineKind = "MEAL_LUNCH_DONATION"
)

// LineKinds lists every kind in display order.
var LineKinds = []LineKind{
	KindLunch,
	KindCoffeeSandwich,
	KindCoffeeCoffeeLiter,
	KindCoffeeCoffeeMilkLiter,
	KindCoffeeMilkLiter,
	KindSpecialService,
	KindLunchVisitors,
	KindLunchThirdParty,
	KindLunchDonation,
}

// Category reports the bucket a kind contributes to; ok is false for unknown kinds.
func (k LineKind) Category() (Category, bool) {
	switch k {
	case KindLunch:
		return CategoryLunch, true
	case KindCoffeeSandwich, KindCoffeeCoffeeLiter, KindCoffeeCoffeeMilkLiter, KindCoffeeMilkLiter, KindSpecialService:
		return CategoryCoffee, true
	case KindLunchVisitors, KindLunchThirdParty, KindLunchDonation:
		return CategoryThirdParty, true
	default:
		return "", false
	}
}

func (k LineKind) Valid() bool {
	_, ok := k.Category()
	return ok
}

type Part string

const (
	PartSecondHalf    Part = "SECOND_HALF"
	PartFirstHalfNext Part = "FIRST_HALF_NEXT"
)

func (p Part) Valid() bool {
	switch p {
	case PartSecondHalf, PartFirstHalfNext:
		return true
	default:
		return false
	}
}

type Invoice struct {
	ID                         uint                 `gorm:"primaryKey"`
	Competence                 time.Time            `gorm:"type:date;not null;uniqueIndex:uq_voucher_meal_invoices_competence_branch,priority:1"`
	Branch                     string               `gorm:"size:20;not null;uniqueIndex:uq_voucher_meal_invoices_competence_branch,priority:2"`
	InvoiceSecondHalfNumber    string               `gorm:"size:60;not null;default:''"`
	InvoiceFirstHalfNextNumber string               `gorm:"size:60;not null;default:''"`
	InvoiceSecondHalf          decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0"`
	InvoiceFirstHalfNext       decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0"`
	Status                     domain.InvoiceStatus `gorm:"size:10;not null;default:DRAFT"`
	ClosedAt                   *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

func (Invoice) TableName() string {
	return "voucher_meal_invoices"
}

type Line struct {
	ID        uint            `gorm:"primaryKey"`
	InvoiceID uint            `gorm:"not null;uniqueIndex:uq_voucher_meal_lines_invoice_kind_part,priority:1"`
	Kind      LineKind        `gorm:"size:40;not null;uniqueIndex:uq_voucher_meal_lines_invoice_kind_part,priority:2"`
	Part      Part            `gorm:"size:20;not null;uniqueIndex:uq_voucher_meal_lines_invoice_kind_part,priority:3"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Line) TableName() string {
	return "voucher_meal_lines"
}

type Allocation struct {
	ID         uint              `gorm:"primaryKey"`
	InvoiceID  uint              `gorm:"not null;uniqueIndex:uq_voucher_meal_allocations_invoice_employee,priority:1"`
	EmployeeID uint              `gorm:"not null;uniqueIndex:uq_voucher_meal_allocations_invoice_employee,priority:2"`
	Employee   employee.Employee `gorm:"foreignKey:EmployeeID"`
	Employee20 decimal.Decimal   `gorm:"column:employee20;type:numeric(12,2);not null;default:0"`
	Company80  decimal.Decimal   `gorm:"column:company80;type:numeric(12,2);not null;default:0"`
	Total100   decimal.Decimal   `gorm:"column:total100;type:numeric(12,2);not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Allocation) TableName() string {
	return "voucher_meal_allocations"
}

// SetEmployee20 stores the employee share and recomputes the derived columns with it.
func (a *Allocation) SetEmployee20(v decimal.Decimal) {
	split := domain.SplitMeal(v)
	a.Employee20 = split.Employee20
	a.Company80 = split.Company80
	a.Total100 = split.Total100
}

// Eligible reports whether empl may hold an allocation on an invoice of branch.
func Eligible(empl employee.Employee, branch string) bool {
	return !empl.VoucherMealExcluded &&
		domain.MealBranchEligible(empl.Branch) &&
		empl.Branch == branch
}
