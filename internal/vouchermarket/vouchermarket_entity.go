package vouchermarket

import (
	"time"

	"github.com/gustavopprado/Sistema-RH/internal/domain"
	"github.com/gustavopprado/Sistema-RH/internal/employee"

	"github.com/shopspring/decimal"
)

type AllocationStatus string

const (
	AllocationDefault      AllocationStatus = "DEFAULT"
	AllocationFalta        AllocationStatus = "FALTA"
	AllocationProporcional AllocationStatus = "PROPORCIONAL"
	AllocationExcluido     AllocationStatus = "EXCLUIDO"
)

func (s AllocationStatus) Valid() bool {
	switch s {
	case AllocationDefault, AllocationFalta, AllocationProporcional, AllocationExcluido:
		return true
	default:
		return false
	}
}

// Amount resolves the stored amount for s. Only PROPORCIONAL takes the supplied value.
func (s AllocationStatus) Amount(supplied decimal.Decimal) decimal.Decimal {
	switch s {
	case AllocationDefault:
		return domain.MarketBaseAmount
	case AllocationProporcional:
		return supplied
	case AllocationFalta, AllocationExcluido:
		return decimal.Zero
	default:
		return decimal.Zero
	}
}

type Invoice struct {
	ID            uint                 `gorm:"primaryKey"`
	Competence    time.Time            `gorm:"type:date;not null;uniqueIndex:uq_voucher_market_invoices_competence"`
	InvoiceNumber string               `gorm:"size:60;not null;default:''"`
	InvoiceValue  decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0"`
	Status        domain.InvoiceStatus `gorm:"size:10;not null;default:DRAFT"`
	ClosedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Invoice) TableName() string {
	return "voucher_market_invoices"
}

type Allocation struct {
	ID         uint              `gorm:"primaryKey"`
	InvoiceID  uint              `gorm:"not null;uniqueIndex:uq_voucher_market_allocations_invoice_employee,priority:1"`
	EmployeeID uint              `gorm:"not null;uniqueIndex:uq_voucher_market_allocations_invoice_employee,priority:2"`
	Employee   employee.Employee `gorm:"foreignKey:EmployeeID"`
	Amount     decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	Status     AllocationStatus  `gorm:"size:20;not null;default:DEFAULT"`
	Note       *string           `gorm:"size:500"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Allocation) TableName() string {
	return "voucher_market_allocations"
}

// DefaultAllocation is the opening row for an eligible employee, honouring the persisted opt-out.
func DefaultAllocation(invoiceID uint, empl employee.Employee) Allocation {
	if empl.VoucherMarketExcluded {
		return Allocation{InvoiceID: invoiceID, EmployeeID: empl.ID, Amount: decimal.Zero, Status: AllocationExcluido}
	}
	return Allocation{InvoiceID: invoiceID, EmployeeID: empl.ID, Amount: domain.MarketBaseAmount, Status: AllocationDefault}
}
