package vouchermarket

import (
	"time"

	"github.com/gustavopprado/Sistema-RH/internal/domain"
	"github.com/gustavopprado/Sistema-RH/internal/shared/money"
)

type ByMonthRequest struct {
	Month string `form:"month" binding:"required"`
}

type CreateInvoiceRequest struct {
	Month         string       `json:"month" binding:"required"`
	InvoiceNumber string       `json:"invoiceNumber" binding:"max=60"`
	InvoiceValue  money.Amount `json:"invoiceValue"`
}

type CreateInvoiceResponse struct {
	InvoiceID uint `json:"invoiceId"`
	Existed   bool `json:"existed"`
}

type UpdateInvoiceRequest struct {
	InvoiceNumber *string      `json:"invoiceNumber" binding:"omitempty,max=60"`
	InvoiceValue  money.Amount `json:"invoiceValue"`
}

type UpdateAllocationRequest struct {
	Status AllocationStatus `json:"status" binding:"required"`
	Amount money.Amount     `json:"amount"`
	Note   *string          `json:"note" binding:"omitempty,max=500"`
}

type CloseAllocationInput struct {
	EmployeeID uint             `json:"employeeId" binding:"required,gt=0"`
	Amount     money.Amount     `json:"amount"`
	Status     AllocationStatus `json:"status" binding:"required"`
}

type CloseInvoiceRequest struct {
	InvoiceNumber string                 `json:"invoiceNumber" binding:"required,max=60"`
	InvoiceValue  money.Amount           `json:"invoiceValue" binding:"required"`
	Allocations   []CloseAllocationInput `json:"allocations" binding:"dive"`
}

type InvoiceSummary struct {
	ID            uint                 `json:"id"`
	Month         string               `json:"month"`
	Competence    string               `json:"competence"`
	InvoiceNumber string               `json:"invoiceNumber"`
	InvoiceValue  string               `json:"invoiceValue"`
	Status        domain.InvoiceStatus `json:"status"`
	ClosedAt      *time.Time           `json:"closedAt"`
}

type ByMonthResponse struct {
	Invoice *InvoiceSummary `json:"invoice"`
}

type AllocationEmployee struct {
	ID              uint    `json:"id"`
	Matricula       string  `json:"matricula"`
	Name            string  `json:"name"`
	CostCenter      string  `json:"costCenter"`
	Branch          string  `json:"branch"`
	AdmissionDate   string  `json:"admissionDate"`
	TerminationDate *string `json:"terminationDate"`
}

type AllocationResponse struct {
	ID         uint               `json:"id"`
	EmployeeID uint               `json:"employeeId"`
	Amount     string             `json:"amount"`
	Status     AllocationStatus   `json:"status"`
	Note       *string            `json:"note"`
	Employee   AllocationEmployee `json:"employee"`
}

type Totals struct {
	SumAllocations string `json:"sumAllocations"`
	Diff           string `json:"diff"`
	Company95      string `json:"company95"`
	Employees5     string `json:"employees5"`
}

type InvoiceDetailResponse struct {
	Invoice     InvoiceSummary       `json:"invoice"`
	BaseValue   string               `json:"baseValue"`
	Allocations []AllocationResponse `json:"allocations"`
	Totals      Totals               `json:"totals"`
}

// MismatchDetails is attached to a refused close.
type MismatchDetails struct {
	Diff           string `json:"diff"`
	SumAllocations string `json:"sumAllocations"`
	InvoiceValue   string `json:"invoiceValue"`
}
