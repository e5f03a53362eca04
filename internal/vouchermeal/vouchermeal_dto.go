package vouchermeal

import (
	"time"

	"github.com/gustavopprado/Sistema-RH/internal/domain"
	"github.com/gustavopprado/Sistema-RH/internal/shared/money"
)

type ByMonthRequest struct {
	Month  string `form:"month" binding:"required"`
	Branch string `form:"branch" binding:"max=20"`
}

type DetailRequest struct {
	CostCenter string `form:"costCenter" binding:"max=100"`
}

type LineInput struct {
	Kind   LineKind     `json:"kind" binding:"required"`
	Part   Part         `json:"part" binding:"required"`
	Amount money.Amount `json:"amount"`
}

type CreateInvoiceRequest struct {
	Month                      string      `json:"month" binding:"required"`
	Branch                     string      `json:"branch" binding:"max=20"`
	InvoiceSecondHalfNumber    string      `json:"invoiceSecondHalfNumber" binding:"max=60"`
	InvoiceFirstHalfNextNumber string      `json:"invoiceFirstHalfNextNumber" binding:"max=60"`
	Lines                      []LineInput `json:"lines" binding:"dive"`
}

type CreateInvoiceResponse struct {
	InvoiceID uint `json:"invoiceId"`
	Existed   bool `json:"existed"`
}

type UpdateInvoiceRequest struct {
	InvoiceSecondHalfNumber    *string     `json:"invoiceSecondHalfNumber" binding:"omitempty,max=60"`
	InvoiceFirstHalfNextNumber *string     `json:"invoiceFirstHalfNextNumber" binding:"omitempty,max=60"`
	Lines                      []LineInput `json:"lines" binding:"dive"`
}

type UpdateAllocationRequest struct {
	Employee20 money.Amount `json:"employee20" binding:"required"`
}

type CloseAllocationInput struct {
	EmployeeID uint         `json:"employeeId" binding:"required,gt=0"`
	Employee20 money.Amount `json:"employee20" binding:"required"`
}

type CloseInvoiceRequest struct {
	InvoiceSecondHalfNumber    *string                `json:"invoiceSecondHalfNumber" binding:"omitempty,max=60"`
	InvoiceFirstHalfNextNumber *string                `json:"invoiceFirstHalfNextNumber" binding:"omitempty,max=60"`
	Lines                      []LineInput            `json:"lines" binding:"dive"`
	Allocations                []CloseAllocationInput `json:"allocations" binding:"dive"`
}

type InvoiceSummary struct {
	ID                         uint                 `json:"id"`
	Month                      string               `json:"month"`
	Competence                 string               `json:"competence"`
	Branch                     string               `json:"branch"`
	InvoiceSecondHalfNumber    string               `json:"invoiceSecondHalfNumber"`
	InvoiceFirstHalfNextNumber string               `json:"invoiceFirstHalfNextNumber"`
	InvoiceSecondHalf          string               `json:"invoiceSecondHalf"`
	InvoiceFirstHalfNext       string               `json:"invoiceFirstHalfNext"`
	Status                     domain.InvoiceStatus `json:"status"`
	ClosedAt                   *time.Time           `json:"closedAt"`
}

type ByMonthResponse struct {
	Invoice *InvoiceSummary `json:"invoice"`
}

type LineResponse struct {
	Kind     LineKind `json:"kind"`
	Category Category `json:"category"`
	Part     Part     `json:"part"`
	Amount   string   `json:"amount"`
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
	Employee20 string             `json:"employee20"`
	Company80  string             `json:"company80"`
	Total100   string             `json:"total100"`
	Employee   AllocationEmployee `json:"employee"`
}

type Totals struct {
	InvoiceTotal           string `json:"invoiceTotal"`
	LunchTotal             string `json:"lunchTotal"`
	CoffeeTotal            string `json:"coffeeTotal"`
	ThirdPartyTotal        string `json:"thirdPartyTotal"`
	SumEmployee20          string `json:"sumEmployee20"`
	SumCompany80           string `json:"sumCompany80"`
	SumTotal100            string `json:"sumTotal100"`
	Diff                   string `json:"diff"`
	CoffeePerEmployee      string `json:"coffeePerEmployee"`
	CompanyTotalWithCoffee string `json:"companyTotalWithCoffee"`
	EligibleEmployees      int    `json:"eligibleEmployees"`
	ListedEmployees        int    `json:"listedEmployees"`
}

type InvoiceDetailResponse struct {
	Invoice     InvoiceSummary       `json:"invoice"`
	Lines       []LineResponse       `json:"lines"`
	Allocations []AllocationResponse `json:"allocations"`
	Totals      Totals               `json:"totals"`
}

// MismatchDetails is attached to a refused close.
type MismatchDetails struct {
	Diff        string `json:"diff"`
	LunchTotal  string `json:"lunchTotal"`
	SumTotal100 string `json:"sumTotal100"`
}
