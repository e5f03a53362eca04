package events

import "time"

const VoucherInvoiceTopic = "hr.benefits.voucher-invoice.v1"

const (
	VoucherInvoiceClosed   = "voucher_invoice_closed"
	VoucherInvoiceReopened = "voucher_invoice_reopened"
)

const (
	ProgramVoucherMarket = "voucher_market"
	ProgramVoucherMeal   = "voucher_meal"
)

// VoucherInvoiceEvent is published when a voucher invoice changes lifecycle state.
// Amounts are decimal strings with two places.
type VoucherInvoiceEvent struct {
	EventType        string    `json:"event_type"`
	Program          string    `json:"program"`
	InvoiceID        uint      `json:"invoice_id"`
	Competence       string    `json:"competence"`
	Branch           string    `json:"branch,omitempty"`
	InvoiceTotal     string    `json:"invoice_total"`
	AllocationsTotal string    `json:"allocations_total"`
	Allocations      int       `json:"allocations"`
	RequestID        string    `json:"request_id,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// AggregateType names the outbox aggregate for a program's invoices.
func (e VoucherInvoiceEvent) AggregateType() string {
	return e.Program + "_invoice"
}
