package employee

import (
	"bytes"
	"encoding/json"
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusAll      = "all"

	DefaultPageSize = 20
	MaxPageSize     = 200
)

type ListEmployeesRequest struct {
	Status     string `form:"status" binding:"omitempty,oneof=active inactive all"`
	Search     string `form:"search" binding:"max=100"`
	Branch     string `form:"branch"`
	CostCenter string `form:"costCenter"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" binding:"omitempty,min=1"`
}

type CreateEmployeeRequest struct {
	Matricula             string  `json:"matricula" binding:"required,max=40"`
	Name                  string  `json:"name" binding:"required,max=200"`
	CostCenter            string  `json:"costCenter" binding:"required,max=100"`
	Branch                string  `json:"branch" binding:"required,max=20"`
	AdmissionDate         string  `json:"admissionDate" binding:"required"`
	TerminationDate       *string `json:"terminationDate"`
	VoucherMarketExcluded bool    `json:"voucherMarketExcluded"`
	VoucherMealExcluded   bool    `json:"voucherMealExcluded"`
}

// UpdateEmployeeRequest is a partial update; absent fields keep their stored value.
type UpdateEmployeeRequest struct {
	Matricula             *string      `json:"matricula"`
	Name                  *string      `json:"name" binding:"omitempty,min=1,max=200"`
	CostCenter            *string      `json:"costCenter" binding:"omitempty,min=1,max=100"`
	Branch                *string      `json:"branch" binding:"omitempty,min=1,max=20"`
	AdmissionDate         *string      `json:"admissionDate" binding:"omitempty,min=1"`
	TerminationDate       OptionalDate `json:"terminationDate"`
	VoucherMarketExcluded *bool        `json:"voucherMarketExcluded"`
	VoucherMealExcluded   *bool        `json:"voucherMealExcluded"`
}

type TerminateEmployeeRequest struct {
	TerminationDate string `json:"terminationDate" binding:"required"`
}

// OptionalDate tells an absent field apart from an explicit null.
type OptionalDate struct {
	Set   bool
	Value *string
}

func (o *OptionalDate) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		o.Value = nil
		return nil
	}
	o.Value = &s
	return nil
}

type EmployeeResponse struct {
	ID                    uint      `json:"id"`
	Matricula             string    `json:"matricula"`
	Name                  string    `json:"name"`
	CostCenter            string    `json:"costCenter"`
	Branch                string    `json:"branch"`
	AdmissionDate         string    `json:"admissionDate"`
	TerminationDate       *string   `json:"terminationDate"`
	Active                bool      `json:"active"`
	VoucherMarketExcluded bool      `json:"voucherMarketExcluded"`
	VoucherMealExcluded   bool      `json:"voucherMealExcluded"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

type EmployeeOptionResponse struct {
	ID        uint   `json:"id"`
	Matricula string `json:"matricula"`
	Name      string `json:"name"`
	Branch    string `json:"branch"`
}

type ListEmployeesResult struct {
	Items    []EmployeeResponse
	Total    int64
	Page     int
	PageSize int
}

type SeedResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
