package dto

import (
	"time"

	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CapitalRequest carries the three sub-balances for create and update.
// Omitted fields are treated as zero.
type CapitalRequest struct {
	Bank  decimal.Decimal `json:"bank"`
	Cash  decimal.Decimal `json:"cash"`
	Other decimal.Decimal `json:"other"`
}

// CapitalResponse defines the data returned for a capital account.
type CapitalResponse struct {
	CapitalID string          `json:"capitalID"`
	Bank      decimal.Decimal `json:"bank"`
	Cash      decimal.Decimal `json:"cash"`
	Other     decimal.Decimal `json:"other"`
	Total     decimal.Decimal `json:"total"`
	UpdatedOn string          `json:"updatedOn"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToCapitalResponse converts a domain.CapitalAccount to its DTO.
func ToCapitalResponse(c *domain.CapitalAccount) CapitalResponse {
	return CapitalResponse{
		CapitalID: c.CapitalID,
		Bank:      c.Bank,
		Cash:      c.Cash,
		Other:     c.Other,
		Total:     c.Total,
		UpdatedOn: c.UpdatedOn.Format(domain.DateLayout),
		CreatedAt: c.CreatedAt,
	}
}

// CapitalReportResponse lists totals per period.
type CapitalReportResponse struct {
	Granularity domain.ReportGranularity  `json:"granularity"`
	Rows        []domain.CapitalReportRow `json:"rows"`
}
