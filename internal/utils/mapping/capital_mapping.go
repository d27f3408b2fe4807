package mapping

import (
	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/SscSPs/myspendr/internal/models"
)

// ToModelCapital converts a domain CapitalAccount to a model Capital
func ToModelCapital(d domain.CapitalAccount) models.Capital {
	return models.Capital{
		CapitalID: d.CapitalID,
		UserID:    d.UserID,
		Bank:      d.Bank,
		Cash:      d.Cash,
		Other:     d.Other,
		Total:     d.Total,
		UpdatedOn: d.UpdatedOn,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainCapital converts a model Capital to a domain CapitalAccount
func ToDomainCapital(m models.Capital) domain.CapitalAccount {
	return domain.CapitalAccount{
		CapitalID: m.CapitalID,
		UserID:    m.UserID,
		Bank:      m.Bank,
		Cash:      m.Cash,
		Other:     m.Other,
		Total:     m.Total,
		UpdatedOn: domain.DateOnly(m.UpdatedOn),
		CreatedAt: m.CreatedAt.UTC(),
	}
}
