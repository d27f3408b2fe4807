package mapping

import (
	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/SscSPs/myspendr/internal/models"
)

func ToModelBudget(d domain.BudgetLimit) models.Budget {
	return models.Budget{
		BudgetID:  d.BudgetID,
		UserID:    d.UserID,
		Category:  string(d.Category),
		Month:     d.Month,
		Year:      d.Year,
		Limit:     d.Limit,
		UpdatedAt: d.UpdatedAt,
	}
}

func ToDomainBudget(m models.Budget) domain.BudgetLimit {
	return domain.BudgetLimit{
		BudgetID:  m.BudgetID,
		UserID:    m.UserID,
		Category:  domain.Category(m.Category),
		Month:     m.Month,
		Year:      m.Year,
		Limit:     m.Limit,
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func ToDomainBudgetSlice(ms []models.Budget) []domain.BudgetLimit {
	ds := make([]domain.BudgetLimit, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBudget(m)
	}
	return ds
}
