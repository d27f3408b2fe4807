package mapping

import (
	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/SscSPs/myspendr/internal/models"
)

// ToModelMovement converts a domain Movement to a model Movement
func ToModelMovement(d domain.Movement) models.Movement {
	return models.Movement{
		MovementID:  d.MovementID,
		CapitalID:   d.CapitalID,
		UserID:      d.UserID,
		Amount:      d.Amount,
		Direction:   string(d.Direction),
		Category:    string(d.Category),
		Source:      string(d.Source),
		Description: d.Description,
		Date:        d.Date,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainMovement converts a model Movement to a domain Movement
func ToDomainMovement(m models.Movement) domain.Movement {
	return domain.Movement{
		MovementID:  m.MovementID,
		CapitalID:   m.CapitalID,
		UserID:      m.UserID,
		Amount:      m.Amount,
		Direction:   domain.Direction(m.Direction),
		Category:    domain.Category(m.Category),
		Source:      domain.Source(m.Source),
		Description: m.Description,
		Date:        domain.DateOnly(m.Date),
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

// ToDomainMovementSlice converts a slice of model Movements to a slice of domain Movements
func ToDomainMovementSlice(ms []models.Movement) []domain.Movement {
	ds := make([]domain.Movement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMovement(m)
	}
	return ds
}
