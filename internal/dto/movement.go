package dto

import (
	"time"

	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMovementRequest defines the data needed to record a movement.
type CreateMovementRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Direction   string           `json:"direction" binding:"required,direction"`
	Category    string           `json:"category" binding:"required,category"`
	Source      string           `json:"source" binding:"required,source"`
	Description string           `json:"description" binding:"max=255"`
	Date        string           `json:"date" binding:"required,datetime=2006-01-02"`
}

// ToDraft converts the request into a domain draft. Binding has already validated the fields.
func (r CreateMovementRequest) ToDraft() (domain.MovementDraft, error) {
	date, err := time.Parse(domain.DateLayout, r.Date)
	if err != nil {
		return domain.MovementDraft{}, err
	}
	draft := domain.MovementDraft{
		Direction:   domain.Direction(r.Direction),
		Category:    domain.Category(r.Category),
		Source:      domain.Source(r.Source),
		Description: r.Description,
		Date:        date,
	}
	if r.Amount != nil {
		draft.Amount = domain.RoundMoney(*r.Amount)
	}
	return draft, nil
}

// MovementResponse defines the data returned for a movement.
type MovementResponse struct {
	MovementID  string           `json:"movementID"`
	Amount      decimal.Decimal  `json:"amount"`
	Direction   domain.Direction `json:"direction"`
	Category    domain.Category  `json:"category"`
	Source      domain.Source    `json:"source"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ToMovementResponse converts a domain.Movement to its DTO.
func ToMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		MovementID:  m.MovementID,
		Amount:      m.Amount,
		Direction:   m.Direction,
		Category:    m.Category,
		Source:      m.Source,
		Description: m.Description,
		Date:        m.Date.Format(domain.DateLayout),
		CreatedAt:   m.CreatedAt,
	}
}

// ToListMovementResponse converts a slice of movements.
func ToListMovementResponse(ms []domain.Movement) []MovementResponse {
	res := make([]MovementResponse, len(ms))
	for i := range ms {
		res[i] = ToMovementResponse(&ms[i])
	}
	return res
}

// DefaultMovementPageSize applies when the listing omits limit.
const DefaultMovementPageSize = 50

// ListMovementsParams are the query parameters of the paginated listing.
type ListMovementsParams struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=200"`
	NextToken string `form:"nextToken"`
}

// ListMovementsResponse is one page of movements.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToListMovementsPageResponse converts a domain page to its DTO.
func ToListMovementsPageResponse(p *domain.MovementPage) ListMovementsResponse {
	res := ListMovementsResponse{Movements: ToListMovementResponse(p.Movements)}
	if p.NextToken != "" {
		token := p.NextToken
		res.NextToken = &token
	}
	return res
}

// MovementRangeParams are the query parameters of the range listing. Both ends are inclusive.
type MovementRangeParams struct {
	Start string `form:"start" binding:"required,datetime=2006-01-02"`
	End   string `form:"end" binding:"required,datetime=2006-01-02"`
}

// TotalsResponse is the aggregate amount of one direction.
type TotalsResponse struct {
	Direction domain.Direction `json:"direction"`
	Total     decimal.Decimal  `json:"total"`
	From      string           `json:"from,omitempty"`
	To        string           `json:"to,omitempty"`
}

// ToTotalsResponse converts domain totals to the DTO.
func ToTotalsResponse(t *domain.DirectionTotals) TotalsResponse {
	res := TotalsResponse{Direction: t.Direction, Total: t.Total}
	if t.From != nil {
		res.From = t.From.Format(domain.DateLayout)
	}
	if t.To != nil {
		res.To = t.To.Format(domain.DateLayout)
	}
	return res
}
