// Package memory implements the repository ports in process memory.
// It backs the "memory" storage mode and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/myspendr/internal/apperrors"
	"github.com/SscSPs/myspendr/internal/core/domain"
	portsrepo "github.com/SscSPs/myspendr/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store holds every aggregate. mu guards the maps; accountLocks serialise
// read-modify-write sequences per user, standing in for SELECT ... FOR UPDATE.
type Store struct {
	mu           sync.RWMutex
	accountLocks sync.Map // userID -> *sync.Mutex

	capitals  map[string]domain.CapitalAccount // by user ID
	movements map[string]domain.Movement       // by movement ID
	budgets   map[domain.BudgetKey]domain.BudgetLimit
	tokens    map[string]domain.LinkToken
	links     map[string]domain.ChatLink
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		capitals:  make(map[string]domain.CapitalAccount),
		movements: make(map[string]domain.Movement),
		budgets:   make(map[domain.BudgetKey]domain.BudgetLimit),
		tokens:    make(map[string]domain.LinkToken),
		links:     make(map[string]domain.ChatLink),
	}
}

// NewRepositoryProvider exposes one store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CapitalRepo:  store,
		MovementRepo: store,
		BudgetRepo:   store,
		ChatLinkRepo: store,
	}
}

var (
	_ portsrepo.CapitalRepositoryFacade  = (*Store)(nil)
	_ portsrepo.MovementRepositoryFacade = (*Store)(nil)
	_ portsrepo.BudgetRepositoryFacade   = (*Store)(nil)
	_ portsrepo.ChatLinkRepositoryFacade = (*Store)(nil)
)

func (s *Store) accountLock(userID string) *sync.Mutex {
	l, _ := s.accountLocks.LoadOrStore(userID, &sync.Mutex{})
	return l.(*sync.Mutex)
}

// --- capital ---

func (s *Store) FindCapitalByUserID(_ context.Context, userID string) (domain.CapitalAccount, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.capitals[userID]
	return c, ok, nil
}

func (s *Store) SaveCapital(_ context.Context, capital domain.CapitalAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.capitals[capital.UserID]; exists {
		return fmt.Errorf("%w: capital account for user %s", apperrors.ErrDuplicate, capital.UserID)
	}
	s.capitals[capital.UserID] = capital
	return nil
}

func (s *Store) DeleteCapital(_ context.Context, userID string) (bool, error) {
	lock := s.accountLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.capitals[userID]
	if !ok {
		return false, nil
	}
	for id, m := range s.movements {
		if m.CapitalID == c.CapitalID {
			delete(s.movements, id)
		}
	}
	delete(s.capitals, userID)
	return true, nil
}

func (s *Store) MutateCapital(ctx context.Context, userID string, fn portsrepo.CapitalMutation) (bool, error) {
	lock := s.accountLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	current, ok := s.capitals[userID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}

	working := current
	tx := &ledgerTx{store: s, capitalID: current.CapitalID, saved: map[string]domain.Movement{}, deleted: map[string]bool{}}
	if err := fn(ctx, &working, tx); err != nil {
		return true, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.deleteAll {
		for id, m := range s.movements {
			if m.CapitalID == current.CapitalID {
				delete(s.movements, id)
			}
		}
	}
	for id := range tx.deleted {
		delete(s.movements, id)
	}
	for id, m := range tx.saved {
		s.movements[id] = m
	}
	s.capitals[userID] = working
	return true, nil
}

// ledgerTx stages movement writes until the mutation succeeds.
type ledgerTx struct {
	store     *Store
	capitalID string
	saved     map[string]domain.Movement
	deleted   map[string]bool
	deleteAll bool
}

func (tx *ledgerTx) SaveMovement(_ context.Context, m domain.Movement) error {
	m.CapitalID = tx.capitalID
	tx.saved[m.MovementID] = m
	delete(tx.deleted, m.MovementID)
	return nil
}

func (tx *ledgerTx) FindMovement(_ context.Context, movementID string) (domain.Movement, bool, error) {
	if m, ok := tx.saved[movementID]; ok {
		return m, true, nil
	}
	if tx.deleteAll || tx.deleted[movementID] {
		return domain.Movement{}, false, nil
	}
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	m, ok := tx.store.movements[movementID]
	if !ok || m.CapitalID != tx.capitalID {
		return domain.Movement{}, false, nil
	}
	return m, true, nil
}

func (tx *ledgerTx) DeleteMovement(_ context.Context, movementID string) error {
	if _, ok := tx.saved[movementID]; ok {
		delete(tx.saved, movementID)
		return nil
	}
	tx.deleted[movementID] = true
	return nil
}

func (tx *ledgerTx) DeleteAllMovements(_ context.Context) (int64, error) {
	var n int64
	if !tx.deleteAll {
		tx.store.mu.RLock()
		for id, m := range tx.store.movements {
			if m.CapitalID == tx.capitalID && !tx.deleted[id] {
				n++
			}
		}
		tx.store.mu.RUnlock()
	}
	n += int64(len(tx.saved))
	tx.saved = map[string]domain.Movement{}
	tx.deleted = map[string]bool{}
	tx.deleteAll = true
	return n, nil
}

// --- movements ---

func (s *Store) FindMovementByID(_ context.Context, userID, movementID string) (domain.Movement, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movements[movementID]
	if !ok || m.UserID != userID {
		return domain.Movement{}, false, nil
	}
	return m, true, nil
}

func (s *Store) ListMovements(_ context.Context, userID string, q portsrepo.MovementQuery) ([]domain.Movement, error) {
	s.mu.RLock()
	out := make([]domain.Movement, 0)
	for _, m := range s.movements {
		if m.UserID == userID && inRange(m, q) {
			out = append(out, m)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return listedBefore(out[i], out[j]) })
	if c := q.After; c != nil {
		pivot := domain.Movement{Date: c.Date, CreatedAt: c.CreatedAt, MovementID: c.MovementID}
		i := sort.Search(len(out), func(i int) bool { return listedBefore(pivot, out[i]) })
		out = out[i:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) SumByDirection(_ context.Context, userID string, direction domain.Direction, q portsrepo.MovementQuery) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := decimal.Zero
	for _, m := range s.movements {
		if m.UserID == userID && m.Direction == direction && inRange(m, q) {
			sum = sum.Add(m.Amount)
		}
	}
	return sum, nil
}

func (s *Store) SumSpent(_ context.Context, key domain.BudgetKey) (decimal.Decimal, error) {
	from, to := key.Range()
	q := portsrepo.MovementQuery{From: from, To: to}

	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := decimal.Zero
	for _, m := range s.movements {
		if m.UserID == key.UserID && m.Direction == domain.DirectionOut && m.Category == key.Category && inRange(m, q) {
			sum = sum.Add(m.Amount)
		}
	}
	return sum, nil
}

// listedBefore orders movements newest first.
func listedBefore(a, b domain.Movement) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.MovementID > b.MovementID
}

func inRange(m domain.Movement, q portsrepo.MovementQuery) bool {
	if !q.From.IsZero() && m.Date.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && m.Date.After(q.To) {
		return false
	}
	return true
}

// --- budgets ---

func (s *Store) FindBudget(_ context.Context, key domain.BudgetKey) (domain.BudgetLimit, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.budgets[key]
	return b, ok, nil
}

func (s *Store) ListBudgets(_ context.Context, userID string, month, year int) ([]domain.BudgetLimit, error) {
	s.mu.RLock()
	out := make([]domain.BudgetLimit, 0)
	for k, b := range s.budgets {
		if k.UserID == userID && k.Month == month && k.Year == year {
			out = append(out, b)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (s *Store) UpsertBudget(_ context.Context, budget domain.BudgetLimit) (domain.BudgetLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := budget.Key()
	if existing, ok := s.budgets[key]; ok {
		budget.BudgetID = existing.BudgetID
	}
	s.budgets[key] = budget
	return budget, nil
}

// --- chat links ---

func (s *Store) SaveLinkToken(_ context.Context, token domain.LinkToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Token] = token
	return nil
}

func (s *Store) ConsumeLinkToken(_ context.Context, token string) (domain.LinkToken, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if ok {
		delete(s.tokens, token)
	}
	return t, ok, nil
}

func (s *Store) UpsertChatLink(_ context.Context, link domain.ChatLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[link.ChatID] = link
	return nil
}

func (s *Store) FindChatLink(_ context.Context, chatID string) (domain.ChatLink, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.links[chatID]
	return l, ok, nil
}

func (s *Store) FindChatLinksByUser(_ context.Context, userID string) ([]domain.ChatLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ChatLink, 0)
	for _, l := range s.links {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })
	return out, nil
}
