package expense_list

import (
	"context"
	"fmt"
	"sync"

	"github.com/splitthat/splitthat/internal/event_bus"
	"github.com/splitthat/splitthat/pkg/expense"
	log "github.com/sirupsen/logrus"
)

// Screen holds the expense list state and keeps it mirrored to the store.
// Every action writes to the store first and commits the new state only once
// the write succeeded, so a failed action leaves the list untouched.
type Screen struct {
	mu       sync.Mutex
	repo     expense.Repository
	eventBus *event_bus.EventBus
	state    State
}

func NewScreen(repo expense.Repository, eventBus *event_bus.EventBus) *Screen {
	return &Screen{
		repo:     repo,
		eventBus: eventBus,
		state:    NewState(nil),
	}
}

// Load seeds the list with everything currently stored.
func (s *Screen) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}
	s.state.Expenses = expenses
	log.Debugf("Loaded %d expenses", len(expenses))
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Screen) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Add stores a new expense and appends it to the list.
func (s *Screen) Add(ctx context.Context, name, costText string) (expense.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, effects, err := Add(s.state, name, costText)
	if err != nil {
		log.Debugf("Rejected expense %q: %v", name, err)
		return expense.Expense{}, err
	}
	stored, err := s.apply(ctx, effects)
	if err != nil {
		return expense.Expense{}, err
	}
	added := stored[0]
	next.Expenses[len(next.Expenses)-1] = added
	s.state = next

	s.publish(ctx, event_bus.ExpenseAddedType, event_bus.ExpenseAdded{Id: added.ID, Name: added.Name, Cost: added.Cost})
	return added, nil
}

// RemoveLast deletes the last listed expense. ok is false when the list was
// already empty. The expense leaves the list even when no stored row matched it.
func (s *Screen) RemoveLast(ctx context.Context) (removed expense.Expense, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, effects := RemoveLast(s.state)
	if len(effects) == 0 {
		return expense.Expense{}, false, nil
	}
	if _, err := s.apply(ctx, effects); err != nil {
		return expense.Expense{}, false, err
	}
	removed = effects[0].Expense
	s.state = next

	s.publish(ctx, event_bus.ExpenseRemovedType, event_bus.ExpenseRemoved{Id: removed.ID, Name: removed.Name, Cost: removed.Cost})
	return removed, true, nil
}

// apply performs effects against the store in order, returning the stored
// expense for each insert.
func (s *Screen) apply(ctx context.Context, effects []Effect) ([]expense.Expense, error) {
	var stored []expense.Expense
	for _, effect := range effects {
		switch effect.Kind {
		case InsertEffect:
			e, err := s.repo.Insert(ctx, effect.Expense.Name, effect.CostText)
			if err != nil {
				return nil, err
			}
			stored = append(stored, e)
		case DeleteEffect:
			deleted, err := s.delete(ctx, effect.Expense)
			if err != nil {
				return nil, err
			}
			if !deleted {
				log.Warnf("expense %q (id %d) is no longer stored, removing it from the list only", effect.Expense.Name, effect.Expense.ID)
			}
		default:
			return nil, fmt.Errorf("unknown effect kind %d", effect.Kind)
		}
	}
	return stored, nil
}

// delete removes the row behind e. Rows read or written by this screen carry
// their ID, so rows with the same name added by other writers are left alone.
func (s *Screen) delete(ctx context.Context, e expense.Expense) (bool, error) {
	if e.ID != 0 {
		return s.repo.DeleteByID(ctx, e.ID)
	}
	return s.repo.DeleteLastByName(ctx, e.Name)
}

func (s *Screen) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("failed to publish %s: %v", eventType, err)
	}
}
