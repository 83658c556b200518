package expense

import (
	"context"
)

// RepositoryStub keeps expenses in memory. Setting Err makes every call fail
// with it, which lets callers exercise their storage failure paths.
type RepositoryStub struct {
	nextId   int64
	expenses []Expense
	Err      error
}

func NewRepositoryStub(expenses ...Expense) *RepositoryStub {
	s := &RepositoryStub{}
	for _, e := range expenses {
		s.nextId++
		e.ID = s.nextId
		s.expenses = append(s.expenses, e)
	}
	return s
}

func (s *RepositoryStub) EnsureSchema(ctx context.Context) error {
	return s.Err
}

func (s *RepositoryStub) ListAll(ctx context.Context) ([]Expense, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	expenses := make([]Expense, len(s.expenses))
	copy(expenses, s.expenses)
	return expenses, nil
}

func (s *RepositoryStub) Insert(ctx context.Context, name, costText string) (Expense, error) {
	if s.Err != nil {
		return Expense{}, s.Err
	}
	cost, _, err := costForColumn(costText)
	if err != nil {
		return Expense{}, err
	}
	s.nextId++
	e := Expense{ID: s.nextId, Name: name, Cost: cost}
	s.expenses = append(s.expenses, e)
	return e, nil
}

func (s *RepositoryStub) DeleteByName(ctx context.Context, name string) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	kept := s.expenses[:0]
	var deleted int64
	for _, e := range s.expenses {
		if e.Name == name {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.expenses = kept
	return deleted, nil
}

func (s *RepositoryStub) DeleteLastByName(ctx context.Context, name string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	for i := len(s.expenses) - 1; i >= 0; i-- {
		if s.expenses[i].Name == name {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *RepositoryStub) DeleteByID(ctx context.Context, id int64) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	for i, e := range s.expenses {
		if e.ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
