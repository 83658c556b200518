package expense_list

import (
	"github.com/shopspring/decimal"
	"github.com/splitthat/splitthat/pkg/expense"
)

const (
	DefaultNameInput = "Expense name"
	DefaultCostInput = "42"
)

// State is everything the expense list shows: the expenses in insertion order
// and the two pending input buffers.
type State struct {
	Expenses  []expense.Expense
	NameInput string
	CostInput string
}

func NewState(expenses []expense.Expense) State {
	return State{
		Expenses:  expenses,
		NameInput: DefaultNameInput,
		CostInput: DefaultCostInput,
	}
}

func (s State) IsEmpty() bool {
	return len(s.Expenses) == 0
}

// Total sums the costs of the listed expenses without float rounding drift.
func (s State) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Expenses {
		total = total.Add(decimal.NewFromFloat(e.Cost))
	}
	return total
}

func (s State) clone() State {
	expenses := make([]expense.Expense, len(s.Expenses))
	copy(expenses, s.Expenses)
	s.Expenses = expenses
	return s
}

type EffectKind int

const (
	// InsertEffect asks the store to append Expense.
	InsertEffect EffectKind = iota
	// DeleteEffect asks the store to delete the row behind Expense, by ID when known.
	DeleteEffect
)

// Effect is a storage side effect a transition needs before its state can be committed.
type Effect struct {
	Kind    EffectKind
	Expense expense.Expense
	// CostText is the cost as typed, set on inserts.
	CostText string
}

// Add appends an expense named name costing costText. On a malformed cost it
// returns expense.ErrInvalidCost with state unchanged and no effects. The
// inputs keep what was typed, so the next add starts from the same values.
func Add(state State, name, costText string) (State, []Effect, error) {
	cost, err := expense.ParseCost(costText)
	if err != nil {
		return state, nil, err
	}
	added := expense.Expense{Name: name, Cost: cost}

	next := state.clone()
	next.Expenses = append(next.Expenses, added)
	next.NameInput = name
	next.CostInput = costText
	return next, []Effect{{Kind: InsertEffect, Expense: added, CostText: costText}}, nil
}

// RemoveLast drops the last expense. It is a no-op on an empty list.
func RemoveLast(state State) (State, []Effect) {
	if state.IsEmpty() {
		return state, nil
	}
	last := state.Expenses[len(state.Expenses)-1]

	next := state.clone()
	next.Expenses = next.Expenses[:len(next.Expenses)-1]
	return next, []Effect{{Kind: DeleteEffect, Expense: last}}
}
