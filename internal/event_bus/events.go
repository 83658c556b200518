package event_bus

const (
	ExpenseAddedType   EventType = "expense.added"
	ExpenseRemovedType EventType = "expense.removed"
)

type ExpenseAdded struct {
	Id   int64
	Name string
	Cost float64
}

type ExpenseRemoved struct {
	Id   int64
	Name string
	Cost float64
}
