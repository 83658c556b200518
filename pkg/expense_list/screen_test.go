package expense_list

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/splitthat/splitthat/internal/event_bus"
	"github.com/splitthat/splitthat/internal/test_utils"
	"github.com/splitthat/splitthat/pkg/expense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSqliteScreen(t *testing.T) (context.Context, *Screen, expense.Repository) {
	ctx := context.Background()
	repo := expense.NewRepository(test_utils.SetupTestDB(t))
	screen := NewScreen(repo, event_bus.NewEventBus())
	require.NoError(t, screen.Load(ctx))
	return ctx, screen, repo
}

func listAll(t *testing.T, ctx context.Context, repo expense.Repository) []expense.Expense {
	t.Helper()
	stored, err := repo.ListAll(ctx)
	require.NoError(t, err)
	out := make([]expense.Expense, 0, len(stored))
	for _, e := range stored {
		e.ID = 0
		out = append(out, e)
	}
	return out
}

func costs(expenses []expense.Expense) []float64 {
	out := make([]float64, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, e.Cost)
	}
	return out
}

func TestScreen_LoadSeedsListFromStore(t *testing.T) {
	// given
	repo := expense.NewRepositoryStub(
		expense.Expense{Name: "Coffee", Cost: 3.5},
		expense.Expense{Name: "Tea", Cost: 2},
	)
	screen := NewScreen(repo, nil)

	// when
	err := screen.Load(context.Background())

	// then
	require.NoError(t, err)
	assert.Equal(t, []expense.Expense{
		{ID: 1, Name: "Coffee", Cost: 3.5},
		{ID: 2, Name: "Tea", Cost: 2},
	}, screen.Snapshot().Expenses)
}

func TestScreen_AddThenRemoveScenario(t *testing.T) {
	ctx, screen, repo := setupSqliteScreen(t)

	_, err := screen.Add(ctx, "Coffee", "3.50")
	require.NoError(t, err)
	assert.Equal(t, []expense.Expense{{Name: "Coffee", Cost: 3.5}}, listAll(t, ctx, repo))

	_, err = screen.Add(ctx, "Tea", "2.00")
	require.NoError(t, err)
	assert.Equal(t, []expense.Expense{{Name: "Coffee", Cost: 3.5}, {Name: "Tea", Cost: 2}}, listAll(t, ctx, repo))

	removed, ok, err := screen.RemoveLast(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Tea", removed.Name)
	assert.Equal(t, []expense.Expense{{Name: "Coffee", Cost: 3.5}}, listAll(t, ctx, repo))
	assert.Len(t, screen.Snapshot().Expenses, 1)
}

func TestScreen_AddsAreListedInInsertionOrder(t *testing.T) {
	// given
	ctx, screen, repo := setupSqliteScreen(t)
	var want []expense.Expense

	// when
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("expense-%d", i%3)
		cost := float64(i)*1.25 - 7
		_, err := screen.Add(ctx, name, strconv.FormatFloat(cost, 'f', -1, 64))
		require.NoError(t, err)
		want = append(want, expense.Expense{Name: name, Cost: cost})
	}

	// then
	assert.Equal(t, want, listAll(t, ctx, repo))
	stored, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, screen.Snapshot().Expenses)
}

func TestScreen_RemovingOnlyExpenseEmptiesMemoryAndStore(t *testing.T) {
	ctx, screen, repo := setupSqliteScreen(t)
	_, err := screen.Add(ctx, "Coffee", "3.50")
	require.NoError(t, err)

	_, ok, err := screen.RemoveLast(ctx)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, screen.Snapshot().IsEmpty())
	assert.Empty(t, listAll(t, ctx, repo))
}

func TestScreen_RemoveLastOnEmptyListIsNoOp(t *testing.T) {
	ctx, screen, repo := setupSqliteScreen(t)

	_, ok, err := screen.RemoveLast(ctx)

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, screen.Snapshot().IsEmpty())
	assert.Empty(t, listAll(t, ctx, repo))
}

func TestScreen_MalformedCostChangesNothing(t *testing.T) {
	// given
	ctx, screen, repo := setupSqliteScreen(t)
	_, err := screen.Add(ctx, "Coffee", "3.50")
	require.NoError(t, err)
	before := screen.Snapshot()

	// when
	_, err = screen.Add(ctx, "Tea", "abc")

	// then
	assert.ErrorIs(t, err, expense.ErrInvalidCost)
	assert.Equal(t, before, screen.Snapshot())
	assert.Equal(t, []expense.Expense{{Name: "Coffee", Cost: 3.5}}, listAll(t, ctx, repo))
}

// Matching by name alone would delete every "Coffee" row (DeleteByName), while
// removing the last expense must take exactly one row, the newest one.
func TestScreen_RemoveLastWithDuplicateNamesDeletesExactlyOneRow(t *testing.T) {
	// given
	ctx, screen, repo := setupSqliteScreen(t)
	for _, in := range [][2]string{{"Coffee", "3.50"}, {"Tea", "2"}, {"Coffee", "4"}} {
		_, err := screen.Add(ctx, in[0], in[1])
		require.NoError(t, err)
	}

	// when
	_, _, err := screen.RemoveLast(ctx)

	// then
	require.NoError(t, err)
	assert.Equal(t, []expense.Expense{{Name: "Coffee", Cost: 3.5}, {Name: "Tea", Cost: 2}}, listAll(t, ctx, repo))

	// and the name-only contract still removes all duplicates
	deleted, err := repo.DeleteByName(ctx, "Coffee")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestScreen_AddStoresCostAsTyped(t *testing.T) {
	// given
	ctx := context.Background()
	db := test_utils.SetupTestDB(t)
	screen := NewScreen(expense.NewRepository(db), nil)
	require.NoError(t, screen.Load(ctx))

	// when
	for _, costText := range []string{"3.50", "2.00", "1e2"} {
		_, err := screen.Add(ctx, "Coffee", costText)
		require.NoError(t, err)
	}

	// then
	rows, err := db.Query("SELECT cost FROM expenses ORDER BY rowid")
	require.NoError(t, err)
	defer rows.Close()
	var columns []string
	for rows.Next() {
		var column string
		require.NoError(t, rows.Scan(&column))
		columns = append(columns, column)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"3.50", "2.00", "1e2"}, columns)
	assert.Equal(t, []float64{3.5, 2, 100}, costs(screen.Snapshot().Expenses))
}

func TestScreen_RemoveLastLeavesSameNamedRowsFromOtherWriters(t *testing.T) {
	// given a row with the same name stored by another writer after this screen's add
	ctx := context.Background()
	repo := expense.NewRepositoryStub()
	screen := NewScreen(repo, nil)
	require.NoError(t, screen.Load(ctx))
	_, err := screen.Add(ctx, "Coffee", "3")
	require.NoError(t, err)
	_, err = repo.Insert(ctx, "Coffee", "4")
	require.NoError(t, err)

	// when
	removed, ok, err := screen.RemoveLast(ctx)

	// then
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3.0, removed.Cost)
	assert.Equal(t, []expense.Expense{{Name: "Coffee", Cost: 4}}, listAll(t, ctx, repo))
}

func TestScreen_RemoveLastDropsListItemEvenWithoutStoredRow(t *testing.T) {
	// given the row was cleared from the store behind the screen's back
	ctx, screen, repo := setupSqliteScreen(t)
	_, err := screen.Add(ctx, "Coffee", "3.50")
	require.NoError(t, err)
	_, err = repo.DeleteByName(ctx, "Coffee")
	require.NoError(t, err)

	// when
	_, ok, err := screen.RemoveLast(ctx)

	// then
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, screen.Snapshot().IsEmpty())
}

func TestScreen_StorageFailureLeavesStateUnchanged(t *testing.T) {
	// given
	ctx := context.Background()
	repo := expense.NewRepositoryStub(expense.Expense{Name: "Coffee", Cost: 3.5})
	screen := NewScreen(repo, nil)
	require.NoError(t, screen.Load(ctx))
	before := screen.Snapshot()
	repo.Err = fmt.Errorf("%w: disk full", expense.ErrStorage)

	// when
	_, addErr := screen.Add(ctx, "Tea", "2")
	_, _, removeErr := screen.RemoveLast(ctx)

	// then
	assert.ErrorIs(t, addErr, expense.ErrStorage)
	assert.ErrorIs(t, removeErr, expense.ErrStorage)
	assert.Equal(t, before, screen.Snapshot())
}

func TestScreen_LoadFailure(t *testing.T) {
	repo := expense.NewRepositoryStub()
	repo.Err = errors.New("unavailable")
	screen := NewScreen(repo, nil)

	err := screen.Load(context.Background())

	assert.ErrorContains(t, err, "failed to load expenses")
	assert.True(t, screen.Snapshot().IsEmpty())
}

func TestScreen_PublishesEvents(t *testing.T) {
	// given
	ctx := context.Background()
	bus := event_bus.NewEventBus()
	var added []event_bus.ExpenseAdded
	var removed []event_bus.ExpenseRemoved
	event_bus.SubscribeTyped(bus, event_bus.ExpenseAddedType, func(e event_bus.EventT[event_bus.ExpenseAdded]) error {
		added = append(added, e.Data)
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.ExpenseRemovedType, func(e event_bus.EventT[event_bus.ExpenseRemoved]) error {
		removed = append(removed, e.Data)
		return nil
	})
	screen := NewScreen(expense.NewRepositoryStub(), bus)

	// when
	_, err := screen.Add(ctx, "Coffee", "3.5")
	require.NoError(t, err)
	_, err = screen.Add(ctx, "Tea", "oops")
	require.Error(t, err)
	_, _, err = screen.RemoveLast(ctx)
	require.NoError(t, err)
	_, _, err = screen.RemoveLast(ctx)
	require.NoError(t, err)

	// then
	assert.Equal(t, []event_bus.ExpenseAdded{{Id: 1, Name: "Coffee", Cost: 3.5}}, added)
	assert.Equal(t, []event_bus.ExpenseRemoved{{Id: 1, Name: "Coffee", Cost: 3.5}}, removed)
}
