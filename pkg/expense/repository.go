package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/splitthat/splitthat/internal/database"
	log "github.com/sirupsen/logrus"
)

// Repository is the persistence boundary of the expense list.
type Repository interface {
	// EnsureSchema creates the expenses table if it does not exist yet.
	EnsureSchema(ctx context.Context) error
	// ListAll returns every stored expense in insertion order.
	ListAll(ctx context.Context) ([]Expense, error)
	// Insert appends one expense, keeping costText as typed, and returns it with
	// its row id. Malformed cost text fails with ErrInvalidCost and stores nothing.
	Insert(ctx context.Context, name, costText string) (Expense, error)
	// DeleteByName removes all expenses named exactly name and reports how many were removed.
	DeleteByName(ctx context.Context, name string) (int64, error)
	// DeleteLastByName removes the most recently inserted expense named exactly name.
	DeleteLastByName(ctx context.Context, name string) (bool, error)
	// DeleteByID removes the expense with row identity id.
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

// RepositoryImpl stores expenses in SQLite, using the implicit rowid as row identity.
type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r RepositoryImpl) EnsureSchema(ctx context.Context) error {
	if err := database.MigrateSQLite(r.db); err != nil {
		err := fmt.Errorf("%w: could not create expenses table: %v", ErrStorage, err)
		log.Error(err)
		return err
	}
	return nil
}

func (r RepositoryImpl) ListAll(ctx context.Context) ([]Expense, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT rowid, expense_name, cost FROM expenses ORDER BY rowid")
	if err != nil {
		err := fmt.Errorf("%w: could not query expenses: %v", ErrStorage, err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	expenses := []Expense{}
	for rows.Next() {
		var (
			id   int64
			name sql.NullString
			cost sql.NullString
		)
		if err := rows.Scan(&id, &name, &cost); err != nil {
			err := fmt.Errorf("%w: could not scan expense: %v", ErrStorage, err)
			log.Error(err)
			return nil, err
		}
		expenses = append(expenses, rowToExpense(id, name.String, cost.String))
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("%w: error iterating over rows: %v", ErrStorage, err)
		log.Error(err)
		return nil, err
	}
	return expenses, nil
}

func (r RepositoryImpl) Insert(ctx context.Context, name, costText string) (Expense, error) {
	cost, column, err := costForColumn(costText)
	if err != nil {
		return Expense{}, err
	}
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO expenses (expense_name, cost) VALUES (?, ?)",
		name,
		column,
	)
	if err != nil {
		err := fmt.Errorf("%w: could not insert expense: %v", ErrStorage, err)
		log.Error(err)
		return Expense{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("%w: could not retrieve last insert id: %v", ErrStorage, err)
		log.Error(err)
		return Expense{}, err
	}
	return Expense{ID: id, Name: name, Cost: cost}, nil
}

func (r RepositoryImpl) DeleteByName(ctx context.Context, name string) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM expenses WHERE expense_name = ?", name)
	if err != nil {
		err := fmt.Errorf("%w: could not delete expenses: %v", ErrStorage, err)
		log.Error(err)
		return 0, err
	}
	return rowsAffected(result)
}

func (r RepositoryImpl) DeleteLastByName(ctx context.Context, name string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses
		 WHERE rowid = (SELECT MAX(rowid) FROM expenses WHERE expense_name = ?)`,
		name,
	)
	if err != nil {
		err := fmt.Errorf("%w: could not delete expense: %v", ErrStorage, err)
		log.Error(err)
		return false, err
	}
	deleted, err := rowsAffected(result)
	if err != nil {
		return false, err
	}
	return deleted == 1, nil
}

func (r RepositoryImpl) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM expenses WHERE rowid = ?", id)
	if err != nil {
		err := fmt.Errorf("%w: could not delete expense %d: %v", ErrStorage, id, err)
		log.Error(err)
		return false, err
	}
	deleted, err := rowsAffected(result)
	if err != nil {
		return false, err
	}
	return deleted == 1, nil
}

func rowsAffected(result sql.Result) (int64, error) {
	affected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("%w: could not get rows affected: %v", ErrStorage, err)
		log.Error(err)
		return 0, err
	}
	return affected, nil
}

func rowToExpense(id int64, name, costText string) Expense {
	cost, ok := costFromColumn(costText)
	if !ok {
		log.Warnf("expense %d (%s) has a non-numeric cost %q, reading it as 0", id, name, costText)
	}
	return Expense{ID: id, Name: name, Cost: cost}
}
