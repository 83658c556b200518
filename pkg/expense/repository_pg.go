package expense

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/splitthat/splitthat/internal/database"
	log "github.com/sirupsen/logrus"
)

// PgRepositoryImpl stores expenses in Postgres, using the id column as row identity.
type PgRepositoryImpl struct {
	db *pgxpool.Pool
}

func NewPgRepository(db *pgxpool.Pool) *PgRepositoryImpl {
	return &PgRepositoryImpl{db: db}
}

func (r PgRepositoryImpl) EnsureSchema(ctx context.Context) error {
	if err := database.MigratePostgres(r.db); err != nil {
		err := fmt.Errorf("%w: could not create expenses table: %v", ErrStorage, err)
		log.Error(err)
		return err
	}
	return nil
}

func (r PgRepositoryImpl) ListAll(ctx context.Context) ([]Expense, error) {
	rows, err := r.db.Query(ctx, "SELECT id, COALESCE(expense_name, ''), COALESCE(cost, '') FROM expenses ORDER BY id")
	if err != nil {
		err := fmt.Errorf("%w: could not query expenses: %v", ErrStorage, err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	expenses := []Expense{}
	for rows.Next() {
		var (
			id       int64
			name     string
			costText string
		)
		if err := rows.Scan(&id, &name, &costText); err != nil {
			err := fmt.Errorf("%w: could not scan expense: %v", ErrStorage, err)
			log.Error(err)
			return nil, err
		}
		expenses = append(expenses, rowToExpense(id, name, costText))
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("%w: error iterating over rows: %v", ErrStorage, err)
		log.Error(err)
		return nil, err
	}
	return expenses, nil
}

func (r PgRepositoryImpl) Insert(ctx context.Context, name, costText string) (Expense, error) {
	cost, column, err := costForColumn(costText)
	if err != nil {
		return Expense{}, err
	}
	var id int64
	err = r.db.QueryRow(ctx,
		"INSERT INTO expenses (expense_name, cost) VALUES ($1, $2) RETURNING id",
		name,
		column,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("%w: could not insert expense: %v", ErrStorage, err)
		log.Error(err)
		return Expense{}, err
	}
	return Expense{ID: id, Name: name, Cost: cost}, nil
}

func (r PgRepositoryImpl) DeleteByName(ctx context.Context, name string) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM expenses WHERE expense_name = $1", name)
	if err != nil {
		err := fmt.Errorf("%w: could not delete expenses: %v", ErrStorage, err)
		log.Error(err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r PgRepositoryImpl) DeleteLastByName(ctx context.Context, name string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM expenses
		 WHERE id = (SELECT MAX(id) FROM expenses WHERE expense_name = $1)`,
		name,
	)
	if err != nil {
		err := fmt.Errorf("%w: could not delete expense: %v", ErrStorage, err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r PgRepositoryImpl) DeleteByID(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id)
	if err != nil {
		err := fmt.Errorf("%w: could not delete expense %d: %v", ErrStorage, id, err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
