package app

import (
	"context"
	"fmt"

	"github.com/splitthat/splitthat/internal/config"
	"github.com/splitthat/splitthat/internal/database"
	"github.com/splitthat/splitthat/internal/event_bus"
	"github.com/splitthat/splitthat/pkg/expense"
	"github.com/splitthat/splitthat/pkg/expense_list"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	ExpenseRepo        expense.Repository
	EventBus           *event_bus.EventBus
	ExpenseScreen      *expense_list.Screen
	ExpenseListHandler *expense_list.Handler
}

// OpenRepository opens the configured store, makes sure the expenses table
// exists and returns the repository with a function releasing the store.
func OpenRepository(ctx context.Context, cfg config.Database) (expense.Repository, func(), error) {
	var (
		repo    expense.Repository
		closeFn func()
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo, closeFn = expense.NewPgRepository(pool), pool.Close
	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		repo, closeFn = expense.NewRepository(db), func() { _ = db.Close() }
	default:
		return nil, nil, fmt.Errorf("unsupported db driver: %s", cfg.Driver)
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return repo, closeFn, nil
}

// BuildDependencies wires the expense list on top of repo and loads its initial state.
func BuildDependencies(ctx context.Context, repo expense.Repository) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.ExpenseRepo = repo
	deps.EventBus = event_bus.NewEventBus()
	subscribeAuditLog(deps.EventBus)

	deps.ExpenseScreen = expense_list.NewScreen(deps.ExpenseRepo, deps.EventBus)
	if err := deps.ExpenseScreen.Load(ctx); err != nil {
		return nil, err
	}
	deps.ExpenseListHandler = expense_list.NewHandler(deps.ExpenseScreen)

	return deps, nil
}

func subscribeAuditLog(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.ExpenseAddedType,
		func(e event_bus.EventT[event_bus.ExpenseAdded]) error {
			log.WithFields(log.Fields{"id": e.Data.Id, "name": e.Data.Name, "cost": e.Data.Cost, "at": e.Timestamp}).Info("expense added")
			return nil
		})
	event_bus.SubscribeTyped(bus, event_bus.ExpenseRemovedType,
		func(e event_bus.EventT[event_bus.ExpenseRemoved]) error {
			log.WithFields(log.Fields{"id": e.Data.Id, "name": e.Data.Name, "cost": e.Data.Cost, "at": e.Timestamp}).Info("expense removed")
			return nil
		})
}
