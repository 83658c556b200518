package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/splitthat/splitthat/internal/app"
	"github.com/splitthat/splitthat/internal/config"
	"github.com/splitthat/splitthat/pkg/expense_list"
)

func newListCommand(loadConfig func() (config.Application, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withScreen(cmd.Context(), loadConfig, func(screen *expense_list.Screen) error {
				printList(cmd.OutOrStdout(), screen.Snapshot())
				return nil
			})
		},
	}
}

func newAddCommand(loadConfig func() (config.Application, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME COST",
		Short: "Add an expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withScreen(cmd.Context(), loadConfig, func(screen *expense_list.Screen) error {
				added, err := screen.Add(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", added.Name, expense_list.FormatAmount(added.Cost))
				return nil
			})
		},
	}
}

func newRemoveLastCommand(loadConfig func() (config.Application, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-last",
		Short: "Remove the most recently added expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withScreen(cmd.Context(), loadConfig, func(screen *expense_list.Screen) error {
				removed, ok, err := screen.RemoveLast(cmd.Context())
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No expenses to remove")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%s)\n", removed.Name, expense_list.FormatAmount(removed.Cost))
				return nil
			})
		},
	}
}

// withScreen opens the configured store, loads the expense list and hands it to fn.
func withScreen(ctx context.Context, loadConfig func() (config.Application, error), fn func(*expense_list.Screen) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repo, closeDb, err := app.OpenRepository(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeDb()

	deps, err := app.BuildDependencies(ctx, repo)
	if err != nil {
		return err
	}
	return fn(deps.ExpenseScreen)
}

func printList(w io.Writer, state expense_list.State) {
	fmt.Fprintln(w, "Expenses")
	for _, e := range state.Expenses {
		fmt.Fprintf(w, "  %-24s %10s\n", e.Name, expense_list.FormatAmount(e.Cost))
	}
	fmt.Fprintf(w, "  %-24s %10s\n", "Total", state.Total().StringFixed(2))
}
