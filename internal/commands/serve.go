package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/splitthat/splitthat/internal/app"
	"github.com/splitthat/splitthat/internal/config"
)

func newServeCommand(loadConfig func() (config.Application, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the expense list over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.NewApplication(ctx, cfg)
			if err != nil {
				return err
			}
			return application.Run(ctx)
		},
	}
}
